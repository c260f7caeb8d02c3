// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	ErrInvalidNumWinners      = errors.New("num_winners must be >= 1")
	ErrUnsupportedMultiWinner = errors.New("multi-winner tabulation (num_winners != 1) is not supported")
	ErrInvalidTimeout         = errors.New("tabulation timeout must be >= 0")
)
