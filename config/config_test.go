// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultParametersAreValid(t *testing.T) {
	require.NoError(t, DefaultParameters().Valid())
}

func TestParameters_Valid(t *testing.T) {
	tests := []struct {
		name    string
		params  Parameters
		wantErr error
	}{
		{"zero winners rejected", Parameters{NumWinners: 0}, ErrInvalidNumWinners},
		{"negative winners rejected", Parameters{NumWinners: -1}, ErrInvalidNumWinners},
		{"multi-winner rejected", Parameters{NumWinners: 2}, ErrUnsupportedMultiWinner},
		{"negative timeout rejected", Parameters{NumWinners: 1, TabulationTimeout: -time.Second}, ErrInvalidTimeout},
		{"single winner, zero timeout ok", Parameters{NumWinners: 1}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Valid()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
