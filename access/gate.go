// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package access implements the results access layer (C4): the
// owner/public permission gate and the snapshot-fingerprinted, at-most-
// once-concurrent tabulation cache that sits in front of the engine.
package access

import (
	"errors"

	"github.com/luxfi/ids"
)

// ErrForbidden is returned when a caller who is neither the poll's owner
// nor reading a public poll asks for results.
var ErrForbidden = errors.New("forbidden")

// Meta is the subset of poll metadata the gate needs: who owns it, and
// whether it is publicly readable.
type Meta struct {
	PollID  ids.ID
	OwnerID string
	Public  bool
}

// MetaSource resolves poll metadata by ID. It is an external collaborator
// per spec.md §1 (poll management is out of scope for the core); the core
// only needs this narrow read.
type MetaSource interface {
	Meta(pollID ids.ID) (Meta, bool)
}

// CheckAccess implements spec.md §4.4's access policy: the owner may
// always read; any caller may read a public poll; otherwise ErrForbidden.
func CheckAccess(meta Meta, callerID string) error {
	if callerID != "" && callerID == meta.OwnerID {
		return nil
	}
	if meta.Public {
		return nil
	}
	return ErrForbidden
}
