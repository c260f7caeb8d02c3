// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/ids"
)

func TestCheckAccess(t *testing.T) {
	poll := ids.GenerateTestID()

	tests := []struct {
		name    string
		meta    Meta
		caller  string
		wantErr error
	}{
		{"owner may always read", Meta{PollID: poll, OwnerID: "alice", Public: false}, "alice", nil},
		{"public poll readable by anyone", Meta{PollID: poll, OwnerID: "alice", Public: true}, "bob", nil},
		{"anonymous caller on public poll", Meta{PollID: poll, OwnerID: "alice", Public: true}, "", nil},
		{"non-owner on private poll forbidden", Meta{PollID: poll, OwnerID: "alice", Public: false}, "bob", ErrForbidden},
		{"anonymous caller on private poll forbidden", Meta{PollID: poll, OwnerID: "alice", Public: false}, "", ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAccess(tt.meta, tt.caller)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
