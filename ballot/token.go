// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"

	"github.com/luxfi/ids"
)

// Token is an opaque, high-entropy, single-use credential authorizing one
// ballot submission to one poll. Tokens are never reused across polls.
type Token string

// tokenBytes is the entropy carried by a generated token; 20 bytes gives
// 160 bits, comfortably above the spec's 128-bit floor.
const tokenBytes = 20

// NewToken generates a fresh, cryptographically random token. crypto/rand
// is used directly: no example in the retrieval corpus ships a dedicated
// secure-token library, and this is exactly what crypto/rand is for.
func NewToken() (Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return Token(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)), nil
}

// tokenState is the lifecycle of an issued token.
type tokenState int

const (
	tokenUnconsumed tokenState = iota
	tokenConsumed
)

// newID mints a fresh random identifier for records (candidates,
// ballots) created on the write path. ids.GenerateTestID is a test-only
// helper; production code fills the opaque ID directly via
// crypto/rand, the same primitive NewToken uses above.
func newID() (ids.ID, error) {
	var id ids.ID
	if _, err := rand.Read(id[:]); err != nil {
		return ids.Empty, fmt.Errorf("generate id: %w", err)
	}
	return id, nil
}

// tokenRecord is the store's bookkeeping entry for an issued token.
type tokenRecord struct {
	pollID ids.ID
	state  tokenState
}

// Receipt is returned to the voter on a successful submission.
type Receipt struct {
	BallotID         ids.ID
	VerificationCode string
	SubmittedAt      int64 // unix nanos, monotonic within a poll's ballot sequence
}

// verificationCode derives a short, human-readable code from a ballot ID
// so a voter can confirm their submission was recorded without exposing
// the full opaque ID.
func verificationCode(ballotID ids.ID) string {
	s := ballotID.String()
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}
