// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/luxfi/ids"
)

// Fingerprint is a digest identifying a consistent ballot set: it changes
// whenever a new ballot arrives, automatically invalidating cache entries
// keyed on the prior value. Stdlib crypto/sha256 is used directly: a
// fingerprint is a plain content hash, not a domain-specific concern any
// pack library specializes in.
func Fingerprint(pollID ids.ID, lastSubmittedAt time.Time, ballotCount int) string {
	h := sha256.New()
	h.Write(pollID[:])
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(lastSubmittedAt.UnixNano()))
	binary.BigEndian.PutUint64(buf[8:], uint64(ballotCount))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}
