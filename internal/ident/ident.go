// Package ident generates collision-resistant opaque identifiers for
// catalog entities.
package ident

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const randomLength = 11

// New returns an opaque identifier: the current Unix millisecond timestamp in
// base 36 followed by a random base-36 suffix. The timestamp prefix keeps ids
// roughly sortable by creation time while the suffix guards against
// same-millisecond collisions.
func New() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return ts + randomBase36(randomLength)
}

func randomBase36(n int) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	max := big.NewInt(int64(len(alphabet)))

	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the platform RNG is broken;
			// fall back to a timestamp-derived digit.
			buf[i] = alphabet[time.Now().UnixNano()%int64(len(alphabet))]
			continue
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf)
}
