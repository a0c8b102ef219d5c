package driver

import (
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// contentHash computes the fast, non-cryptographic content hash used for
// both the markup-unchanged check (spec §4.F step 1) and the
// last_css_hash skip-write check (spec §4.F, full rewrite). xxhash is a
// transitive dependency throughout the retrieval pack's go.sum graphs
// but never directly imported by any pack source; it is wired here as
// the direct hashing primitive instead.
func contentHash(b []byte) string {
	return hex.EncodeToString(encodeUint64(xxhash.Sum64(b)))
}

func encodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return buf
}
