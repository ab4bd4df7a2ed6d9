package dataset

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the engineered content of a table. Two tables with the
// same records in the same order share a fingerprint.
func Fingerprint(t *Table) string {
	h := xxhash.New()
	if t != nil {
		if err := Write(h, t); err != nil {
			return ""
		}
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
