package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// ContentKey hashes parts into a hex digest. Parts are NUL separated, so
// ("ab", "c") and ("a", "bc") give different keys.
func ContentKey(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ShortHash returns the first 8 hex characters of the digest of input, used
// to build stable identifiers for inline sources and snippets.
func ShortHash(input []byte) string {
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:4])
}

// ReaderDigest drains reader and returns the first 8 hex characters of the
// digest of its content.
func ReaderDigest(reader io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil))[:8], nil
}
