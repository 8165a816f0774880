package domain

import (
	"crypto/sha1"
	"encoding/hex"

	"golang.org/x/text/encoding/charmap"
)

// Digest returns the lowercase hex SHA-1 of s encoded as ISO-8859-1.
// Characters outside Latin-1 are encoded as '?' once per UTF-16 code unit,
// so that every client derives the same digest for the same candidate.
func Digest(s string) string {
	sum := sha1.Sum(latin1(s))
	return hex.EncodeToString(sum[:])
}

func latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := charmap.ISO8859_1.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
		if r > 0xFFFF {
			out = append(out, '?')
		}
	}
	return out
}
