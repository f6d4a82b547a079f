package helpers

import (
	_ "crypto/sha256" // registers the algorithm used by digest.Canonical

	"github.com/opencontainers/go-digest"
)

// SHA256 returns the hex encoded sha256 digest of input.
func SHA256(input string) string {
	return digest.FromString(input).Encoded()
}

func SHA256Bytes(input []byte) string {
	return digest.FromBytes(input).Encoded()
}

// ShortDigest returns the first n characters of the sha256 digest of input.
func ShortDigest(input string, n int) string {
	h := SHA256(input)
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}
