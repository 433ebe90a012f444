// Package util provides content hashing and front matter helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// ETag wraps the content hash in quotes, as required for the ETag header.
func ETag(content []byte) string {
	return `"` + ContentHash(content)[:16] + `"`
}
