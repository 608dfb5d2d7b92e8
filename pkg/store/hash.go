package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// keyType returns the part of a key used to label metrics: the segment
// before the last ':' separator is dropped, so "window:main:panelWidths"
// reports as "panelWidths" and "layout:<hash>" as "layout".
func keyType(key string) string {
	if strings.HasPrefix(key, layoutPrefix) || strings.Contains(key, ":"+layoutPrefix) {
		return "layout"
	}
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}
