package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// FingerprintFiles produces a stable hash over the identity of a list of
// source files: path, size, and modification time, in order. Editing,
// replacing, or reordering any source changes the fingerprint without
// reading file contents.
func FingerprintFiles(paths []string) (string, error) {
	type fileID struct {
		Path    string `json:"path"`
		Size    int64  `json:"size"`
		ModTime int64  `json:"mod_time"`
	}

	ids := make([]fileID, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", err
		}
		ids = append(ids, fileID{Path: p, Size: info.Size(), ModTime: info.ModTime().UnixNano()})
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
