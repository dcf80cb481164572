package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "<kind>:<hash>" where the hash covers parts encoded as one
// JSON array, so ("ab", 1) and ("a", "b1") never collide.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// entryPath shards key under dir by the first byte of its hash:
// dir/3f/2a9c...json.
func entryPath(dir, key string) string {
	h := Hash([]byte(key))
	return filepath.Join(dir, h[:2], h[2:]+".json")
}
