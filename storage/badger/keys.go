package badger

// Key prefixes for different data types
const (
	cacheEntryPrefix = "cacent"
)

// makeCacheEntryKey generates a storage key for a normalized cache key.
func makeCacheEntryKey(cacheKey string) []byte {
	prefix := cacheEntryPrefix + ":"
	buf := make([]byte, len(prefix)+len(cacheKey))
	offset := copy(buf, prefix)
	copy(buf[offset:], cacheKey)
	return buf
}

// cacheKeyFromStorageKey strips the prefix from a storage key, returning
// the normalized cache key and whether the storage key had the prefix.
func cacheKeyFromStorageKey(storageKey []byte) (string, bool) {
	prefix := cacheEntryPrefix + ":"
	if len(storageKey) < len(prefix) || string(storageKey[:len(prefix)]) != prefix {
		return "", false
	}
	return string(storageKey[len(prefix):]), true
}
