// Handles durable storage of cached values
package cache

// GenericCache is a plain key-value store for cached values.
// It never expires anything: deciding freshness is left to the caller.
type GenericCache interface {
	// retrieves the stored value.
	// returns nil, nil when not found
	Get(key string) ([]byte, error)
	// stores value under key, replacing any previous value
	Set(key string, value []byte) error
	// removes key; removing a missing key is not an error
	Delete(key string) error
	// initializes the cache (e.g., creates necessary directories)
	Init() error
}
