package common

import "time"

// CacheInterface is satisfied by the go-cache and Redis backends.
// Values must be strings when the Redis backend is in use; callers encode
// structured values as JSON before Set.
type CacheInterface interface {
	Set(key string, value interface{}, duration time.Duration)
	// Get reports false on a miss or a backend error.
	Get(key string) (interface{}, bool)
	Delete(key string)
	Close() error
}
