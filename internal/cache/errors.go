package cache

import "errors"

// Errors shared by the Cache implementations.
var (
	ErrCacheMiss        = errors.New("cache: miss")
	ErrCacheUnavailable = errors.New("cache: redis unavailable")
	ErrInvalidValue     = errors.New("cache: stored value does not decode")
)
