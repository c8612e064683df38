package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
)

const (
	CacheMissMessage    = "search cache entry not found"
	CacheTimeoutMessage = "search cache timed out"
	CacheErrorMessage   = "search cache unavailable"
)

// WrapCache maps a search cache failure for one backend to an AppError.
// op is the cache operation ("get", "set").
func WrapCache(op, backend string, err error) error {
	if err == nil {
		return nil
	}
	cause := fmt.Errorf("search cache %s %s: %w", op, backend, err)

	switch {
	case errors.Is(err, redis.Nil):
		return New(cause, http.StatusNotFound, CacheMissMessage)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return New(cause, http.StatusGatewayTimeout, CacheTimeoutMessage)
	}
	return New(cause, http.StatusBadGateway, CacheErrorMessage)
}
