package repo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bazi-agent/server/internal/agent/model"
	errx "github.com/bazi-agent/server/internal/core/error"
	logx "github.com/bazi-agent/server/pkg/logger"
)

// RedisSearchCache stores grounded search answers keyed by backend and
// normalised query.
type RedisSearchCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisSearchCache(rdb redis.Cmdable, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{rdb: rdb, ttl: ttl}
}

func (r *RedisSearchCache) searchKey(backend, query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(strings.Fields(query), " "))))
	return fmt.Sprintf("search:%s:%s", backend, hex.EncodeToString(sum[:]))
}

// Get returns the cached result, or nil on a miss.
func (r *RedisSearchCache) Get(ctx context.Context, backend, query string) (*model.SearchResult, error) {
	key := r.searchKey(backend, query)
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to read search cache")
		return nil, errx.WrapCache("get", backend, err)
	}

	var res model.SearchResult
	if err := json.Unmarshal(b, &res); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("dropping undecodable search cache entry")
		r.rdb.Del(ctx, key)
		return nil, nil
	}
	return &res, nil
}

func (r *RedisSearchCache) Set(ctx context.Context, backend, query string, res *model.SearchResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal search result: %w", err)
	}
	key := r.searchKey(backend, query)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to write search cache")
		return errx.WrapCache("set", backend, err)
	}
	return nil
}
