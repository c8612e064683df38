package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned by New when no URL is set.
var ErrNotConfigured = errors.New("redis url not configured")

// Config is read with the REDIS_ prefix. An empty URL disables Redis.
type Config struct {
	URL          string `split_words:"true"`
	ReadTimeout  int    `split_words:"true" default:"3"`
	WriteTimeout int    `split_words:"true" default:"3"`
	DialTimeout  int    `split_words:"true" default:"5"`
}

// Enabled reports whether a URL was provided.
func (r *Config) Enabled() bool {
	return r.URL != ""
}

// New parses the URL, applies the timeouts and pings the server.
func (r *Config) New(ctx context.Context) (*redis.Client, error) {
	if !r.Enabled() {
		return nil, ErrNotConfigured
	}
	opts, err := redis.ParseURL(r.URL)
	if err != nil {
		return nil, err
	}

	opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}

func (r *Config) MustNew(ctx context.Context) *redis.Client {
	client, err := r.New(ctx)
	if err != nil {
		panic(err)
	}

	return client
}
