package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnectsAndPings(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := Config{URL: "redis://" + mr.Addr() + "/0", ReadTimeout: 1, WriteTimeout: 1, DialTimeout: 1}

	client, err := cfg.New(context.Background())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewDisabled(t *testing.T) {
	var cfg Config
	assert.False(t, cfg.Enabled())
	_, err := cfg.New(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Panics(t, func() { cfg.MustNew(context.Background()) })
}

func TestNewBadURL(t *testing.T) {
	cfg := Config{URL: "http://not-redis"}
	_, err := cfg.New(context.Background())
	assert.Error(t, err)
}
