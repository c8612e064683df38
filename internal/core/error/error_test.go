package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazi-agent/server/internal/bazi"
)

func TestAppErrorChain(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("outer: %w", New(base, http.StatusTeapot, "safe"))

	assert.True(t, errors.Is(err, base))
	var ae *AppError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusTeapot, ae.Status)
	assert.Equal(t, "safe: boom", ae.Error())
	assert.Equal(t, http.StatusTeapot, StatusOf(err))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(base))
	assert.Equal(t, "only message", New(nil, http.StatusOK, "only message").Error())
}

func TestWrapCache(t *testing.T) {
	assert.NoError(t, WrapCache("get", "web", nil))

	miss := WrapCache("get", "web", redis.Nil)
	assert.Equal(t, http.StatusNotFound, StatusOf(miss))
	assert.True(t, errors.Is(miss, redis.Nil))

	slow := WrapCache("set", "knowledge", context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, StatusOf(slow))
	assert.Contains(t, slow.Error(), "search cache set knowledge")

	down := WrapCache("get", "web", errors.New("dial tcp"))
	assert.Equal(t, http.StatusBadGateway, StatusOf(down))
	var ae *AppError
	require.True(t, errors.As(down, &ae))
	assert.Equal(t, CacheErrorMessage, ae.Message)
}

func TestWrapBazi(t *testing.T) {
	assert.NoError(t, WrapBazi(nil))

	_, err := bazi.Compute(bazi.CivilDateTime{Year: 2023, Month: 2, Day: 30})
	wrapped := WrapBazi(err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(wrapped))
	var ide *bazi.InvalidDateError
	require.ErrorAs(t, wrapped, &ide)
	assert.Equal(t, "day", ide.Field)

	_, err = bazi.Compute(bazi.CivilDateTime{Year: 1850, Month: 1, Day: 1})
	assert.Equal(t, http.StatusUnprocessableEntity, StatusOf(WrapBazi(err)))

	assert.Equal(t, http.StatusInternalServerError, StatusOf(WrapBazi(errors.New("other"))))
}

func TestWrapSearch(t *testing.T) {
	assert.NoError(t, WrapSearch(nil))
	assert.Equal(t, http.StatusBadRequest, StatusOf(WrapSearch(ErrEmptyQuery)))
	assert.Equal(t, http.StatusGatewayTimeout, StatusOf(WrapSearch(fmt.Errorf("call: %w", context.DeadlineExceeded))))
	assert.Equal(t, http.StatusBadGateway, StatusOf(WrapSearch(errors.New("503"))))
}
