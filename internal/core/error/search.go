package errx

import (
	"context"
	"errors"
	"net/http"
)

const (
	// SearchErrorMessage describes failures of the grounded search backends.
	SearchErrorMessage = "search backend failed"
	// SearchTimeoutMessage is used when a search exceeds its deadline.
	SearchTimeoutMessage = "search timed out"
	// EmptyQueryMessage is used when a search is called without a query.
	EmptyQueryMessage = "search query is empty"
)

// ErrEmptyQuery is returned by searchers for blank queries.
var ErrEmptyQuery = errors.New("empty query")

// WrapSearch maps search errors to AppError.
func WrapSearch(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrEmptyQuery):
		return New(err, http.StatusBadRequest, EmptyQueryMessage)
	case errors.Is(err, context.DeadlineExceeded):
		return New(err, http.StatusGatewayTimeout, SearchTimeoutMessage)
	}
	return New(err, http.StatusBadGateway, SearchErrorMessage)
}
