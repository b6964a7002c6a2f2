// Package learn talks to the Microsoft Learn search and suggestion endpoints.
package learn

import (
	"context"
	"errors"
	"fmt"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/learncli/internal/models"
)

const DefaultBaseURL = "https://learn.microsoft.com/api"

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Searcher is the remote query surface the input controller depends on.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Result, error)
	Suggest(ctx context.Context, query string) ([]string, error)
}

// Doer sends a prepared request. *network.Client satisfies it.
type Doer interface {
	Do(req *fhttp.Request) (*fhttp.Response, error)
}

// StatusError reports a non-200 response.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http %d", e.Endpoint, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
