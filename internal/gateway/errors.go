package gateway

import (
	"context"
	"errors"
	"net"
	"net/url"

	"github.com/google/go-github/v62/github"
)

// GraphQLError wraps any failure reported by the GraphQL endpoint.
type GraphQLError struct {
	Err error
}

func (e *GraphQLError) Error() string {
	return "graphql: " + e.Err.Error()
}

func (e *GraphQLError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is an API-reported error or a transport failure,
// the class of errors worth retrying. Cancellation is never transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var (
		errResp  *github.ErrorResponse
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		gqlErr   *GraphQLError
		urlErr   *url.Error
		netErr   net.Error
	)
	switch {
	case errors.As(err, &errResp),
		errors.As(err, &rateErr),
		errors.As(err, &abuseErr),
		errors.As(err, &gqlErr),
		errors.As(err, &urlErr),
		errors.As(err, &netErr):
		return true
	}
	return false
}
