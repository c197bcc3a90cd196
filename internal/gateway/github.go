// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"golang.org/x/oauth2"
)

// Supported API flavours.
const (
	APIREST    = "rest"
	APIGraphQL = "graphql"
)

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	// Organization resolves org and returns its canonical login.
	Organization(ctx context.Context, org string) (string, error)
	// Repositories returns the names of every repository of org, following all pages.
	Repositories(ctx context.Context, org string) ([]string, error)
	// CountMerged runs an issue search and returns the total count reported by the API.
	CountMerged(ctx context.Context, query string) (int, error)
}

// Options configures a Session.
type Options struct {
	API string
	// BaseURL points the clients at a GitHub Enterprise Server instance. Empty means github.com.
	BaseURL string
	// RateLimitSleep caps a single wait on a secondary rate limit. Zero disables waiting.
	RateLimitSleep time.Duration
	Logger         *log.Logger
}

// Session is an authenticated connection to the API, open for the length of one run.
type Session struct {
	Fetcher
	httpClient *http.Client
}

// Open authenticates with token and builds the Fetcher selected by opts.API.
func Open(token string, opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	api := strings.ToLower(opts.API)
	if api == "" {
		api = APIREST
	}
	if api != APIREST && api != APIGraphQL {
		return nil, fmt.Errorf("unknown API %q, expected %q or %q", opts.API, APIREST, APIGraphQL)
	}

	httpClient, err := newHTTPClient(token, opts.RateLimitSleep)
	if err != nil {
		return nil, err
	}

	var fetcher Fetcher
	switch api {
	case APIGraphQL:
		fetcher = newGraphQLGateway(httpClient, opts.BaseURL, logger)
	default:
		fetcher, err = newRESTGateway(httpClient, opts.BaseURL, logger)
		if err != nil {
			return nil, err
		}
	}
	logger.Printf("Opened %s session", api)
	return &Session{Fetcher: fetcher, httpClient: httpClient}, nil
}

// Close releases the connections held by the session.
func (s *Session) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}

func newHTTPClient(token string, rateLimitSleep time.Duration) (*http.Client, error) {
	var base http.RoundTripper = http.DefaultTransport
	if rateLimitSleep > 0 {
		rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(rateLimitSleep, nil))
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
		}
		base = rateLimitWaiter
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   base,
			Source: ts,
		},
	}, nil
}
