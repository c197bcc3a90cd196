package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/naka-gawa/merged-prs/internal/domain"
	"github.com/naka-gawa/merged-prs/internal/gateway"
	"github.com/naka-gawa/merged-prs/internal/retry"
)

// Session is a Fetcher that holds resources until closed.
type Session interface {
	gateway.Fetcher
	Close() error
}

// OpenFunc authenticates with token and starts a session.
type OpenFunc func(token string) (Session, error)

// Runner performs one complete counting run per call: it checks the input,
// opens a session, aggregates and closes the session again.
type Runner struct {
	open   OpenFunc
	policy retry.Policy
	logger *log.Logger
}

func NewRunner(open OpenFunc, policy retry.Policy, logger *log.Logger) *Runner {
	return &Runner{open: open, policy: policy, logger: logger}
}

// Run returns domain.ErrMissingInput without touching the API when q.Org or token is empty.
func (r *Runner) Run(ctx context.Context, q domain.Query, token string, progress ProgressFunc) (*domain.Result, error) {
	if err := q.Validate(token); err != nil {
		return nil, err
	}

	session, err := r.open(token)
	if err != nil {
		return nil, fmt.Errorf("failed to open GitHub session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Printf("Failed to close session: %v", err)
		}
	}()

	return NewAggregator(session, r.policy, r.logger).Aggregate(ctx, q, progress)
}
