// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"time"

	"github.com/naka-gawa/merged-prs/internal/domain"
	"github.com/naka-gawa/merged-prs/internal/gateway"
	"github.com/naka-gawa/merged-prs/internal/retry"
)

// ProgressFunc receives the number of repositories processed so far and the total.
type ProgressFunc func(done, total int)

// Aggregator is the use case for counting merged pull requests.
// Every call to the fetcher goes through the retry policy.
type Aggregator struct {
	fetcher gateway.Fetcher
	policy  retry.Policy
	logger  *log.Logger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, policy retry.Policy, logger *log.Logger) *Aggregator {
	if policy.Notify == nil {
		policy.Notify = func(err error, attempt int, wait time.Duration) {
			logger.Printf("Attempt %d failed, retrying in %s: %v", attempt, wait, err)
		}
	}
	return &Aggregator{
		fetcher: fetcher,
		policy:  policy,
		logger:  logger,
	}
}

// Aggregate counts the pull requests merged in q's date range.
// Without breakdown a single organization-wide search is issued and ByRepo stays empty.
// With breakdown every repository is searched in turn and progress is reported after each one.
func (a *Aggregator) Aggregate(ctx context.Context, q domain.Query, progress ProgressFunc) (*domain.Result, error) {
	a.logger.Printf("Usecase: Counting merged pull requests for %s (%s..%s)...", q.Org, q.From, q.To)
	result := domain.NewResult(q)

	if !q.Breakdown {
		total, err := a.count(ctx, domain.MergedQuery(q.From, q.To, domain.OrgScope(q.Org)))
		if err != nil {
			return nil, err
		}
		result.Total = total
		a.logger.Println("Usecase: Counting complete.")
		return result, nil
	}

	login, err := retry.Value(ctx, a.policy, func() (string, error) {
		return a.fetcher.Organization(ctx, q.Org)
	})
	if err != nil {
		return nil, err
	}
	repos, err := retry.Value(ctx, a.policy, func() ([]string, error) {
		return a.fetcher.Repositories(ctx, login)
	})
	if err != nil {
		return nil, err
	}

	for i, repo := range repos {
		count, err := a.count(ctx, domain.MergedQuery(q.From, q.To, domain.RepoScope(login, repo)))
		if err != nil {
			return nil, err
		}
		result.Add(repo, count)
		if progress != nil {
			progress(i+1, len(repos))
		}
	}

	a.logger.Printf("Usecase: Counting complete, %d of %d repositories had merged pull requests.", len(result.ByRepo), len(repos))
	return result, nil
}

func (a *Aggregator) count(ctx context.Context, query string) (int, error) {
	return retry.Value(ctx, a.policy, func() (int, error) {
		return a.fetcher.CountMerged(ctx, query)
	})
}
