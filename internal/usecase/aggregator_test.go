package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/naka-gawa/merged-prs/internal/domain"
	"github.com/naka-gawa/merged-prs/internal/gateway"
	"github.com/naka-gawa/merged-prs/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Organization(ctx context.Context, org string) (string, error) {
	args := m.Called(ctx, org)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) Repositories(ctx context.Context, org string) ([]string, error) {
	args := m.Called(ctx, org)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFetcher) CountMerged(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

func newTestAggregator(fetcher gateway.Fetcher) *Aggregator {
	policy := retry.Default(gateway.IsTransient)
	policy.Interval = time.Millisecond
	return NewAggregator(fetcher, policy, log.New(io.Discard, "", 0))
}

func repoQuery(repo string) string {
	return "is:pr is:merged merged:2024-01-01..2024-06-30 repo:Acme/" + repo
}

func TestAggregator_Aggregate(t *testing.T) {
	testCases := []struct {
		name             string
		repos            []string
		counts           map[string]int
		expectedTotal    int
		expectedByRepo   map[string]int
		expectedProgress [][2]int
	}{
		{
			name:             "happy path - repositories without merges are left out",
			repos:            []string{"A", "B", "C"},
			counts:           map[string]int{"A": 3, "B": 0, "C": 7},
			expectedTotal:    10,
			expectedByRepo:   map[string]int{"A": 3, "C": 7},
			expectedProgress: [][2]int{{1, 3}, {2, 3}, {3, 3}},
		},
		{
			name:           "empty case - organization without repositories",
			repos:          []string{},
			expectedTotal:  0,
			expectedByRepo: map[string]int{},
		},
		{
			name:             "quiet case - nothing merged anywhere",
			repos:            []string{"A", "B"},
			counts:           map[string]int{"A": 0, "B": 0},
			expectedTotal:    0,
			expectedByRepo:   map[string]int{},
			expectedProgress: [][2]int{{1, 2}, {2, 2}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetcher := new(mockFetcher)
			fetcher.On("Organization", mock.Anything, "acme").Return("Acme", nil)
			fetcher.On("Repositories", mock.Anything, "Acme").Return(tc.repos, nil)
			for repo, count := range tc.counts {
				fetcher.On("CountMerged", mock.Anything, repoQuery(repo)).Return(count, nil)
			}

			var progress [][2]int
			q := domain.Query{Org: "acme", From: "2024-01-01", To: "2024-06-30", Breakdown: true}
			result, err := newTestAggregator(fetcher).Aggregate(context.Background(), q, func(done, total int) {
				progress = append(progress, [2]int{done, total})
			})

			require.NoError(t, err)
			assert.Equal(t, tc.expectedTotal, result.Total)
			assert.Equal(t, tc.expectedByRepo, result.ByRepo)
			assert.Equal(t, tc.expectedProgress, progress)

			sum := 0
			for _, count := range result.ByRepo {
				assert.GreaterOrEqual(t, count, 1)
				sum += count
			}
			assert.Equal(t, result.Total, sum)
			fetcher.AssertExpectations(t)
		})
	}
}

func TestAggregator_AggregateWithoutBreakdown(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("CountMerged", mock.Anything, "is:pr is:merged merged:2024-01-01..2024-06-30 org:Acme").Return(42, nil)

	q := domain.Query{Org: "Acme", From: "2024-01-01", To: "2024-06-30"}
	result, err := newTestAggregator(fetcher).Aggregate(context.Background(), q, func(done, total int) {
		t.Fatal("progress must not be reported without breakdown")
	})

	require.NoError(t, err)
	assert.Equal(t, 42, result.Total)
	assert.Empty(t, result.ByRepo)
	fetcher.AssertNotCalled(t, "Organization", mock.Anything, mock.Anything)
	fetcher.AssertNotCalled(t, "Repositories", mock.Anything, mock.Anything)
	fetcher.AssertExpectations(t)
}

func TestAggregator_AggregateInvertedRange(t *testing.T) {
	fetcher := new(mockFetcher)
	fetcher.On("CountMerged", mock.Anything, "is:pr is:merged merged:2024-06-30..2024-01-01 org:Acme").Return(0, nil)

	q := domain.Query{Org: "Acme", From: "2024-06-30", To: "2024-01-01"}
	result, err := newTestAggregator(fetcher).Aggregate(context.Background(), q, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	fetcher.AssertExpectations(t)
}

func TestAggregator_AggregateRetries(t *testing.T) {
	transient := &gateway.GraphQLError{Err: errors.New("Server Error")}

	t.Run("transient failures followed by success", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("Organization", mock.Anything, "Acme").Return("", transient).Times(4)
		fetcher.On("Organization", mock.Anything, "Acme").Return("Acme", nil).Once()
		fetcher.On("Repositories", mock.Anything, "Acme").Return([]string{"A"}, nil).Once()
		fetcher.On("CountMerged", mock.Anything, repoQuery("A")).Return(0, transient).Once()
		fetcher.On("CountMerged", mock.Anything, repoQuery("A")).Return(5, nil).Once()

		q := domain.Query{Org: "Acme", From: "2024-01-01", To: "2024-06-30", Breakdown: true}
		result, err := newTestAggregator(fetcher).Aggregate(context.Background(), q, nil)

		require.NoError(t, err)
		assert.Equal(t, 5, result.Total)
		assert.Equal(t, map[string]int{"A": 5}, result.ByRepo)
		fetcher.AssertExpectations(t)
	})

	t.Run("retries exhausted", func(t *testing.T) {
		fetcher := new(mockFetcher)
		fetcher.On("CountMerged", mock.Anything, mock.Anything).Return(0, transient)

		q := domain.Query{Org: "Acme", From: "2024-01-01", To: "2024-06-30"}
		result, err := newTestAggregator(fetcher).Aggregate(context.Background(), q, nil)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, transient)
		fetcher.AssertNumberOfCalls(t, "CountMerged", 5)
	})

	t.Run("non-transient error is not retried", func(t *testing.T) {
		boom := errors.New("boom")
		fetcher := new(mockFetcher)
		fetcher.On("Organization", mock.Anything, "Acme").Return("Acme", nil)
		fetcher.On("Repositories", mock.Anything, "Acme").Return([]string{"A", "B"}, nil)
		fetcher.On("CountMerged", mock.Anything, repoQuery("A")).Return(0, boom)

		q := domain.Query{Org: "Acme", From: "2024-01-01", To: "2024-06-30", Breakdown: true}
		result, err := newTestAggregator(fetcher).Aggregate(context.Background(), q, nil)

		assert.Nil(t, result)
		assert.Same(t, boom, err)
		fetcher.AssertNumberOfCalls(t, "CountMerged", 1)
		fetcher.AssertNotCalled(t, "CountMerged", mock.Anything, repoQuery("B"))
	})
}
