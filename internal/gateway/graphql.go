package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/shurcooL/githubv4"
)

// GraphQLGateway implements Fetcher on top of the GraphQL API.
type GraphQLGateway struct {
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// organizationQuery resolves the canonical login of an organization.
type organizationQuery struct {
	Organization struct {
		Login string
	} `graphql:"organization(login: $login)"`
}

// repositoriesQuery pages through the repositories of an organization.
type repositoriesQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name string
			}
		} `graphql:"repositories(first: 100, after: $cursor)"`
	} `graphql:"organization(login: $login)"`
}

// issueCountQuery only asks for the total number of matches.
type issueCountQuery struct {
	Search struct {
		IssueCount int
	} `graphql:"search(query: $query, type: ISSUE, first: 1)"`
}

func newGraphQLGateway(httpClient *http.Client, baseURL string, logger *log.Logger) *GraphQLGateway {
	client := githubv4.NewClient(httpClient)
	if baseURL != "" {
		client = githubv4.NewEnterpriseClient(strings.TrimSuffix(baseURL, "/")+"/api/graphql", httpClient)
	}
	return &GraphQLGateway{graphqlClient: client, logger: logger}
}

func (g *GraphQLGateway) query(ctx context.Context, q any, variables map[string]any) error {
	err := g.graphqlClient.Query(ctx, q, variables)
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	return &GraphQLError{Err: err}
}

func (g *GraphQLGateway) Organization(ctx context.Context, org string) (string, error) {
	g.logger.Printf("Resolving organization %s...", org)
	var q organizationQuery
	if err := g.query(ctx, &q, map[string]any{"login": githubv4.String(org)}); err != nil {
		return "", fmt.Errorf("failed to get organization %s: %w", org, err)
	}
	return q.Organization.Login, nil
}

func (g *GraphQLGateway) Repositories(ctx context.Context, org string) ([]string, error) {
	g.logger.Printf("Listing repositories of %s...", org)
	variables := map[string]any{
		"login":  githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}
	names := make([]string, 0)
	for {
		var q repositoriesQuery
		if err := g.query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to execute GraphQL query for repositories: %w", err)
		}
		for _, node := range q.Organization.Repositories.Nodes {
			names = append(names, node.Name)
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Found %d repositories.", len(names))
	return names, nil
}

func (g *GraphQLGateway) CountMerged(ctx context.Context, query string) (int, error) {
	var q issueCountQuery
	if err := g.query(ctx, &q, map[string]any{"query": githubv4.String(query)}); err != nil {
		return 0, fmt.Errorf("failed to execute GraphQL query for counts: %w", err)
	}
	g.logger.Printf("%d results for query: %s", q.Search.IssueCount, query)
	return q.Search.IssueCount, nil
}
