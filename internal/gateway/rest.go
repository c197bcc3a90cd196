package gateway

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/go-github/v62/github"
)

// RESTGateway implements Fetcher on top of the REST API.
type RESTGateway struct {
	restClient *github.Client
	logger     *log.Logger
}

func newRESTGateway(httpClient *http.Client, baseURL string, logger *log.Logger) (*RESTGateway, error) {
	client := github.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to set enterprise URL: %w", err)
		}
	}
	return &RESTGateway{restClient: client, logger: logger}, nil
}

func (g *RESTGateway) Organization(ctx context.Context, org string) (string, error) {
	g.logger.Printf("Resolving organization %s...", org)
	o, _, err := g.restClient.Organizations.Get(ctx, org)
	if err != nil {
		return "", fmt.Errorf("failed to get organization %s: %w", org, err)
	}
	return o.GetLogin(), nil
}

func (g *RESTGateway) Repositories(ctx context.Context, org string) ([]string, error) {
	g.logger.Printf("Listing repositories of %s...", org)
	opts := &github.RepositoryListByOrgOptions{
		Type:        "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	names := make([]string, 0)
	for {
		repos, resp, err := g.restClient.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories with REST API: %w", err)
		}
		for _, repo := range repos {
			names = append(names, repo.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.logger.Println("  Fetching next page of repositories...")
	}
	g.logger.Printf("Found %d repositories.", len(names))
	return names, nil
}

func (g *RESTGateway) CountMerged(ctx context.Context, query string) (int, error) {
	// Only the reported total is needed, so a single result per page keeps the response small.
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 1}}
	result, _, err := g.restClient.Search.Issues(ctx, query, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to search issues with REST API: %w", err)
	}
	g.logger.Printf("%d results for query: %s", result.GetTotal(), query)
	return result.GetTotal(), nil
}
