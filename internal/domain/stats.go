// Package domain contains the core data structures and domain logic for the application.
package domain

import "sort"

// RepoCount holds the number of merged pull requests for a single repository.
type RepoCount struct {
	Name   string `json:"name"`
	Merged int    `json:"merged"`
}

// Result is the outcome of one counting run.
// When Breakdown is set, Total equals the sum of ByRepo and ByRepo only holds
// repositories with at least one merged pull request.
type Result struct {
	Org       string         `json:"org"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Breakdown bool           `json:"breakdown"`
	Total     int            `json:"total"`
	ByRepo    map[string]int `json:"by_repo"`
}

// NewResult returns an empty result for q.
func NewResult(q Query) *Result {
	return &Result{
		Org:       q.Org,
		From:      q.From,
		To:        q.To,
		Breakdown: q.Breakdown,
		ByRepo:    make(map[string]int),
	}
}

// Add accumulates count into the total and records it for repo when positive.
func (r *Result) Add(repo string, count int) {
	if count <= 0 {
		return
	}
	r.Total += count
	r.ByRepo[repo] = count
}

// Sorted returns the per-repository counts in ascending order of count.
// Repositories with equal counts are ordered by name.
func (r *Result) Sorted() []RepoCount {
	sorted := make([]RepoCount, 0, len(r.ByRepo))
	for name, merged := range r.ByRepo {
		sorted = append(sorted, RepoCount{Name: name, Merged: merged})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Merged != sorted[j].Merged {
			return sorted[i].Merged < sorted[j].Merged
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
