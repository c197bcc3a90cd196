// Package presenter turns counting results into text, JSON and charts.
package presenter

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/merged-prs/internal/domain"
)

const (
	xAxisTitle  = "Number of Merged Pull Requests"
	yAxisTitle  = "Repository"
	chartHeight = 600
)

// ChartSpec describes a horizontal bar chart independently of how it is drawn.
// Categories and Values are parallel and ordered bottom to top.
type ChartSpec struct {
	Title      string
	XAxisTitle string
	YAxisTitle string
	Categories []string
	Values     []int
	Height     int
}

// TotalLine is the headline shown for every run.
func TotalLine(r *domain.Result) string {
	return fmt.Sprintf("Total Merged Pull Requests: %d", r.Total)
}

// BuildChart lays out the per-repository counts in ascending order.
func BuildChart(r *domain.Result) ChartSpec {
	sorted := r.Sorted()
	spec := ChartSpec{
		Title:      fmt.Sprintf("Merged Pull Requests by Repository for %s (%s to %s)", r.Org, r.From, r.To),
		XAxisTitle: xAxisTitle,
		YAxisTitle: yAxisTitle,
		Categories: make([]string, 0, len(sorted)),
		Values:     make([]int, 0, len(sorted)),
		Height:     chartHeight,
	}
	for _, rc := range sorted {
		spec.Categories = append(spec.Categories, rc.Name)
		spec.Values = append(spec.Values, rc.Merged)
	}
	return spec
}

// Summary describes how merges are spread over the repositories that had any.
type Summary struct {
	Repositories int     `json:"repositories"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Max          int     `json:"max"`
}

// Summarize returns a zero Summary when no repository had merges.
func Summarize(r *domain.Result) (Summary, error) {
	if len(r.ByRepo) == 0 {
		return Summary{}, nil
	}
	counts := make([]int, 0, len(r.ByRepo))
	for _, c := range r.ByRepo {
		counts = append(counts, c)
	}
	data := stats.LoadRawData(counts)

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute median: %w", err)
	}
	maximum, err := stats.Max(data)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to compute max: %w", err)
	}
	mean, err = stats.Round(mean, 2)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to round mean: %w", err)
	}
	return Summary{
		Repositories: len(counts),
		Mean:         mean,
		Median:       median,
		Max:          int(maximum),
	}, nil
}
