package presenter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/naka-gawa/merged-prs/internal/domain"
)

type jsonReport struct {
	Org          string             `json:"org"`
	From         string             `json:"from"`
	To           string             `json:"to"`
	Total        int                `json:"total"`
	Repositories []domain.RepoCount `json:"repositories,omitempty"`
	Summary      *Summary           `json:"summary,omitempty"`
}

// WriteJSON prints r as indented JSON with repositories in ascending order of merges.
func WriteJSON(w io.Writer, r *domain.Result) error {
	report := jsonReport{
		Org:   r.Org,
		From:  r.From,
		To:    r.To,
		Total: r.Total,
	}
	if r.Breakdown {
		report.Repositories = r.Sorted()
		summary, err := Summarize(r)
		if err != nil {
			return err
		}
		report.Summary = &summary
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
