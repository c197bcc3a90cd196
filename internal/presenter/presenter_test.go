package presenter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/merged-prs/internal/domain"
)

func acmeResult() *domain.Result {
	r := domain.NewResult(domain.Query{Org: "Acme", From: "2024-01-01", To: "2024-06-30", Breakdown: true})
	r.Add("A", 3)
	r.Add("B", 0)
	r.Add("C", 7)
	return r
}

func TestBuildChart(t *testing.T) {
	spec := BuildChart(acmeResult())

	assert.Equal(t, ChartSpec{
		Title:      "Merged Pull Requests by Repository for Acme (2024-01-01 to 2024-06-30)",
		XAxisTitle: "Number of Merged Pull Requests",
		YAxisTitle: "Repository",
		Categories: []string{"A", "C"},
		Values:     []int{3, 7},
		Height:     600,
	}, spec)
}

func TestTotalLine(t *testing.T) {
	assert.Equal(t, "Total Merged Pull Requests: 10", TotalLine(acmeResult()))
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize(acmeResult())
	require.NoError(t, err)
	assert.Equal(t, Summary{Repositories: 2, Mean: 5, Median: 5, Max: 7}, summary)

	empty := domain.NewResult(domain.Query{Org: "Acme", Breakdown: true})
	summary, err = Summarize(empty)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, summary)
}

func TestWriteText(t *testing.T) {
	t.Run("breakdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, acmeResult()))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 7)
		assert.Equal(t, "Total Merged Pull Requests: 10", lines[0])
		assert.Equal(t, "Repositories with merges: 2 (mean 5.00, median 5.0, max 7)", lines[1])
		assert.Equal(t, "Merged Pull Requests by Repository for Acme (2024-01-01 to 2024-06-30)", lines[3])
		assert.Equal(t, "Repository  Number of Merged Pull Requests", lines[4])
		assert.Equal(t, "C           "+strings.Repeat("█", 50)+" 7", lines[5])
		assert.Equal(t, "A           "+strings.Repeat("█", 21)+" 3", lines[6])
	})

	t.Run("without breakdown", func(t *testing.T) {
		r := domain.NewResult(domain.Query{Org: "Acme", From: "2024-01-01", To: "2024-06-30"})
		r.Total = 42

		var buf bytes.Buffer
		require.NoError(t, WriteText(&buf, r))
		assert.Equal(t, "Total Merged Pull Requests: 42\n", buf.String())
	})
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, acmeResult()))

	var got jsonReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, []domain.RepoCount{{Name: "A", Merged: 3}, {Name: "C", Merged: 7}}, got.Repositories)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 7, got.Summary.Max)
}

func TestWriteHTMLChart(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTMLChart(&buf, BuildChart(acmeResult())))

	html := buf.String()
	assert.Contains(t, html, "Merged Pull Requests by Repository for Acme")
	assert.Contains(t, html, "echarts.min.js")
	assert.Contains(t, html, "Number of Merged Pull Requests")
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf)
	p.Report(1, 4)
	p.Report(4, 4)
	p.Done()

	assert.Equal(t, "Processing repository 1 of 4 (25%)\nProcessing repository 4 of 4 (100%)\nProcessing complete!\n", buf.String())
}
