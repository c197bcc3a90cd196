package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/naka-gawa/merged-prs/internal/domain"
)

const barWidth = 50

// WriteText prints the total and, for a breakdown, a horizontal bar chart.
func WriteText(w io.Writer, r *domain.Result) error {
	if _, err := fmt.Fprintln(w, TotalLine(r)); err != nil {
		return err
	}
	if !r.Breakdown {
		return nil
	}
	summary, err := Summarize(r)
	if err != nil {
		return err
	}
	if summary.Repositories > 0 {
		if _, err := fmt.Fprintf(w, "Repositories with merges: %d (mean %.2f, median %.1f, max %d)\n",
			summary.Repositories, summary.Mean, summary.Median, summary.Max); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return WriteTextChart(w, BuildChart(r))
}

// WriteTextChart draws spec with the largest value first, so the smallest ends up at the bottom
// as it does on a plotted category axis.
func WriteTextChart(w io.Writer, spec ChartSpec) error {
	var b strings.Builder
	b.WriteString(spec.Title + "\n")

	nameWidth := len(spec.YAxisTitle)
	maxValue := 0
	for i, name := range spec.Categories {
		nameWidth = max(nameWidth, len(name))
		maxValue = max(maxValue, spec.Values[i])
	}
	fmt.Fprintf(&b, "%-*s  %s\n", nameWidth, spec.YAxisTitle, spec.XAxisTitle)

	for i := len(spec.Categories) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%-*s  %s %d\n", nameWidth, spec.Categories[i], bar(spec.Values[i], maxValue), spec.Values[i])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func bar(value, maxValue int) string {
	if value <= 0 || maxValue <= 0 {
		return ""
	}
	n := value * barWidth / maxValue
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
