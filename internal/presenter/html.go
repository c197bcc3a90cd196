package presenter

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteHTMLChart renders spec as a standalone HTML page holding an ECharts horizontal bar chart.
func WriteHTMLChart(w io.Writer, spec ChartSpec) error {
	chart := charts.NewBar()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: spec.Title,
			Width:     "1200px",
			Height:    fmt.Sprintf("%dpx", spec.Height),
		}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XAxisTitle}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YAxisTitle}),
	)

	items := make([]opts.BarData, 0, len(spec.Values))
	for _, v := range spec.Values {
		items = append(items, opts.BarData{Value: v})
	}
	chart.SetXAxis(spec.Categories).AddSeries("Merged pull requests", items)
	chart.XYReversal()

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
