package render

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart dimensions and data zoom bounds.
const (
	chartWidth       = "100%"
	chartHeight      = "500px"
	dataZoomStartPct = 0
	dataZoomEndPct   = 100
)

// ChartSeries is one named series aligned to the chart's month axis.
// NaN values render as gaps.
type ChartSeries struct {
	Name   string
	Values []float64
}

// LevelChart builds a stacked bar chart of a level breakdown across months.
func LevelChart(title string, months []string, series []ChartSeries, unit string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(title, headerWithUnit("Value", unit))...)
	bar.SetXAxis(months)

	for _, s := range series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: chartValue(v)}
		}

		bar.AddSeries(s.Name, data, charts.WithBarChartOpts(opts.BarChart{Stack: "level"}))
	}

	return bar
}

// LineChart builds a line chart, one line per series, across months.
func LineChart(title string, months []string, series []ChartSeries, yAxisLabel string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(title, yAxisLabel)...)
	line.SetXAxis(months)

	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: chartValue(v)}
		}

		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}

	return line
}

// WritePage renders the given charts as a single HTML page at path.
func WritePage(path string, chs ...components.Charter) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(chs...)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart page: %w", err)
	}
	defer file.Close()

	if err := renderPage(page, file); err != nil {
		return fmt.Errorf("rendering chart page: %w", err)
	}

	return nil
}

func renderPage(page *components.Page, w io.Writer) error {
	return page.Render(w)
}

func globalOptions(title, yAxisLabel string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll", Top: "7%"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: dataZoomStartPct, End: dataZoomEndPct},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisLabel}),
	}
}

// chartValue converts NaN to a nil chart point so the series shows a gap
// instead of breaking the chart JSON.
func chartValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}

	return v
}
