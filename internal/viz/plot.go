package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/covkin/internal/analysis"
	"github.com/san-kum/covkin/internal/dynamo"
)

var palette = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Magenta,
	asciigraph.Red,
	asciigraph.Blue,
}

type PlotOptions struct {
	Width   int
	Height  int
	Caption string
	// Normalize scales each series to its own maximum so curves of very
	// different magnitude share one axis.
	Normalize bool
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Height <= 0 {
		o.Height = 15
	}
	return o
}

// Plot charts the named species, or derived observables such as "active",
// against time.
func Plot(tr *dynamo.Trajectory, names []string, opts PlotOptions) (string, error) {
	if tr.Len() == 0 {
		return "", fmt.Errorf("empty trajectory")
	}
	series := make([][]float64, len(names))
	for i, name := range names {
		s, err := analysis.Observable(tr, name)
		if err != nil {
			return "", err
		}
		series[i] = s
	}
	if opts.Caption == "" {
		opts.Caption = defaultCaption(tr)
	}
	return PlotSeries(series, names, opts), nil
}

// PlotSeries charts pre-extracted series, one legend entry per label.
func PlotSeries(series [][]float64, labels []string, opts PlotOptions) string {
	opts = opts.withDefaults()
	if opts.Normalize {
		series = normalize(series)
	}

	colors := make([]asciigraph.AnsiColor, len(series))
	for i := range colors {
		colors[i] = palette[i%len(palette)]
	}

	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(4),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(labels...),
		asciigraph.Caption(opts.Caption),
	)
}

func normalize(series [][]float64) [][]float64 {
	out := make([][]float64, len(series))
	for i, s := range series {
		peak := 0.0
		for _, v := range s {
			peak = max(peak, v)
		}
		out[i] = make([]float64, len(s))
		for j, v := range s {
			if peak > 0 {
				out[i][j] = v / peak
			}
		}
	}
	return out
}

func defaultCaption(tr *dynamo.Trajectory) string {
	mins := tr.Minutes()
	return fmt.Sprintf("µM over t = %g..%g min (%d samples)", mins[0], mins[len(mins)-1], tr.Len())
}

// Legend lists label = final value pairs under a comparison chart.
func Legend(labels []string, finals []float64) string {
	var b strings.Builder
	for i, l := range labels {
		fmt.Fprintf(&b, "%s %s\n", MetricLabel.Render(fmt.Sprintf("%-14s", l)), MetricValue.Render(fmt.Sprintf("%.6g", finals[i])))
	}
	return b.String()
}
