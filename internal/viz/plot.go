package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

const (
	plotHeight = 12
	plotWidth  = 80
)

// Plot renders one series as an ascii chart with a caption.
func Plot(series []float64, caption string) string {
	if len(series) == 0 {
		return fmt.Sprintf("%s: no data\n", caption)
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
	return graph + "\n"
}

// PlotAll renders the named series in a stable order.
func PlotAll(series map[string][]float64, names []string) string {
	var b strings.Builder
	for _, name := range names {
		s, ok := series[name]
		if !ok {
			continue
		}
		b.WriteString(Plot(s, name))
		b.WriteString("\n")
	}
	return b.String()
}

// Downsample thins a series to at most n points so long runs stay readable
// in a terminal.
func Downsample(series []float64, n int) []float64 {
	if n <= 0 || len(series) <= n {
		return series
	}
	out := make([]float64, 0, n)
	step := float64(len(series)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, series[int(float64(i)*step)])
	}
	return out
}
