// Package chart renders the per-day submission histogram to a PNG artifact.
// The artifact is transient: the engine sends it to the operator and removes
// it afterwards regardless of the send outcome.
package chart

import (
	"fmt"
	"os"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/suggestbot/go-suggest-backend/internal/stats"
)

// Renderer produces a chart image from a histogram series and returns the
// path of the created file. Implementations must return a path the caller
// can delete when done.
type Renderer interface {
	RenderHistogram(buckets []stats.DayCount) (path string, err error)
}

// PNGRenderer renders a bar chart PNG into the OS temp directory.
type PNGRenderer struct {
	// Title shown above the chart.
	Title string
}

// RenderHistogram renders one bar per calendar-day bucket. The aggregator
// guarantees at least one bucket, which go-chart requires.
func (r *PNGRenderer) RenderHistogram(buckets []stats.DayCount) (string, error) {
	if len(buckets) == 0 {
		return "", fmt.Errorf("chart: empty histogram")
	}

	maxCount := 0
	bars := make([]gochart.Value, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > maxCount {
			maxCount = b.Count
		}
		bars = append(bars, gochart.Value{Label: b.Date, Value: float64(b.Count)})
	}

	title := r.Title
	if title == "" {
		title = "Suggestions in the last 7 days"
	}

	graph := gochart.BarChart{
		Title:    title,
		Width:    640,
		Height:   400,
		BarWidth: 60,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		// Pin the Y range so an all-zero histogram still has a drawable span.
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(maxCount + 1)},
		},
		Bars: bars,
	}

	f, err := os.CreateTemp("", "stats_plot_*.png")
	if err != nil {
		return "", err
	}

	if err := graph.Render(gochart.PNG, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
