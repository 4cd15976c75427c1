// Package chart draws an observed series with its trendline and alerted spikes.
package chart

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/trendline/anomaly"
	"github.com/YuminosukeSato/trendline/pkg/errors"
	"github.com/YuminosukeSato/trendline/trend"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Options は描画の設定
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	// Format は出力形式 ("png", "svg", "pdf" など)
	Format string
}

// DefaultOptions returns a 6x4 inch PNG chart.
func DefaultOptions() Options {
	return Options{
		Title:  "Trendline",
		Width:  6 * vg.Inch,
		Height: 4 * vg.Inch,
		Format: "png",
	}
}

var (
	observedColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	trendColor    = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	spikeColor    = color.RGBA{R: 255, G: 140, B: 0, A: 255}
)

// Plot builds the plot without rendering it. spikes may be nil.
func Plot(obs []float64, r *trend.Result, spikes []anomaly.Spike, opts Options) (*plot.Plot, error) {
	if r == nil {
		return nil, errors.NewValueError("chart.Plot", "trend result is nil")
	}
	if len(obs) == 0 {
		return nil, errors.NewEmptySeriesError("chart.Plot")
	}
	if len(obs) != len(r.FittedValues) {
		return nil, errors.NewDimensionError("chart.Plot", len(r.FittedValues), len(obs))
	}
	if spikes != nil && len(spikes) != len(obs) {
		return nil, errors.NewDimensionError("chart.Plot", len(obs), len(spikes))
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "value"
	p.Add(plotter.NewGrid())

	observed, err := plotter.NewScatter(points(obs))
	if err != nil {
		return nil, errors.Wrap(err, "chart.Plot: observed")
	}
	observed.GlyphStyle.Color = observedColor
	observed.GlyphStyle.Shape = draw.CircleGlyph{}
	observed.GlyphStyle.Radius = vg.Points(2)

	line, err := plotter.NewLine(points(r.FittedValues))
	if err != nil {
		return nil, errors.Wrap(err, "chart.Plot: trend")
	}
	line.LineStyle.Color = trendColor
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(observed, line)
	p.Legend.Add("observed", observed)
	p.Legend.Add("trend", line)

	var alerted plotter.XYs
	for i, s := range spikes {
		if s.Alert {
			alerted = append(alerted, plotter.XY{X: float64(i + 1), Y: obs[i]})
		}
	}
	if len(alerted) > 0 {
		sc, err := plotter.NewScatter(alerted)
		if err != nil {
			return nil, errors.Wrap(err, "chart.Plot: spikes")
		}
		sc.GlyphStyle.Color = spikeColor
		sc.GlyphStyle.Shape = draw.RingGlyph{}
		sc.GlyphStyle.Radius = vg.Points(5)
		p.Add(sc)
		p.Legend.Add("spike", sc)
	}
	p.Legend.Top = true

	return p, nil
}

// Render draws the chart and writes it to w in opts.Format.
func Render(w io.Writer, obs []float64, r *trend.Result, spikes []anomaly.Spike, opts Options) error {
	p, err := Plot(obs, r, spikes, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return errors.Wrap(err, "chart.Render")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "chart.Render")
	}
	return nil
}

// Save renders the chart to path. The format comes from the file extension.
// On failure no file is left at path.
func Save(path string, obs []float64, r *trend.Result, spikes []anomaly.Spike, opts Options) (err error) {
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		opts.Format = strings.ToLower(ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "chart: create %s", path)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := Render(f, obs, r, spikes, opts); err != nil {
		_ = f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "chart: close %s", path)
}

// points は系列を x=1..N の点列に変換する
func points(values []float64) plotter.XYs {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i + 1)
		pts[i].Y = v
	}
	return pts
}
