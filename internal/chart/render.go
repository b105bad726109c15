// Package chart draws baseline-vs-projection bar charts and exports them
// as PNG images.
package chart

import (
	"bytes"
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/model"
)

// headroom is the share of the tallest bar added above it.
const headroom = 1.15

// labelLift places a value label this fraction above its bar top.
const labelLift = 0.05

// Chart is a rendered comparison chart ready for export.
type Chart struct {
	Dataset model.ComparisonDataset
	Plot    *plot.Plot
	YMax    float64
	Size    Size
}

// AxisTop returns the y-axis upper bound: the largest value plus 15%
// headroom, but never below floor.
func AxisTop(values []float64, floor float64) float64 {
	top := 0.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	return math.Max(top*headroom, floor)
}

// Render lays out a two-bar chart for d: bars ordered [baseline,
// projection], y from 0 to AxisTop, each bar annotated with its value.
// size is the panel the chart will be drawn into and scales the bars.
func Render(d model.ComparisonDataset, style Style, size Size) (*Chart, error) {
	p := plot.New()
	p.BackgroundColor = style.Background

	p.Title.Text = d.Title
	p.Title.TextStyle.Color = style.Accent
	p.Title.TextStyle.Font.Size = style.TitleSize
	p.Title.Padding = vg.Points(20)

	p.Y.Label.Text = d.YLabel
	p.Y.Label.TextStyle.Color = style.Accent
	p.Y.Label.TextStyle.Font.Size = style.LabelSize
	p.Y.Tick.Label.Color = style.Ink
	p.Y.Tick.Marker = unitTicks(d.Unit)

	p.NominalX(d.Labels[0], d.Labels[1])
	p.X.Tick.Label.Color = style.Ink
	p.X.Tick.Label.Rotation = style.LabelRotation

	width := vg.Length(float64(size.Width) * style.BarFraction)
	colors := style.barColors(d.Metric)

	xys := make(plotter.XYs, len(d.Values))
	texts := make([]string, len(d.Values))
	for i, v := range d.Values {
		bar, err := plotter.NewBarChart(plotter.Values{v}, width)
		if err != nil {
			return nil, eris.Wrapf(err, "chart: bar %d of %s", i, d.Metric)
		}
		bar.XMin = float64(i)
		bar.Color = colors[i]
		bar.LineStyle.Width = 0
		p.Add(bar)

		xys[i] = plotter.XY{X: float64(i), Y: v + labelLift*v}
		texts[i] = format.Value(d.Unit, v)
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, eris.Wrapf(err, "chart: value labels of %s", d.Metric)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = style.Ink
		labels.TextStyle[i].Font.Size = style.ValueSize
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YBottom
	}
	p.Add(labels)

	// Add widens the axes to the data, so bounds are fixed afterwards.
	top := AxisTop(d.Values[:], d.Floor)
	p.X.Min = -0.5
	p.X.Max = float64(len(d.Values)) - 0.5
	p.Y.Min = 0
	p.Y.Max = top

	return &Chart{Dataset: d, Plot: p, YMax: top, Size: size}, nil
}

// PNG draws the chart alone on its own canvas at dpi.
func (c *Chart) PNG(dpi int) ([]byte, error) {
	canvas := vgimg.NewWith(vgimg.UseWH(c.Size.Width, c.Size.Height), vgimg.UseDPI(dpi))
	c.Plot.Draw(draw.New(canvas))
	return encodePNG(canvas)
}

// CompositePNG draws charts side by side in one row at dpi.
func CompositePNG(charts []*Chart, size Size, dpi int) ([]byte, error) {
	if len(charts) == 0 {
		return nil, eris.New("chart: composite needs at least one chart")
	}

	canvas := vgimg.NewWith(vgimg.UseWH(size.Width, size.Height), vgimg.UseDPI(dpi))
	dc := draw.New(canvas)

	tiles := draw.Tiles{
		Rows:      1,
		Cols:      len(charts),
		PadX:      vg.Inch / 2,
		PadTop:    vg.Inch / 3,
		PadBottom: vg.Inch / 3,
		PadLeft:   vg.Inch / 4,
		PadRight:  vg.Inch / 4,
	}

	row := make([]*plot.Plot, len(charts))
	for i, c := range charts {
		row[i] = c.Plot
	}
	plots := [][]*plot.Plot{row}
	panels := plot.Align(plots, tiles, dc)
	for i := range row {
		row[i].Draw(panels[0][i])
	}

	return encodePNG(canvas)
}

func encodePNG(canvas *vgimg.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(&buf); err != nil {
		return nil, eris.Wrap(err, "chart: encode png")
	}
	return buf.Bytes(), nil
}

// unitTicks labels the default tick positions with unit-aware formatting.
func unitTicks(unit model.Unit) plot.Ticker {
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		ticks := plot.DefaultTicks{}.Ticks(min, max)
		for i := range ticks {
			if ticks[i].Label != "" {
				ticks[i].Label = format.Tick(unit, ticks[i].Value)
			}
		}
		return ticks
	})
}
