package chart

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/sustrend/zeroe-viz/internal/model"
)

// Palette colors.
var (
	DarkTeal  = color.RGBA{R: 0x0E, G: 0x45, B: 0x4A, A: 0xFF}
	Green     = color.RGBA{R: 0x1F, G: 0xFF, B: 0x5F, A: 0xFF}
	White     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	LightBlue = color.RGBA{R: 0x00, G: 0x9B, B: 0xD3, A: 0xFF}
	DarkBlue  = color.RGBA{R: 0x00, G: 0x36, B: 0x6E, A: 0xFF}
)

// Style controls colors and text sizes shared by every comparison chart.
type Style struct {
	Background color.Color
	Ink        color.Color // tick labels and bar values
	Accent     color.Color // titles and axis labels
	BarColors  map[model.Metric][2]color.Color

	TitleSize vg.Length
	LabelSize vg.Length
	ValueSize vg.Length

	// BarFraction is the bar width as a share of the panel width.
	BarFraction float64
	// LabelRotation is the x tick label rotation in radians.
	LabelRotation float64
}

// DefaultStyle returns the project palette.
func DefaultStyle() Style {
	return Style{
		Background: White,
		Ink:        DarkTeal,
		Accent:     DarkBlue,
		BarColors: map[model.Metric][2]color.Color{
			model.MetricGHG:      {DarkTeal, Green},
			model.MetricMaterial: {LightBlue, DarkBlue},
			model.MetricRevenue:  {Green, DarkTeal},
		},
		TitleSize:     vg.Points(14),
		LabelSize:     vg.Points(12),
		ValueSize:     vg.Points(9),
		BarFraction:   0.24,
		LabelRotation: 15 * math.Pi / 180,
	}
}

// barColors returns the [baseline, projection] colors for m.
func (s Style) barColors(m model.Metric) [2]color.Color {
	if c, ok := s.BarColors[m]; ok {
		return c
	}
	return [2]color.Color{s.Ink, s.Accent}
}

// Size is a canvas size in vg lengths.
type Size struct {
	Width  vg.Length
	Height vg.Length
}

// Canvas sizes for a standalone chart and the three-panel composite.
var (
	SingleSize    = Size{Width: 8 * vg.Inch, Height: 6 * vg.Inch}
	CompositeSize = Size{Width: 20 * vg.Inch, Height: 7 * vg.Inch}
)

// DefaultDPI is the export resolution for downloadable charts.
const DefaultDPI = 300
