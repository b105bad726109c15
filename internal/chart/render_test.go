package chart

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustrend/zeroe-viz/internal/model"
)

func ghgDataset(projection float64) model.ComparisonDataset {
	return model.ComparisonDataset{
		Metric:   model.MetricGHG,
		Title:    "Avoided GHG",
		YLabel:   "tCO2e/year",
		Unit:     model.UnitEmissions,
		Labels:   [2]string{model.LabelBaseline, model.LabelProjection},
		Values:   [2]float64{500, projection},
		Floor:    10,
		FileStem: "GEI_Evitados",
	}
}

func TestAxisTop(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		floor  float64
		want   float64
	}{
		{"headroom", []float64{500, 6000}, 10, 6900},
		{"floor wins for small emissions", []float64{0.5, 0.2}, 10, 10},
		{"floor wins for small tonnage", []float64{0.4, 0.1}, 1, 1},
		{"currency", []float64{26_000_000, 26_100_000}, 1_000_000, 30_015_000},
		{"all zero", []float64{0, 0}, 1_000_000, 1_000_000},
		{"empty", nil, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AxisTop(tt.values, tt.floor), 1e-6)
		})
	}
}

func TestRender_Axes(t *testing.T) {
	t.Parallel()
	c, err := Render(ghgDataset(6000), DefaultStyle(), SingleSize)
	require.NoError(t, err)

	assert.Equal(t, 0.0, c.Plot.Y.Min)
	assert.InDelta(t, 6900.0, c.Plot.Y.Max, 1e-6)
	assert.InDelta(t, 6900.0, c.YMax, 1e-6)
	assert.Equal(t, -0.5, c.Plot.X.Min)
	assert.Equal(t, 1.5, c.Plot.X.Max)
	assert.Equal(t, "Avoided GHG", c.Plot.Title.Text)
	assert.Equal(t, "tCO2e/year", c.Plot.Y.Label.Text)
}

func TestRender_FloorAppliedForTinyProjection(t *testing.T) {
	t.Parallel()
	d := ghgDataset(0.5)
	d.Values[0] = 0.2
	c, err := Render(d, DefaultStyle(), SingleSize)
	require.NoError(t, err)
	assert.Equal(t, 10.0, c.YMax)
}

func TestRender_TicksUseUnitFormat(t *testing.T) {
	t.Parallel()
	d := ghgDataset(26_100_000)
	d.Unit = model.UnitCLP
	d.Values[0] = 26_000_000
	c, err := Render(d, DefaultStyle(), SingleSize)
	require.NoError(t, err)

	ticks := c.Plot.Y.Tick.Marker.Ticks(0, c.YMax)
	require.NotEmpty(t, ticks)
	for _, tk := range ticks {
		assert.NotContains(t, tk.Label, "e+")
	}
}

func TestChartPNG_Resolution(t *testing.T) {
	t.Parallel()
	c, err := Render(ghgDataset(6000), DefaultStyle(), SingleSize)
	require.NoError(t, err)

	img, err := c.PNG(DefaultDPI)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 2400, cfg.Width)
	assert.Equal(t, 1800, cfg.Height)
}

func TestCompositePNG(t *testing.T) {
	t.Parallel()
	var charts []*Chart
	for i := 0; i < 3; i++ {
		c, err := Render(ghgDataset(float64(1000*(i+1))), DefaultStyle(), Size{Width: CompositeSize.Width / 3, Height: CompositeSize.Height})
		require.NoError(t, err)
		charts = append(charts, c)
	}

	img, err := CompositePNG(charts, CompositeSize, 72)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 20*72, decoded.Bounds().Dx())
	assert.Equal(t, 7*72, decoded.Bounds().Dy())
}

func TestCompositePNG_Empty(t *testing.T) {
	t.Parallel()
	_, err := CompositePNG(nil, CompositeSize, 72)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one chart")
}

func TestStyle_UnknownMetricFallsBack(t *testing.T) {
	t.Parallel()
	s := DefaultStyle()
	got := s.barColors("water")
	assert.Equal(t, s.Ink, got[0])
	assert.Equal(t, s.Accent, got[1])
	assert.Equal(t, [2]color.Color{DarkTeal, Green}, s.barColors(model.MetricGHG))
}
