package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultInputs(t *testing.T) {
	t.Parallel()
	in := DefaultInputs()
	assert.Equal(t, SimulationInputs{
		Animals:          1000,
		EmissionFactor:   20.0,
		ReductionRate:    30,
		ByproductVolume:  15,
		ValorizationRate: 87,
		SubstitutionRate: 15,
		AdditivePrice:    2_000_000,
	}, in)
}

func TestSimulationInputs_WithAndValue(t *testing.T) {
	t.Parallel()
	in := DefaultInputs()
	for _, p := range Parameters() {
		got := in.With(p.Key, p.Max).Value(p.Key)
		assert.Equal(t, p.Max, got, p.Key)
	}
	assert.Equal(t, in, in.With("unknown", 42))
	assert.Zero(t, in.Value("unknown"))
}

func TestSimulationInputs_Clamp(t *testing.T) {
	t.Parallel()
	in := SimulationInputs{
		Animals:          0,
		EmissionFactor:   99,
		ReductionRate:    5,
		ByproductVolume:  1000,
		ValorizationRate: 90,
		SubstitutionRate: 50,
		AdditivePrice:    10,
	}
	got := in.Clamp()
	assert.Equal(t, SimulationInputs{
		Animals:          50,
		EmissionFactor:   25,
		ReductionRate:    10,
		ByproductVolume:  200,
		ValorizationRate: 90,
		SubstitutionRate: 30,
		AdditivePrice:    1_000_000,
	}, got)
}

func TestSimulationInputs_ClampIdempotent(t *testing.T) {
	t.Parallel()
	in := DefaultInputs()
	assert.Equal(t, in, in.Clamp())
	assert.Equal(t, in.Clamp(), in.Clamp().Clamp())
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Metric{MetricGHG, MetricMaterial, MetricRevenue}, Metrics())
	for _, m := range Metrics() {
		assert.True(t, m.Valid())
	}
	assert.False(t, Metric("water").Valid())
}

func TestComparisonDataset_Accessors(t *testing.T) {
	t.Parallel()
	d := ComparisonDataset{Values: [2]float64{500, 6000}, FileStem: "GEI_Evitados"}
	assert.Equal(t, 500.0, d.Baseline())
	assert.Equal(t, 6000.0, d.Projection())
	assert.Equal(t, "GEI_Evitados.png", d.FileName())
}
