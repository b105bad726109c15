package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

func TestParse_PartialKeepsDefaults(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(`
name: pilot
inputs:
  animals: 2500
  additive_price: 2500000
`))
	require.NoError(t, err)

	assert.Equal(t, "pilot", s.Name)
	assert.Equal(t, 2500, s.Inputs.Animals)
	assert.Equal(t, 2_500_000, s.Inputs.AdditivePrice)
	assert.Equal(t, 20.0, s.Inputs.EmissionFactor)
	assert.Equal(t, 15, s.Inputs.ByproductVolume)
	assert.Nil(t, s.Baseline)
}

func TestParse_ClampsOutOfRange(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(`
inputs:
  animals: 99999
  reduction_rate: 2
`))
	require.NoError(t, err)
	assert.Equal(t, 5000, s.Inputs.Animals)
	assert.Equal(t, 10.0, s.Inputs.ReductionRate)
}

func TestParse_Baseline(t *testing.T) {
	t.Parallel()
	s, err := Parse([]byte(`
name: revised
baseline:
  ghg: 650
  material: 14
  revenue: 28000000
`))
	require.NoError(t, err)
	require.NotNil(t, s.Baseline)
	assert.Equal(t, simulate.Baseline{GHG: 650, Material: 14, Revenue: 28_000_000}, *s.Baseline)
}

func TestParse_NegativeBaseline(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("baseline:\n  revenue: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseline values must be >= 0")
}

func TestSave_WithBaseline(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "pilot.yaml")
	in := Scenario{
		Name:     "pilot",
		Inputs:   model.DefaultInputs().With(model.ParamByproductVolume, 40),
		Baseline: &simulate.Baseline{GHG: 650},
	}
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}

func TestSave_BadPath(t *testing.T) {
	t.Parallel()
	err := Save(filepath.Join(t.TempDir(), "missing", "s.yaml"), Scenario{Name: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario: write")
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte("inputs: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario: parse yaml")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario: read")
}

func TestMarshalLoadRoundTrip(t *testing.T) {
	t.Parallel()
	in := Scenario{
		Name:   "expanded herd",
		Inputs: model.DefaultInputs().With(model.ParamAnimals, 4000),
	}
	data, err := Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "animals: 4000")
	assert.NotContains(t, string(data), "baseline")

	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, *out)
}
