// Package simulate computes the projected annual impact metrics from the
// simulation parameters and pairs them with their baselines.
package simulate

import (
	"go.uber.org/zap"

	"github.com/sustrend/zeroe-viz/internal/model"
)

// Reference values that do not depend on the simulation parameters.
const (
	Alliances         = 4
	CircularFinancing = 90_000_000 // CLP
)

// Minimum y-axis tops per metric, so small projections still get a
// readable scale.
const (
	FloorGHG      = 10.0
	FloorMaterial = 1.0
	FloorRevenue  = 1_000_000.0
)

// Baseline holds the pre-intervention reference values each projection is
// compared against.
type Baseline struct {
	GHG      float64 `yaml:"ghg" mapstructure:"ghg"`           // tCO2e/year
	Material float64 `yaml:"material" mapstructure:"material"` // tons/year
	Revenue  float64 `yaml:"revenue" mapstructure:"revenue"`   // CLP/year
}

// DefaultBaseline returns the reference values from the project sheet.
func DefaultBaseline() Baseline {
	return Baseline{
		GHG:      500,
		Material: 13,
		Revenue:  26_000_000,
	}
}

// Overlay returns b with every positive field of o applied on top. Zero
// fields in o are treated as unset.
func (b Baseline) Overlay(o Baseline) Baseline {
	if o.GHG > 0 {
		b.GHG = o.GHG
	}
	if o.Material > 0 {
		b.Material = o.Material
	}
	if o.Revenue > 0 {
		b.Revenue = o.Revenue
	}
	return b
}

// Compute maps inputs to outputs. Inputs are expected to be clamped by
// the caller; Compute itself never fails.
func Compute(in model.SimulationInputs) model.SimulationOutputs {
	avoided := float64(in.Animals) * in.EmissionFactor * (in.ReductionRate / 100)
	valorized := float64(in.ByproductVolume) * (in.ValorizationRate / 100)

	return model.SimulationOutputs{
		AvoidedGHG:           avoided,
		ValorizedMaterial:    valorized,
		SubstitutedAdditives: valorized * (in.SubstitutionRate / 100),
		EstimatedRevenue:     valorized * float64(in.AdditivePrice),
		Alliances:            Alliances,
		CircularFinancing:    CircularFinancing,
	}
}

// Result is one full pass from parameters to chartable datasets.
type Result struct {
	Inputs   model.SimulationInputs    `json:"inputs"`
	Outputs  model.SimulationOutputs   `json:"outputs"`
	Datasets []model.ComparisonDataset `json:"datasets"`
}

// Dataset returns the dataset for metric m.
func (r Result) Dataset(m model.Metric) (model.ComparisonDataset, bool) {
	for _, d := range r.Datasets {
		if d.Metric == m {
			return d, true
		}
	}
	return model.ComparisonDataset{}, false
}

// Calculator runs simulations against a fixed baseline.
type Calculator struct {
	baseline Baseline
}

// NewCalculator creates a Calculator. Unset baseline fields fall back to
// DefaultBaseline.
func NewCalculator(b Baseline) *Calculator {
	return &Calculator{baseline: DefaultBaseline().Overlay(b)}
}

// Baseline returns the calculator's baseline.
func (c *Calculator) Baseline() Baseline {
	return c.baseline
}

// Run clamps in, computes outputs and builds the three datasets.
func (c *Calculator) Run(in model.SimulationInputs) Result {
	clamped := in.Clamp()
	out := Compute(clamped)

	zap.L().Debug("simulate: metrics computed",
		zap.Int("animals", clamped.Animals),
		zap.Int("byproduct_volume", clamped.ByproductVolume),
		zap.Float64("avoided_ghg", out.AvoidedGHG),
		zap.Float64("valorized_material", out.ValorizedMaterial),
		zap.Float64("estimated_revenue", out.EstimatedRevenue),
	)

	return Result{
		Inputs:   clamped,
		Outputs:  out,
		Datasets: c.Datasets(out),
	}
}

// Datasets pairs outputs with the baseline, in dashboard order.
func (c *Calculator) Datasets(out model.SimulationOutputs) []model.ComparisonDataset {
	labels := [2]string{model.LabelBaseline, model.LabelProjection}
	return []model.ComparisonDataset{
		{
			Metric:   model.MetricGHG,
			Title:    "Avoided GHG",
			YLabel:   "tCO2e/year",
			Unit:     model.UnitEmissions,
			Labels:   labels,
			Values:   [2]float64{c.baseline.GHG, out.AvoidedGHG},
			Floor:    FloorGHG,
			FileStem: "GEI_Evitados",
		},
		{
			Metric:   model.MetricMaterial,
			Title:    "Valorized Material",
			YLabel:   "tons/year",
			Unit:     model.UnitTons,
			Labels:   labels,
			Values:   [2]float64{c.baseline.Material, out.ValorizedMaterial},
			Floor:    FloorMaterial,
			FileStem: "Material_Valorizado",
		},
		{
			Metric:   model.MetricRevenue,
			Title:    "Generated Revenue",
			YLabel:   "CLP/year",
			Unit:     model.UnitCLP,
			Labels:   labels,
			Values:   [2]float64{c.baseline.Revenue, out.EstimatedRevenue},
			Floor:    FloorRevenue,
			FileStem: "Ingresos_Generados",
		},
	}
}
