package model

import "math"

// ParamKey identifies one of the seven simulation parameters.
type ParamKey string

// Simulation parameter keys. Values double as query-string and YAML keys.
const (
	ParamAnimals         ParamKey = "animals"
	ParamEmissionFactor  ParamKey = "emission_factor"
	ParamReductionRate   ParamKey = "reduction_rate"
	ParamByproductVolume ParamKey = "byproduct_volume"
	ParamValorization    ParamKey = "valorization_rate"
	ParamSubstitution    ParamKey = "substitution_rate"
	ParamAdditivePrice   ParamKey = "additive_price"
)

// Parameter describes a bounded numeric input as presented on a slider.
type Parameter struct {
	Key     ParamKey `json:"key"`
	Label   string   `json:"label"`
	Unit    string   `json:"unit"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Step    float64  `json:"step"`
	Default float64  `json:"default"`
	Help    string   `json:"help"`
	Integer bool     `json:"integer"`
}

// Clamp bounds v to [Min, Max]. Integer parameters are rounded to the
// nearest whole number first. NaN yields the default.
func (p Parameter) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return p.Default
	}
	if p.Integer {
		v = math.Round(v)
	}
	if v < p.Min {
		return p.Min
	}
	if v > p.Max {
		return p.Max
	}
	return v
}

// parameters is ordered the way the dashboard renders its sliders.
var parameters = []Parameter{
	{
		Key: ParamAnimals, Label: "Animals benefited", Unit: "head",
		Min: 50, Max: 5000, Step: 50, Default: 1000, Integer: true,
		Help: "Number of ruminants receiving the additive each year.",
	},
	{
		Key: ParamEmissionFactor, Label: "Enteric emission factor", Unit: "tCO2e/animal/year",
		Min: 15.0, Max: 25.0, Step: 0.5, Default: 20.0,
		Help: "Average enteric methane emission factor per animal per year.",
	},
	{
		Key: ParamReductionRate, Label: "Expected GHG reduction", Unit: "%",
		Min: 10, Max: 40, Step: 1, Default: 30,
		Help: "Share of GHG emissions avoided by the additive.",
	},
	{
		Key: ParamByproductVolume, Label: "Byproduct volume used", Unit: "tons/year",
		Min: 5, Max: 200, Step: 5, Default: 15, Integer: true,
		Help: "Annual volume of byproducts (Quillay and others) valorized as raw material.",
	},
	{
		Key: ParamValorization, Label: "Byproduct valorization", Unit: "%",
		Min: 80, Max: 95, Step: 1, Default: 87,
		Help: "Share of the byproducts used that is effectively turned into additive.",
	},
	{
		Key: ParamSubstitution, Label: "Synthetic additive substitution", Unit: "%",
		Min: 10, Max: 30, Step: 1, Default: 15,
		Help: "Share of synthetic additives replaced by the natural additive.",
	},
	{
		Key: ParamAdditivePrice, Label: "Natural additive price", Unit: "CLP/ton",
		Min: 1_000_000, Max: 3_000_000, Step: 100_000, Default: 2_000_000, Integer: true,
		Help: "Estimated sale price of the natural additive per ton.",
	},
}

// Parameters returns the parameter descriptors in display order.
func Parameters() []Parameter {
	out := make([]Parameter, len(parameters))
	copy(out, parameters)
	return out
}

// LookupParameter returns the descriptor for key.
func LookupParameter(key ParamKey) (Parameter, bool) {
	for _, p := range parameters {
		if p.Key == key {
			return p, true
		}
	}
	return Parameter{}, false
}
