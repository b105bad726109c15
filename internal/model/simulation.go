package model

// SimulationInputs holds the seven user-adjustable parameters.
// Percentages are expressed on a 0-100 scale.
type SimulationInputs struct {
	Animals          int     `json:"animals" yaml:"animals"`
	EmissionFactor   float64 `json:"emission_factor" yaml:"emission_factor"`
	ReductionRate    float64 `json:"reduction_rate" yaml:"reduction_rate"`
	ByproductVolume  int     `json:"byproduct_volume" yaml:"byproduct_volume"`
	ValorizationRate float64 `json:"valorization_rate" yaml:"valorization_rate"`
	SubstitutionRate float64 `json:"substitution_rate" yaml:"substitution_rate"`
	AdditivePrice    int     `json:"additive_price" yaml:"additive_price"`
}

// SimulationOutputs holds the derived annual metrics.
type SimulationOutputs struct {
	AvoidedGHG           float64 `json:"avoided_ghg"`           // tCO2e/year
	ValorizedMaterial    float64 `json:"valorized_material"`    // tons/year
	SubstitutedAdditives float64 `json:"substituted_additives"` // tons/year
	EstimatedRevenue     float64 `json:"estimated_revenue"`     // CLP/year
	Alliances            int     `json:"alliances"`
	CircularFinancing    float64 `json:"circular_financing"` // CLP
}

// DefaultInputs returns the slider defaults.
func DefaultInputs() SimulationInputs {
	in := SimulationInputs{}
	for _, p := range parameters {
		in = in.With(p.Key, p.Default)
	}
	return in
}

// Value returns the raw value of the parameter identified by key.
func (in SimulationInputs) Value(key ParamKey) float64 {
	switch key {
	case ParamAnimals:
		return float64(in.Animals)
	case ParamEmissionFactor:
		return in.EmissionFactor
	case ParamReductionRate:
		return in.ReductionRate
	case ParamByproductVolume:
		return float64(in.ByproductVolume)
	case ParamValorization:
		return in.ValorizationRate
	case ParamSubstitution:
		return in.SubstitutionRate
	case ParamAdditivePrice:
		return float64(in.AdditivePrice)
	}
	return 0
}

// With returns a copy of in with the parameter identified by key set to v.
// Unknown keys leave the inputs unchanged.
func (in SimulationInputs) With(key ParamKey, v float64) SimulationInputs {
	switch key {
	case ParamAnimals:
		in.Animals = int(v)
	case ParamEmissionFactor:
		in.EmissionFactor = v
	case ParamReductionRate:
		in.ReductionRate = v
	case ParamByproductVolume:
		in.ByproductVolume = int(v)
	case ParamValorization:
		in.ValorizationRate = v
	case ParamSubstitution:
		in.SubstitutionRate = v
	case ParamAdditivePrice:
		in.AdditivePrice = int(v)
	}
	return in
}

// Clamp bounds every field to its parameter range. This is the only
// validation inputs receive.
func (in SimulationInputs) Clamp() SimulationInputs {
	out := in
	for _, p := range parameters {
		out = out.With(p.Key, p.Clamp(in.Value(p.Key)))
	}
	return out
}
