// Package scenario reads and writes YAML files holding a set of simulation
// parameters.
package scenario

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

// Scenario is a named parameter set with an optional baseline override.
type Scenario struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Inputs      model.SimulationInputs `yaml:"inputs"`
	Baseline    *simulate.Baseline     `yaml:"baseline,omitempty"`
}

// Parse decodes a scenario. Parameters missing from the document keep
// their slider defaults; all parameters are clamped.
func Parse(data []byte) (*Scenario, error) {
	s := Scenario{Inputs: model.DefaultInputs()}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrap(err, "scenario: parse yaml")
	}
	if b := s.Baseline; b != nil && (b.GHG < 0 || b.Material < 0 || b.Revenue < 0) {
		return nil, eris.New("scenario: baseline values must be >= 0")
	}
	s.Inputs = s.Inputs.Clamp()
	return &s, nil
}

// Load reads and parses the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: read %s", path)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "scenario: load %s", path)
	}
	return s, nil
}

// Marshal encodes s as YAML.
func Marshal(s Scenario) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, eris.Wrap(err, "scenario: marshal yaml")
	}
	return data, nil
}

// Save writes s to path so it can be reloaded with Load.
func Save(path string, s Scenario) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "scenario: write %s", path)
	}
	return nil
}
