package main

import (
	"time"

	"github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"

	"github.com/sustrend/zeroe-viz/internal/branding"
	"github.com/sustrend/zeroe-viz/internal/chart"
	"github.com/sustrend/zeroe-viz/internal/config"
	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/resilience"
	"github.com/sustrend/zeroe-viz/internal/scenario"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

// appEnv holds the components shared by the commands.
type appEnv struct {
	Calculator *simulate.Calculator
	Renderer   *chart.Renderer
	Logos      *branding.Fetcher
}

// initEnv wires the calculator, renderer and logo fetcher from config.
// Fields set in a scenario baseline replace the configured ones.
func initEnv(c *config.Config, override *simulate.Baseline) (*appEnv, error) {
	baseline := simulate.Baseline{
		GHG:      c.Baseline.GHG,
		Material: c.Baseline.Material,
		Revenue:  c.Baseline.Revenue,
	}
	if override != nil {
		baseline = baseline.Overlay(*override)
	}

	renderer, err := chart.NewRenderer(chart.Options{
		DPI: c.Chart.DPI,
		Single: chart.Size{
			Width:  vg.Length(c.Chart.Width) * vg.Inch,
			Height: vg.Length(c.Chart.Height) * vg.Inch,
		},
		Composite: chart.Size{
			Width:  vg.Length(c.Chart.CompositeWidth) * vg.Inch,
			Height: vg.Length(c.Chart.CompositeHeight) * vg.Inch,
		},
		CacheSize: c.Chart.CacheSize,
	})
	if err != nil {
		return nil, err
	}

	retry := resilience.DefaultRetryConfig()
	if c.Branding.RetryAttempts > 0 {
		retry.MaxAttempts = c.Branding.RetryAttempts
	}
	logos, err := branding.NewFetcher(branding.Options{
		Logos:   c.Branding.Logos,
		Timeout: time.Duration(c.Branding.TimeoutSecs) * time.Second,
		Retry:   retry,
	})
	if err != nil {
		return nil, err
	}

	return &appEnv{
		Calculator: simulate.NewCalculator(baseline),
		Renderer:   renderer,
		Logos:      logos,
	}, nil
}

// addParamFlags registers one flag per simulation parameter plus
// --scenario.
func addParamFlags(fs *pflag.FlagSet) {
	for _, p := range model.Parameters() {
		fs.Float64(string(p.Key), p.Default, p.Label+" ("+p.Unit+")")
	}
	fs.String("scenario", "", "YAML scenario file with parameter values")
}

// resolveInputs builds inputs from the scenario file (if any) with
// explicitly set flags layered on top. It returns the scenario's name and
// baseline override alongside.
func resolveInputs(fs *pflag.FlagSet) (model.SimulationInputs, string, *simulate.Baseline, error) {
	in := model.DefaultInputs()
	name := "default"
	var baseline *simulate.Baseline

	if path, _ := fs.GetString("scenario"); path != "" {
		s, err := scenario.Load(path)
		if err != nil {
			return in, "", nil, err
		}
		in = s.Inputs
		baseline = s.Baseline
		if s.Name != "" {
			name = s.Name
		}
	}

	for _, p := range model.Parameters() {
		f := fs.Lookup(string(p.Key))
		if f == nil || !f.Changed {
			continue
		}
		v, err := fs.GetFloat64(string(p.Key))
		if err != nil {
			return in, "", nil, err
		}
		in = in.With(p.Key, p.Clamp(v))
	}
	return in.Clamp(), name, baseline, nil
}
