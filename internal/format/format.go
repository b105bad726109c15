// Package format renders metric values for cards, bar labels and reports.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sustrend/zeroe-viz/internal/model"
)

// printer groups thousands with commas and uses a dot for decimals.
var printer = message.NewPrinter(language.English)

// Decimal formats v with two decimals and thousands separators: 6,000.00.
func Decimal(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Fixed formats v with two decimals and no grouping: 6000.00. Quantity
// cards use it; bar labels use Decimal.
func Fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CLP formats a peso amount with no decimals: CLP 26,100,000.
func CLP(v float64) string {
	return printer.Sprintf("CLP %.0f", v)
}

// Integer formats v rounded to a whole number with thousands separators.
func Integer(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// Value formats v the way bar labels show it for the given unit.
func Value(unit model.Unit, v float64) string {
	if unit == model.UnitCLP {
		return CLP(v)
	}
	return Decimal(v)
}

// Tick formats an axis tick. Currency ticks drop decimals.
func Tick(unit model.Unit, v float64) string {
	if unit == model.UnitCLP {
		return Integer(v)
	}
	if v == float64(int64(v)) {
		return Integer(v)
	}
	return printer.Sprintf("%.1f", v)
}

// Parameter formats a slider value: whole-step parameters without
// decimals, fractional steps with one.
func Parameter(p model.Parameter, v float64) string {
	if p.Integer || p.Step == math.Trunc(p.Step) {
		return Integer(v)
	}
	return printer.Sprintf("%.1f", v)
}

// Card is one headline metric as shown on the dashboard.
type Card struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Caption string `json:"caption"`
}

// Cards returns the six headline metrics in display order.
func Cards(out model.SimulationOutputs) []Card {
	return []Card{
		{
			Key:     "avoided_ghg",
			Label:   "Avoided GHG",
			Value:   Fixed(out.AvoidedGHG) + " tCO2e/year",
			Caption: "Reduction of greenhouse gas emissions (enteric methane).",
		},
		{
			Key:     "valorized_material",
			Label:   "Valorized material",
			Value:   Fixed(out.ValorizedMaterial) + " tons/year",
			Caption: "Industrial byproducts turned into additive.",
		},
		{
			Key:     "substituted_additives",
			Label:   "Synthetic additives substituted",
			Value:   Fixed(out.SubstitutedAdditives) + " tons/year",
			Caption: "Volume of conventional chemical additives replaced.",
		},
		{
			Key:     "estimated_revenue",
			Label:   "Generated revenue",
			Value:   CLP(out.EstimatedRevenue),
			Caption: "Estimated income from natural additive sales.",
		},
		{
			Key:     "alliances",
			Label:   "Commercial alliances",
			Value:   Integer(float64(out.Alliances)),
			Caption: "Strategic alliances established (reference value).",
		},
		{
			Key:     "circular_financing",
			Label:   "Circular financing",
			Value:   CLP(out.CircularFinancing),
			Caption: "Financing tied directly to the circular innovation (reference value).",
		},
	}
}
