// Package report exports a simulation as an XLSX workbook.
package report

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sustrend/zeroe-viz/internal/format"
	"github.com/sustrend/zeroe-viz/internal/model"
	"github.com/sustrend/zeroe-viz/internal/simulate"
)

// Sheet names, in workbook order.
const (
	SheetSummary    = "Summary"
	SheetInputs     = "Inputs"
	SheetOutputs    = "Outputs"
	SheetComparison = "Comparison"
)

// Meta describes the export itself.
type Meta struct {
	ID          string
	Title       string
	Scenario    string
	GeneratedAt time.Time
}

// NewMeta returns Meta with a fresh ID and the current time.
func NewMeta(title, scenario string) Meta {
	return Meta{
		ID:          uuid.NewString(),
		Title:       title,
		Scenario:    scenario,
		GeneratedAt: time.Now().UTC(),
	}
}

// Build lays out res as a workbook with one sheet per concern.
func Build(res simulate.Result, meta Meta) (*xlsx.File, error) {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SheetSummary)
	if err != nil {
		return nil, eris.Wrap(err, "report: add summary sheet")
	}
	addRow(summary, "Title", meta.Title)
	addRow(summary, "Scenario", meta.Scenario)
	addRow(summary, "Report ID", meta.ID)
	addRow(summary, "Generated at", meta.GeneratedAt.Format(time.RFC3339))
	for _, c := range format.Cards(res.Outputs) {
		addRow(summary, c.Label, c.Value)
	}

	inputs, err := f.AddSheet(SheetInputs)
	if err != nil {
		return nil, eris.Wrap(err, "report: add inputs sheet")
	}
	addRow(inputs, "Parameter", "Unit", "Value", "Min", "Max")
	for _, p := range model.Parameters() {
		row := inputs.AddRow()
		row.AddCell().SetString(p.Label)
		row.AddCell().SetString(p.Unit)
		row.AddCell().SetFloat(res.Inputs.Value(p.Key))
		row.AddCell().SetFloat(p.Min)
		row.AddCell().SetFloat(p.Max)
	}

	outputs, err := f.AddSheet(SheetOutputs)
	if err != nil {
		return nil, eris.Wrap(err, "report: add outputs sheet")
	}
	addRow(outputs, "Metric", "Unit", "Value")
	for _, m := range []struct {
		label, unit string
		value       float64
	}{
		{"Avoided GHG", "tCO2e/year", res.Outputs.AvoidedGHG},
		{"Valorized material", "tons/year", res.Outputs.ValorizedMaterial},
		{"Synthetic additives substituted", "tons/year", res.Outputs.SubstitutedAdditives},
		{"Generated revenue", "CLP/year", res.Outputs.EstimatedRevenue},
		{"Commercial alliances", "count", float64(res.Outputs.Alliances)},
		{"Circular financing", "CLP", res.Outputs.CircularFinancing},
	} {
		row := outputs.AddRow()
		row.AddCell().SetString(m.label)
		row.AddCell().SetString(m.unit)
		row.AddCell().SetFloat(m.value)
	}

	comparison, err := f.AddSheet(SheetComparison)
	if err != nil {
		return nil, eris.Wrap(err, "report: add comparison sheet")
	}
	addRow(comparison, "Metric", "Unit", model.LabelBaseline, model.LabelProjection, "Change")
	for _, d := range res.Datasets {
		row := comparison.AddRow()
		row.AddCell().SetString(d.Title)
		row.AddCell().SetString(d.YLabel)
		row.AddCell().SetFloat(d.Baseline())
		row.AddCell().SetFloat(d.Projection())
		row.AddCell().SetString(change(d))
	}

	return f, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, res simulate.Result, meta Meta) error {
	f, err := Build(res, meta)
	if err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "report: write workbook")
	}
	return nil
}

// change formats the projection relative to the baseline as a percentage.
func change(d model.ComparisonDataset) string {
	if d.Baseline() == 0 {
		return "n/a"
	}
	pct := (d.Projection() - d.Baseline()) / d.Baseline() * 100
	sign := ""
	if pct > 0 {
		sign = "+"
	}
	return sign + format.Decimal(pct) + "%"
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
