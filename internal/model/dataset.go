package model

// Metric identifies one of the three charted comparisons.
type Metric string

// Charted metrics, in dashboard order.
const (
	MetricGHG      Metric = "ghg"
	MetricMaterial Metric = "material"
	MetricRevenue  Metric = "revenue"
)

// Metrics returns the charted metrics in dashboard order.
func Metrics() []Metric {
	return []Metric{MetricGHG, MetricMaterial, MetricRevenue}
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricGHG, MetricMaterial, MetricRevenue:
		return true
	}
	return false
}

// Unit tags how a dataset's values are formatted.
type Unit string

// Dataset units.
const (
	UnitEmissions Unit = "tCO2e"
	UnitTons      Unit = "tons"
	UnitCLP       Unit = "CLP"
)

// Comparison bar labels.
const (
	LabelBaseline   = "Baseline"
	LabelProjection = "Projection"
)

// ComparisonDataset pairs a fixed baseline with a computed projection for
// one metric.
type ComparisonDataset struct {
	Metric   Metric     `json:"metric"`
	Title    string     `json:"title"`
	YLabel   string     `json:"y_label"`
	Unit     Unit       `json:"unit"`
	Labels   [2]string  `json:"labels"`
	Values   [2]float64 `json:"values"` // [baseline, projection]
	Floor    float64    `json:"floor"`  // minimum y-axis top
	FileStem string     `json:"file_stem"`
}

// Baseline returns the baseline value.
func (d ComparisonDataset) Baseline() float64 { return d.Values[0] }

// Projection returns the projected value.
func (d ComparisonDataset) Projection() float64 { return d.Values[1] }

// FileName returns the download file name for the dataset's chart.
func (d ComparisonDataset) FileName() string {
	return d.FileStem + ".png"
}
