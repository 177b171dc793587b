package models

import "github.com/shopspring/decimal"

// Metric is one named dashboard figure. Metrics are recomputed for display and
// never persisted.
type Metric struct {
	Name  string          `json:"metric"`
	Value decimal.Decimal `json:"value"`
}

// Metrics is an ordered list of dashboard figures.
type Metrics []Metric

// Lookup returns the value of the metric called name.
func (m Metrics) Lookup(name string) (decimal.Decimal, bool) {
	for _, metric := range m {
		if metric.Name == name {
			return metric.Value, true
		}
	}
	return decimal.Zero, false
}
