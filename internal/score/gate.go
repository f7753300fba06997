package score

// Gate is the ingestion-threshold filter applied after scoring. Reports
// whose severity does not exceed the threshold are discarded, not stored.
type Gate struct {
	Threshold float64
}

// Accept reports whether a severity clears the ingestion threshold.
func (g Gate) Accept(severity float64) bool {
	return severity > g.Threshold
}
