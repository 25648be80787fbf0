package domain

// FlatDocument is a denormalised, single-entity record produced for one
// search index. Values are JSON-compatible.
type FlatDocument map[string]any

// Clone returns a shallow copy of the document.
func (d FlatDocument) Clone() FlatDocument {
	out := make(FlatDocument, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// String returns the named field if it holds a string.
func (d FlatDocument) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Flat document field names written by the generators.
const (
	FieldObserverType = "observerType"
	FieldMonitorType  = "monitorType"
	FieldDimensions   = "dimensions"
	FieldMetrics      = "metrics"
	FieldProperties   = "properties"
	FieldMetric       = "metric"
	FieldDimension    = "dimension"
	FieldProperty     = "property"
)
