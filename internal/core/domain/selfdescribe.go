package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SelfDescribe is a raw self-description document exactly as decoded from
// JSON. A nil SelfDescribe means the document is absent for a version.
type SelfDescribe map[string]any

// DecodeSelfDescribe parses a raw document. Numbers are kept as json.Number
// so integers survive beyond float64 precision. A JSON null yields nil.
func DecodeSelfDescribe(data []byte) (SelfDescribe, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc SelfDescribe
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrInvalidInput)
	}
	return doc, nil
}

// Record is a free-form field set belonging to a metric or property.
type Record map[string]any

// Sanitized is a redacted, shape-normalised self-description.
type Sanitized struct {
	Observers []Observer `json:"observers" yaml:"observers"`
	Monitors  []Monitor  `json:"monitors" yaml:"monitors"`
}

// Observer is a discovery backend capability entry.
type Observer struct {
	// Type is the observerType identifier.
	Type string `json:"observerType" yaml:"observerType"`

	// Dimensions are the bare dimension names the observer emits.
	Dimensions []string `json:"dimensions" yaml:"dimensions"`

	// Attributes holds every other field surviving redaction.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Monitor is a metric-collection capability entry.
type Monitor struct {
	// Type is the monitorType identifier.
	Type string `json:"monitorType" yaml:"monitorType"`

	// Metrics maps metric name to its redacted record.
	Metrics map[string]Record `json:"metrics" yaml:"metrics"`

	// Dimensions are the bare dimension names of the monitor.
	Dimensions []string `json:"dimensions" yaml:"dimensions"`

	// Properties maps property name to its redacted record.
	Properties map[string]Record `json:"properties" yaml:"properties"`

	// Attributes holds every other field surviving redaction.
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// PropertyDimensionField is the property field listing the dimensions the
// property applies to.
const PropertyDimensionField = "dimension"

// AppliesTo reports whether the property record applies to the named
// dimension. The membership field may hold a list of names or a single name.
func (r Record) AppliesTo(dimension string) bool {
	switch v := r[PropertyDimensionField].(type) {
	case string:
		return v == dimension
	case []string:
		for _, d := range v {
			if d == dimension {
				return true
			}
		}
	case []any:
		for _, d := range v {
			if s, ok := d.(string); ok && s == dimension {
				return true
			}
		}
	}
	return false
}
