package selfdescribe

import (
	"fmt"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// Top-level keys of a raw self-description.
const (
	keyObservers = "Observers"
	keyMonitors  = "Monitors"
)

// SchemaFields are the top-level configuration schemas that never reach the
// sanitised output. They are large free-form trees with no indexable value.
var SchemaFields = []string{
	"GenericMonitorConfig",
	"GenericObserverConfig",
	"SourceConfig",
	"TopConfig",
}

// ObserverRedactedFields are removed from every observer.
var ObserverRedactedFields = []string{"name", "doc", "package", "fields", "endpointVariables"}

// MonitorRedactedFields are removed from every monitor. Metrics, dimensions
// and properties are rebuilt from the raw values.
var MonitorRedactedFields = []string{"config", "doc", "groups", "metrics", "name", "package", "fields"}

// PropertyRedactedFields are removed from every property record.
var PropertyRedactedFields = []string{"name", "description"}

const (
	fieldIncluded = "included"
	fieldDefault  = "default"
)

// Sanitize returns a redacted, shape-normalised copy of raw. The input is
// not modified. A nil raw document yields a nil result.
func Sanitize(raw domain.SelfDescribe) (*domain.Sanitized, error) {
	if raw == nil {
		return nil, nil
	}

	observers, err := objectList(raw[keyObservers])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyObservers, err)
	}
	monitors, err := objectList(raw[keyMonitors])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", keyMonitors, err)
	}

	out := &domain.Sanitized{
		Observers: make([]domain.Observer, 0, len(observers)),
		Monitors:  make([]domain.Monitor, 0, len(monitors)),
	}

	for i, o := range observers {
		obs, err := sanitizeObserver(o)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", keyObservers, i, err)
		}
		out.Observers = append(out.Observers, obs)
	}

	for i, m := range monitors {
		mon, err := sanitizeMonitor(m)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", keyMonitors, i, err)
		}
		out.Monitors = append(out.Monitors, mon)
	}

	return out, nil
}

func sanitizeObserver(raw map[string]any) (domain.Observer, error) {
	dims, err := ParseEntries(raw[domain.FieldDimensions])
	if err != nil {
		return domain.Observer{}, fmt.Errorf("%s: %w", domain.FieldDimensions, err)
	}

	typ, _ := raw[domain.FieldObserverType].(string)
	attrs := withoutKeys(raw, ObserverRedactedFields...)
	delete(attrs, domain.FieldObserverType)
	delete(attrs, domain.FieldDimensions)

	return domain.Observer{
		Type:       typ,
		Dimensions: EntryNames(dims),
		Attributes: attrs,
	}, nil
}

func sanitizeMonitor(raw map[string]any) (domain.Monitor, error) {
	typ, _ := raw[domain.FieldMonitorType].(string)

	metricEntries, err := ParseEntries(raw[domain.FieldMetrics])
	if err != nil {
		return domain.Monitor{}, fmt.Errorf("%s %s: %w", typ, domain.FieldMetrics, err)
	}
	dimEntries, err := ParseEntries(raw[domain.FieldDimensions])
	if err != nil {
		return domain.Monitor{}, fmt.Errorf("%s %s: %w", typ, domain.FieldDimensions, err)
	}
	propEntries, err := ParseEntries(raw[domain.FieldProperties])
	if err != nil {
		return domain.Monitor{}, fmt.Errorf("%s %s: %w", typ, domain.FieldProperties, err)
	}

	metrics := make(map[string]domain.Record, len(metricEntries))
	for _, e := range metricEntries {
		rec := entryRecord(e)
		if v, ok := rec[fieldIncluded]; ok {
			rec[fieldDefault] = v
			delete(rec, fieldIncluded)
		}
		metrics[e.Name] = rec
	}

	properties := make(map[string]domain.Record, len(propEntries))
	for _, e := range propEntries {
		rec := entryRecord(e)
		for _, f := range PropertyRedactedFields {
			delete(rec, f)
		}
		properties[e.Name] = rec
	}

	attrs := withoutKeys(raw, MonitorRedactedFields...)
	delete(attrs, domain.FieldMonitorType)
	delete(attrs, domain.FieldDimensions)
	delete(attrs, domain.FieldProperties)

	return domain.Monitor{
		Type:       typ,
		Metrics:    metrics,
		Dimensions: EntryNames(dimEntries),
		Properties: properties,
		Attributes: attrs,
	}, nil
}

// entryRecord returns the redacted field set of an entry. Fields were
// already copied by ParseEntries and carry no name.
func entryRecord(e domain.Entry) domain.Record {
	if e.Fields == nil {
		return domain.Record{}
	}
	return domain.Record(e.Fields)
}

// objectList reads a top-level entity list. Null is empty.
func objectList(v any) ([]map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	if objs, ok := v.([]map[string]any); ok {
		return objs, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %T", domain.ErrInvalidInput, v)
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is %T, not an object", domain.ErrInvalidInput, i, item)
		}
		out = append(out, obj)
	}
	return out, nil
}
