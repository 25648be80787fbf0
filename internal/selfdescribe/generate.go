package selfdescribe

import (
	"sort"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// Generator flattens a sanitised document into documents for one index.
// Generators return an empty, non-nil slice for a nil document.
type Generator func(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument

// ObserverDocs emits one document per observer.
func ObserverDocs(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument {
	docs := []domain.FlatDocument{}
	if s == nil {
		return docs
	}
	for _, o := range s.Observers {
		doc := attributeDoc(o.Attributes)
		doc[domain.FieldObserverType] = o.Type
		doc[domain.FieldDimensions] = cloneStrings(o.Dimensions)
		tag.Apply(doc)
		docs = append(docs, doc)
	}
	return docs
}

// MonitorDocs emits one document per monitor.
func MonitorDocs(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument {
	docs := []domain.FlatDocument{}
	if s == nil {
		return docs
	}
	for _, m := range s.Monitors {
		doc := attributeDoc(m.Attributes)
		doc[domain.FieldMonitorType] = m.Type
		doc[domain.FieldMetrics] = cloneRecords(m.Metrics)
		doc[domain.FieldDimensions] = cloneStrings(m.Dimensions)
		doc[domain.FieldProperties] = cloneRecords(m.Properties)
		tag.Apply(doc)
		docs = append(docs, doc)
	}
	return docs
}

// MetricDocs emits one document per (monitor, metric) pair. Each carries
// the metric's own fields plus its monitor's dimensions and properties.
func MetricDocs(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument {
	docs := []domain.FlatDocument{}
	if s == nil {
		return docs
	}
	for _, m := range s.Monitors {
		for _, name := range sortedKeys(m.Metrics) {
			doc := attributeDoc(m.Metrics[name])
			doc[domain.FieldMetric] = name
			doc[domain.FieldMonitorType] = m.Type
			doc[domain.FieldDimensions] = cloneStrings(m.Dimensions)
			doc[domain.FieldProperties] = cloneRecords(m.Properties)
			tag.Apply(doc)
			docs = append(docs, doc)
		}
	}
	return docs
}

// MonitorDimensionDocs emits one document per (monitor, dimension) pair.
// Only the properties whose membership includes the dimension are attached.
func MonitorDimensionDocs(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument {
	docs := []domain.FlatDocument{}
	if s == nil {
		return docs
	}
	for _, m := range s.Monitors {
		for _, dim := range m.Dimensions {
			props := make(map[string]domain.Record)
			for name, rec := range m.Properties {
				if rec.AppliesTo(dim) {
					props[name] = cloneRecord(rec)
				}
			}
			doc := domain.FlatDocument{
				domain.FieldDimension:   dim,
				domain.FieldMonitorType: m.Type,
				domain.FieldMetrics:     cloneRecords(m.Metrics),
				domain.FieldProperties:  props,
			}
			tag.Apply(doc)
			docs = append(docs, doc)
		}
	}
	return docs
}

// ObserverDimensionDocs emits one document per (observer, dimension) pair.
func ObserverDimensionDocs(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument {
	docs := []domain.FlatDocument{}
	if s == nil {
		return docs
	}
	for _, o := range s.Observers {
		for _, dim := range o.Dimensions {
			doc := domain.FlatDocument{
				domain.FieldDimension:    dim,
				domain.FieldObserverType: o.Type,
			}
			tag.Apply(doc)
			docs = append(docs, doc)
		}
	}
	return docs
}

// PropertyDocs emits one document per (monitor, property, dimension) triple
// where the property applies to the dimension. A monitor without any
// dimensions still yields one document per property, with a nil dimension.
// Membership names missing from the monitor's dimensions are never emitted.
func PropertyDocs(s *domain.Sanitized, tag domain.VersionTag) []domain.FlatDocument {
	docs := []domain.FlatDocument{}
	if s == nil {
		return docs
	}
	for _, m := range s.Monitors {
		for _, name := range sortedKeys(m.Properties) {
			if len(m.Dimensions) == 0 {
				docs = append(docs, propertyDoc(name, m.Type, nil, tag))
				continue
			}
			rec := m.Properties[name]
			for _, dim := range m.Dimensions {
				if rec.AppliesTo(dim) {
					docs = append(docs, propertyDoc(name, m.Type, dim, tag))
				}
			}
		}
	}
	return docs
}

func propertyDoc(name, monitorType string, dim any, tag domain.VersionTag) domain.FlatDocument {
	doc := domain.FlatDocument{
		domain.FieldProperty:    name,
		domain.FieldMonitorType: monitorType,
		domain.FieldDimension:   dim,
	}
	tag.Apply(doc)
	return doc
}

// attributeDoc starts a document from a copy of an entity's fields.
func attributeDoc[M ~map[string]any](fields M) domain.FlatDocument {
	doc := make(domain.FlatDocument, len(fields)+4)
	for k, v := range fields {
		doc[k] = cloneValue(v)
	}
	return doc
}

func sortedKeys(m map[string]domain.Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
