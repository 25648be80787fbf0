// Package selfdescribe turns raw self-description documents into flat,
// search-indexable documents.
//
// The package has two halves. Sanitize redacts implementation fields and
// collapses the "bare name or named object" union used for dimensions,
// metrics and properties. The generators then flatten a Sanitized document
// into one stream of documents per logical index:
//
//	raw -> Sanitize -> ObserverDocs / MonitorDocs / MetricDocs /
//	                   MonitorDimensionDocs / ObserverDimensionDocs / PropertyDocs
//
// Everything here is a pure function of its input. A nil document is the
// "absent version" case and yields zero documents, never an error.
package selfdescribe
