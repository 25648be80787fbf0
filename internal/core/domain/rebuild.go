package domain

import "time"

// VersionStatus is the outcome of loading one version during a rebuild.
type VersionStatus string

const (
	// VersionLoaded means the document was fetched and sanitised.
	VersionLoaded VersionStatus = "loaded"

	// VersionCached means the document was read from the local cache.
	VersionCached VersionStatus = "cached"

	// VersionAbsent means no document exists for the version.
	VersionAbsent VersionStatus = "absent"

	// VersionFailed means fetching or sanitising failed; the version
	// contributes no documents.
	VersionFailed VersionStatus = "failed"
)

// VersionResult records how one version was loaded.
type VersionResult struct {
	Version Version
	Status  VersionStatus
	Err     error
}

// IndexResult records the rebuild of one index.
type IndexResult struct {
	Index     IndexName
	Physical  string
	Documents int
	Err       error
}

// RebuildReport summarises one full rebuild.
type RebuildReport struct {
	Versions []VersionResult
	Indices  []IndexResult
	Started  time.Time
	Duration time.Duration
}

// Documents returns the total number of documents written.
func (r *RebuildReport) Documents() int {
	n := 0
	for _, ir := range r.Indices {
		n += ir.Documents
	}
	return n
}

// Failed returns the indices whose rebuild failed.
func (r *RebuildReport) Failed() []IndexResult {
	var failed []IndexResult
	for _, ir := range r.Indices {
		if ir.Err != nil {
			failed = append(failed, ir)
		}
	}
	return failed
}
