package domain

import (
	"fmt"
	"time"
)

// UntaggedRelease is the release tag given to commits that carry no tag.
const UntaggedRelease = "_"

// Version identifies one source version of the self-description document.
type Version struct {
	// Commit is the commit SHA the document was read at.
	Commit string `json:"commit" yaml:"commit"`

	// ReleaseTag is the release tag name, or UntaggedRelease.
	ReleaseTag string `json:"releaseTag" yaml:"releaseTag"`

	// PublishedAt is when the release was published. Zero if unknown.
	PublishedAt time.Time `json:"publishedAt,omitzero" yaml:"publishedAt,omitempty"`
}

// String returns a "tag@sha" form for logging.
func (v Version) String() string {
	return fmt.Sprintf("%s@%s", v.ReleaseTag, shortSHA(v.Commit))
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

// TaggingScheme selects which version identifier is written to documents.
type TaggingScheme string

const (
	// TaggingCommit tags documents with the commit SHA ("sha").
	TaggingCommit TaggingScheme = "commit"

	// TaggingPublished tags documents with the release publication time
	// ("publishedAt").
	TaggingPublished TaggingScheme = "published"
)

// ParseTaggingScheme validates a scheme name. Empty selects TaggingCommit.
func ParseTaggingScheme(s string) (TaggingScheme, error) {
	switch TaggingScheme(s) {
	case "", TaggingCommit:
		return TaggingCommit, nil
	case TaggingPublished:
		return TaggingPublished, nil
	default:
		return "", fmt.Errorf("%w: tagging scheme %q", ErrUnsupportedType, s)
	}
}

// Document tag fields.
const (
	FieldReleaseTag  = "releaseTag"
	FieldSHA         = "sha"
	FieldPublishedAt = "publishedAt"
)

// VersionTag is the tagging applied to every generated document.
type VersionTag struct {
	Version Version
	Scheme  TaggingScheme
}

// NewVersionTag builds a tag for a version under the given scheme.
func NewVersionTag(v Version, scheme TaggingScheme) VersionTag {
	return VersionTag{Version: v, Scheme: scheme}
}

// Apply writes the tag fields into doc.
func (t VersionTag) Apply(doc FlatDocument) {
	doc[FieldReleaseTag] = t.Version.ReleaseTag
	switch t.Scheme {
	case TaggingPublished:
		if t.Version.PublishedAt.IsZero() {
			doc[FieldPublishedAt] = nil
		} else {
			doc[FieldPublishedAt] = t.Version.PublishedAt.UTC().Format(time.RFC3339)
		}
	default:
		doc[FieldSHA] = t.Version.Commit
	}
}
