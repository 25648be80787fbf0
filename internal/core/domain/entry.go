package domain

// EntryKind distinguishes the two accepted shapes of a raw entry.
type EntryKind int

const (
	// EntryNamed is a bare name such as "host_id".
	EntryNamed EntryKind = iota

	// EntryDescribed is an object carrying a name plus other fields.
	EntryDescribed
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryNamed:
		return "named"
	case EntryDescribed:
		return "described"
	default:
		return "unknown"
	}
}

// Entry is a dimension, metric or property reference in normalised form.
type Entry struct {
	Kind EntryKind

	// Name is the entry name in both shapes.
	Name string

	// Fields are the remaining fields of a Described entry, without "name".
	// Nil for Named entries.
	Fields map[string]any
}

// Named builds a bare-name entry.
func Named(name string) Entry {
	return Entry{Kind: EntryNamed, Name: name}
}

// Described builds a named-object entry.
func Described(name string, fields map[string]any) Entry {
	return Entry{Kind: EntryDescribed, Name: name, Fields: fields}
}
