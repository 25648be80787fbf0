package selfdescribe

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// nameField is the key carrying an entry's name in the object shape.
const nameField = "name"

// ParseEntries normalises a raw dimension, metric or property collection.
//
// Accepted shapes:
//   - nil: no entries
//   - a sequence whose items are bare names or objects with a string "name"
//   - a mapping from name to object, read as Described entries in name order
//
// Anything else is reported as domain.ErrMalformedEntry.
func ParseEntries(v any) ([]domain.Entry, error) {
	switch raw := v.(type) {
	case nil:
		return nil, nil
	case []string:
		entries := make([]domain.Entry, 0, len(raw))
		for _, name := range raw {
			entries = append(entries, domain.Named(name))
		}
		return entries, nil
	case []any:
		entries := make([]domain.Entry, 0, len(raw))
		for i, item := range raw {
			e, err := ParseEntry(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			entries = append(entries, e)
		}
		return entries, nil
	case map[string]any:
		names := make([]string, 0, len(raw))
		for name := range raw {
			names = append(names, name)
		}
		sort.Strings(names)

		entries := make([]domain.Entry, 0, len(raw))
		for _, name := range names {
			switch fields := raw[name].(type) {
			case nil:
				entries = append(entries, domain.Described(name, map[string]any{}))
			case map[string]any:
				entries = append(entries, domain.Described(name, withoutKeys(fields, nameField)))
			default:
				return nil, fmt.Errorf("%w: %q maps to %T", domain.ErrMalformedEntry, name, fields)
			}
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: collection of type %T", domain.ErrMalformedEntry, v)
	}
}

// ParseEntry normalises a single sequence item.
func ParseEntry(v any) (domain.Entry, error) {
	switch item := v.(type) {
	case string:
		return domain.Named(item), nil
	case map[string]any:
		name, ok := item[nameField].(string)
		if !ok {
			return domain.Entry{}, fmt.Errorf("%w: object without string name", domain.ErrMalformedEntry)
		}
		return domain.Described(name, withoutKeys(item, nameField)), nil
	default:
		return domain.Entry{}, fmt.Errorf("%w: item of type %T", domain.ErrMalformedEntry, v)
	}
}

// EntryNames returns the names of the entries in order.
func EntryNames(entries []domain.Entry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names
}

// withoutKeys deep-copies m, leaving out the given keys.
func withoutKeys(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if contains(keys, k) {
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// cloneValue deep-copies JSON-shaped values.
func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case domain.Record:
		return cloneRecord(val)
	case map[string]domain.Record:
		return cloneRecords(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return cloneStrings(val)
	default:
		return val
	}
}

func cloneRecord(r domain.Record) domain.Record {
	out := make(domain.Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneRecords(m map[string]domain.Record) map[string]domain.Record {
	out := make(map[string]domain.Record, len(m))
	for k, r := range m {
		out[k] = cloneRecord(r)
	}
	return out
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
