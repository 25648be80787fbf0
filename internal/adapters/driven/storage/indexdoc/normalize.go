package indexdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// Normalize encodes a document to JSON and decodes it back into plain
// JSON values, so stores hold the same shape regardless of the Go types the
// generators used. Numbers are kept as json.Number.
func Normalize(doc domain.FlatDocument) (domain.FlatDocument, []byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding document: %w", err)
	}
	body, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return body, data, nil
}

// Decode parses a stored JSON body.
func Decode(data []byte) (domain.FlatDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var body domain.FlatDocument
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if body == nil {
		body = domain.FlatDocument{}
	}
	return body, nil
}

// FieldPaths returns every distinct dotted field path in a normalised
// document, objects included, in sorted order. Array elements share their
// parent's path.
func FieldPaths(doc domain.FlatDocument) []string {
	seen := make(map[string]struct{})
	collectPaths(map[string]any(doc), "", seen)

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func collectPaths(v any, prefix string, seen map[string]struct{}) {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			seen[path] = struct{}{}
			collectPaths(child, path, seen)
		}
	case domain.FlatDocument:
		collectPaths(map[string]any(val), prefix, seen)
	case []any:
		for _, item := range val {
			collectPaths(item, prefix, seen)
		}
	}
}
