package indexdoc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// FieldTerm requires a top-level field to equal a value. Text fields
// compare with Value as written; number fields compare numerically with
// Number, which is nil when Value is not a number.
type FieldTerm struct {
	Field  string
	Value  string
	Number any // int64 or float64
}

// Query is a parsed search query.
type Query struct {
	// Fields are field:value terms, matched exactly against top-level
	// string or number fields.
	Fields []FieldTerm

	// Terms are free terms, matched case-insensitively anywhere in the
	// JSON body.
	Terms []string
}

// ParseQuery splits a query on whitespace into field and free terms.
// An empty query matches every document.
func ParseQuery(q string) (Query, error) {
	var out Query
	for _, tok := range strings.Fields(q) {
		field, value, ok := strings.Cut(tok, ":")
		if !ok || field == "" {
			out.Terms = append(out.Terms, tok)
			continue
		}
		if strings.ContainsAny(field, `"\`) {
			return Query{}, fmt.Errorf("%w: field name %q", domain.ErrInvalidInput, field)
		}
		out.Fields = append(out.Fields, FieldTerm{Field: field, Value: value, Number: parseNumber(value)})
	}
	return out, nil
}

// Matches evaluates the query against a normalised document and its JSON
// encoding.
func (q Query) Matches(doc domain.FlatDocument, raw []byte) bool {
	for _, ft := range q.Fields {
		if !fieldEquals(doc[ft.Field], ft) {
			return false
		}
	}
	if len(q.Terms) == 0 {
		return true
	}
	body := strings.ToLower(string(raw))
	for _, term := range q.Terms {
		if !strings.Contains(body, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func fieldEquals(v any, ft FieldTerm) bool {
	switch val := v.(type) {
	case string:
		return val == ft.Value
	case json.Number:
		return ft.Number != nil && numbersEqual(parseNumber(val.String()), ft.Number)
	default:
		return false
	}
}

// parseNumber reads s as an int64 when it is an integer literal in range,
// otherwise as a float64. It returns nil when s is not a number.
func parseNumber(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return nil
}

// numbersEqual compares two parsed numbers the way SQLite compares an
// integer with a real: exactly when both are integers, as float64 otherwise.
func numbersEqual(a, b any) bool {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	if aInt && bInt {
		return ai == bi
	}
	return toFloat(a) == toFloat(b)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// JSONPath returns the SQLite JSON path selecting a top-level field.
func JSONPath(field string) string {
	return `$."` + field + `"`
}
