package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatDocument_String(t *testing.T) {
	doc := FlatDocument{
		FieldMetric:    "cpu.idle",
		FieldDimension: nil,
		"default":      true,
	}

	assert.Equal(t, "cpu.idle", doc.String(FieldMetric))
	assert.Empty(t, doc.String(FieldDimension), "nil is not a string")
	assert.Empty(t, doc.String("default"), "bool is not a string")
	assert.Empty(t, doc.String("missing"))
}
