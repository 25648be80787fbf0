package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/indexdoc"
	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// mustNormalize returns the normalised body and its JSON text.
func mustNormalize(t *testing.T, doc domain.FlatDocument) (domain.FlatDocument, string) {
	t.Helper()
	body, raw, err := indexdoc.Normalize(doc)
	require.NoError(t, err)
	return body, string(raw)
}
