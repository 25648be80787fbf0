package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/indexdoc"
	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

type storedDoc struct {
	id   string
	body domain.FlatDocument
	raw  []byte
}

type memIndex struct {
	settings  domain.IndexSettings
	createdAt time.Time
	fields    map[string]struct{}
	docs      []storedDoc
}

// IndexStore is an in-memory implementation of driven.IndexStore.
type IndexStore struct {
	mu      sync.RWMutex
	indices map[string]*memIndex
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		indices: make(map[string]*memIndex),
	}
}

// IndexExists reports whether the index exists.
func (s *IndexStore) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indices[name]
	return ok, nil
}

// DeleteIndex removes an index and its documents.
func (s *IndexStore) DeleteIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indices[name]; !ok {
		return fmt.Errorf("%s: %w", name, domain.ErrIndexNotFound)
	}
	delete(s.indices, name)
	return nil
}

// CreateIndex creates an empty index.
func (s *IndexStore) CreateIndex(_ context.Context, name string, settings domain.IndexSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indices[name]; ok {
		return fmt.Errorf("%s: %w", name, domain.ErrIndexAlreadyExists)
	}
	s.indices[name] = &memIndex{
		settings:  settings,
		createdAt: time.Now().UTC(),
		fields:    make(map[string]struct{}),
	}
	return nil
}

// PutDocument adds a document to an index.
func (s *IndexStore) PutDocument(_ context.Context, index string, doc domain.FlatDocument) (string, error) {
	body, raw, err := indexdoc.Normalize(doc)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indices[index]
	if !ok {
		return "", fmt.Errorf("%s: %w", index, domain.ErrIndexNotFound)
	}

	var added []string
	for _, p := range indexdoc.FieldPaths(body) {
		if _, ok := idx.fields[p]; !ok {
			added = append(added, p)
		}
	}
	if limit := idx.settings.TotalFieldsLimit; limit > 0 && len(idx.fields)+len(added) > limit {
		return "", fmt.Errorf("%s: %w: %d > %d", index, domain.ErrFieldLimitExceeded, len(idx.fields)+len(added), limit)
	}
	for _, p := range added {
		idx.fields[p] = struct{}{}
	}

	id := uuid.New().String()
	idx.docs = append(idx.docs, storedDoc{id: id, body: body, raw: raw})
	return id, nil
}

// ListIndices returns all indices sorted by name.
func (s *IndexStore) ListIndices(_ context.Context) ([]domain.IndexInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]domain.IndexInfo, 0, len(s.indices))
	for name, idx := range s.indices {
		infos = append(infos, domain.IndexInfo{
			Name:          name,
			Settings:      idx.settings,
			DocumentCount: len(idx.docs),
			FieldCount:    len(idx.fields),
			CreatedAt:     idx.createdAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Count returns the number of documents in an index.
func (s *IndexStore) Count(_ context.Context, index string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indices[index]
	if !ok {
		return 0, fmt.Errorf("%s: %w", index, domain.ErrIndexNotFound)
	}
	return len(idx.docs), nil
}

// Search returns documents matching the query in insertion order.
func (s *IndexStore) Search(_ context.Context, index, query string, limit int) ([]domain.SearchHit, error) {
	q, err := indexdoc.ParseQuery(query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indices[index]
	if !ok {
		return nil, fmt.Errorf("%s: %w", index, domain.ErrIndexNotFound)
	}

	var hits []domain.SearchHit
	for _, d := range idx.docs {
		if limit > 0 && len(hits) >= limit {
			break
		}
		if !q.Matches(d.body, d.raw) {
			continue
		}
		hits = append(hits, domain.SearchHit{Document: domain.StoredDocument{
			ID:    d.id,
			Index: index,
			Body:  d.body.Clone(),
		}})
	}
	return hits, nil
}

// Documents returns every document body of an index in insertion order.
func (s *IndexStore) Documents(index string) []domain.FlatDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.indices[index]
	if !ok {
		return nil
	}
	out := make([]domain.FlatDocument, 0, len(idx.docs))
	for _, d := range idx.docs {
		out = append(out, d.body.Clone())
	}
	return out
}

// Close is a no-op.
func (s *IndexStore) Close() error {
	return nil
}
