package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
)

// Ensure SourceStore and RawCache implement the interfaces.
var (
	_ driven.SourceStore = (*SourceStore)(nil)
	_ driven.RawCache    = (*RawCache)(nil)
)

// SourceStore is an in-memory implementation of driven.SourceStore.
// Versions are returned in the order they were added.
type SourceStore struct {
	mu       sync.RWMutex
	versions []domain.Version
	docs     map[string]domain.SelfDescribe
	errs     map[string]error
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		docs: make(map[string]domain.SelfDescribe),
		errs: make(map[string]error),
	}
}

// Add registers a version with its document. A nil document makes the
// version absent.
func (s *SourceStore) Add(v domain.Version, doc domain.SelfDescribe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[v.Commit]; !ok {
		s.versions = append(s.versions, v)
	}
	s.docs[v.Commit] = doc
}

// AddJSON registers a version whose document is given as JSON text.
func (s *SourceStore) AddJSON(v domain.Version, data string) error {
	doc, err := domain.DecodeSelfDescribe([]byte(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", v, err)
	}
	s.Add(v, doc)
	return nil
}

// FailFetch makes Fetch return err for the version.
func (s *SourceStore) FailFetch(v domain.Version, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[v.Commit] = err
}

// Versions returns the registered versions.
func (s *SourceStore) Versions(_ context.Context) ([]domain.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Version, len(s.versions))
	copy(out, s.versions)
	return out, nil
}

// Fetch returns the document of a version.
func (s *SourceStore) Fetch(_ context.Context, v domain.Version) (domain.SelfDescribe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.errs[v.Commit]; ok {
		return nil, err
	}
	doc, ok := s.docs[v.Commit]
	if !ok || doc == nil {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// RawCache is an in-memory implementation of driven.RawCache.
type RawCache struct {
	mu   sync.RWMutex
	docs map[string]domain.SelfDescribe
}

// NewRawCache creates a new in-memory raw cache.
func NewRawCache() *RawCache {
	return &RawCache{docs: make(map[string]domain.SelfDescribe)}
}

// Get returns the cached document.
func (c *RawCache) Get(_ context.Context, v domain.Version) (domain.SelfDescribe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[v.Commit]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// Put stores a document.
func (c *RawCache) Put(_ context.Context, v domain.Version, doc domain.SelfDescribe) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[v.Commit] = doc
	return nil
}

// Len returns the number of cached documents.
func (c *RawCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
