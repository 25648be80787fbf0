package localfs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
)

// File names inside a version directory.
const (
	DocumentFile = "selfdescribe.json"
	MetadataFile = "version.yaml"
)

// Ensure Cache implements the interface.
var _ driven.RawCache = (*Cache)(nil)

// versionMeta is the on-disk form of domain.Version.
type versionMeta struct {
	ReleaseTag  string    `yaml:"release_tag"`
	Commit      string    `yaml:"commit"`
	PublishedAt time.Time `yaml:"published_at,omitempty"`
}

// Cache is a filesystem-backed raw document cache.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir.
// If dir is empty, defaults to ~/.sdindex/downloads.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".sdindex", "downloads")
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// VersionDir returns the directory holding a version's files.
func (c *Cache) VersionDir(v domain.Version) string {
	tag := v.ReleaseTag
	if tag == "" {
		tag = domain.UntaggedRelease
	}
	return filepath.Join(c.dir, tag, v.Commit)
}

// Get returns the cached document.
func (c *Cache) Get(_ context.Context, v domain.Version) (domain.SelfDescribe, error) {
	if v.Commit == "" {
		return nil, fmt.Errorf("%w: version has no commit", domain.ErrInvalidInput)
	}
	path := filepath.Join(c.VersionDir(v), DocumentFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := domain.DecodeSelfDescribe(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}

// Put stores a document and its version metadata.
func (c *Cache) Put(_ context.Context, v domain.Version, doc domain.SelfDescribe) error {
	if v.Commit == "" {
		return fmt.Errorf("%w: version has no commit", domain.ErrInvalidInput)
	}
	dir := c.VersionDir(v)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, DocumentFile), data); err != nil {
		return err
	}

	meta, err := yaml.Marshal(versionMeta{
		ReleaseTag:  v.ReleaseTag,
		Commit:      v.Commit,
		PublishedAt: v.PublishedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding version metadata: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, MetadataFile), meta)
}

// readMeta loads version metadata from a version directory. A missing file
// yields ok == false.
func readMeta(dir string) (versionMeta, bool, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if errors.Is(err, fs.ErrNotExist) {
		return versionMeta{}, false, nil
	}
	if err != nil {
		return versionMeta{}, false, fmt.Errorf("reading version metadata: %w", err)
	}
	var meta versionMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return versionMeta{}, false, fmt.Errorf("decoding version metadata in %s: %w", dir, err)
	}
	return meta, true, nil
}

// writeFileAtomic writes data to a temporary file and renames it into place
// so readers never observe a partial document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
