package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/indexdoc"
	"github.com/custodia-labs/sdindex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sdindex/internal/core/domain"
	"github.com/custodia-labs/sdindex/internal/core/ports/driven"
)

// DatabaseFile is the name of the database inside the data directory.
const DatabaseFile = "index.db"

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Store is a SQLite-backed index store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sdindex/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sdindex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency. Foreign keys are
	// set in the DSN so every pooled connection enforces them.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_indices.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Index Writer ====================

// IndexExists reports whether the index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM indices WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking index: %w", err)
	}
	return true, nil
}

// DeleteIndex removes an index with its documents and field mappings.
func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE index_name = ?`, name); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM index_fields WHERE index_name = ?`, name); err != nil {
		return fmt.Errorf("deleting fields: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM indices WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting index: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", name, domain.ErrIndexNotFound)
	}
	return tx.Commit()
}

// CreateIndex creates an empty index.
func (s *Store) CreateIndex(ctx context.Context, name string, settings domain.IndexSettings) error {
	exists, err := s.IndexExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", name, domain.ErrIndexAlreadyExists)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO indices (name, total_fields_limit, created_at) VALUES (?, ?, ?)
	`, name, settings.TotalFieldsLimit, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}
	return nil
}

// PutDocument adds a document to an index. The document and any new field
// paths are written in one transaction, so a rejected document leaves the
// index unchanged.
func (s *Store) PutDocument(ctx context.Context, index string, doc domain.FlatDocument) (string, error) {
	body, raw, err := indexdoc.Normalize(doc)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var limit int
	err = tx.QueryRowContext(ctx, `SELECT total_fields_limit FROM indices WHERE name = ?`, index).Scan(&limit)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", index, domain.ErrIndexNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("reading index settings: %w", err)
	}

	for _, p := range indexdoc.FieldPaths(body) {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO index_fields (index_name, path) VALUES (?, ?)
		`, index, p); err != nil {
			return "", fmt.Errorf("recording field %s: %w", p, err)
		}
	}

	if limit > 0 {
		var fields int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM index_fields WHERE index_name = ?
		`, index).Scan(&fields); err != nil {
			return "", fmt.Errorf("counting fields: %w", err)
		}
		if fields > limit {
			return "", fmt.Errorf("%s: %w: %d > %d", index, domain.ErrFieldLimitExceeded, fields, limit)
		}
	}

	id := uuid.New().String()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (id, index_name, body) VALUES (?, ?, ?)
	`, id, index, string(raw)); err != nil {
		return "", fmt.Errorf("saving document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing document: %w", err)
	}
	return id, nil
}

// ==================== Index Reader ====================

// ListIndices returns all indices sorted by name.
func (s *Store) ListIndices(ctx context.Context) ([]domain.IndexInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.name, i.total_fields_limit, i.created_at,
			(SELECT COUNT(*) FROM documents d WHERE d.index_name = i.name),
			(SELECT COUNT(*) FROM index_fields f WHERE f.index_name = i.name)
		FROM indices i
		ORDER BY i.name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying indices: %w", err)
	}
	defer rows.Close()

	var infos []domain.IndexInfo //nolint:prealloc // size unknown from query
	for rows.Next() {
		var info domain.IndexInfo
		var createdAt sql.NullTime
		if err := rows.Scan(&info.Name, &info.Settings.TotalFieldsLimit, &createdAt,
			&info.DocumentCount, &info.FieldCount); err != nil {
			return nil, fmt.Errorf("scanning index: %w", err)
		}
		if createdAt.Valid {
			info.CreatedAt = createdAt.Time
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating indices: %w", err)
	}
	return infos, nil
}

// Count returns the number of documents in an index.
func (s *Store) Count(ctx context.Context, index string) (int, error) {
	exists, err := s.IndexExists(ctx, index)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("%s: %w", index, domain.ErrIndexNotFound)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM documents WHERE index_name = ?
	`, index).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Search returns documents matching the query in insertion order.
func (s *Store) Search(ctx context.Context, index, query string, limit int) ([]domain.SearchHit, error) {
	q, err := indexdoc.ParseQuery(query)
	if err != nil {
		return nil, err
	}

	exists, err := s.IndexExists(ctx, index)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", index, domain.ErrIndexNotFound)
	}

	stmt, args := searchSQL(index, q, limit)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", index, err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		body, err := indexdoc.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		hits = append(hits, domain.SearchHit{Document: domain.StoredDocument{
			ID:    id,
			Index: index,
			Body:  body,
		}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return hits, nil
}

// searchSQL builds the document query for a parsed search.
func searchSQL(index string, q indexdoc.Query, limit int) (string, []any) {
	var b strings.Builder
	args := []any{index}

	b.WriteString(`SELECT id, body FROM documents WHERE index_name = ?`)
	for _, ft := range q.Fields {
		path := indexdoc.JSONPath(ft.Field)
		// A nil Number binds NULL, so number fields never match a
		// non-numeric value.
		b.WriteString(` AND CASE json_type(body, ?)`)
		b.WriteString(` WHEN 'text' THEN json_extract(body, ?) = ?`)
		b.WriteString(` WHEN 'integer' THEN json_extract(body, ?) = ?`)
		b.WriteString(` WHEN 'real' THEN json_extract(body, ?) = ?`)
		b.WriteString(` ELSE 0 END`)
		args = append(args, path, path, ft.Value, path, ft.Number, path, ft.Number)
	}
	for _, term := range q.Terms {
		b.WriteString(` AND LOWER(body) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(term))+"%")
	}
	b.WriteString(` ORDER BY seq`)
	if limit > 0 {
		b.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
