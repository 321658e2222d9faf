// Package sqlite implements the record store over a local SQLite file.
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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/commentdex/commentdex/internal/domain/comment"
	"github.com/commentdex/commentdex/internal/store"
	"github.com/commentdex/commentdex/internal/store/sqlite/migrations"
)

// defaultFetchLimit bounds FetchRange when the caller passes no limit.
const defaultFetchLimit = 500

const (
	opOpen       = "open"
	opMigrate    = "migrate"
	opGet        = "select_comment"
	opFetchRange = "select_range"
	opFetchMeta  = "select_meta"
	opCount      = "count_comments"
	opPing       = "ping"
)

const commentColumns = `comment_id, post_id, author, author_email, author_url, author_ip,
	created_at, created_at_gmt, content, karma, approved, agent, type,
	parent_id, user_id, post_status, post_type, post_name, post_parent, post_author_id`

// Store reads comment rows from a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens the database at path, creating the file and its parent
// directory when missing, and applies pending migrations. An empty path
// defaults to commentdex.db in the working directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "commentdex.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &store.Error{Op: opOpen, Err: err}
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, &store.Error{Op: opOpen, Err: err}
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, &store.Error{Op: opMigrate, Err: err}
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// migrate applies the embedded up migrations that are newer than the
// recorded schema version, in file order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Get returns one comment by id, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*comment.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE comment_id = ?", id)

	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &store.Error{Op: opGet, Err: store.ErrNotFound}
		}
		return nil, &store.Error{Op: opGet, Err: err}
	}

	if err := s.foldMeta(ctx, []*comment.Comment{&c}); err != nil {
		return nil, err
	}
	return &c, nil
}

// FetchRange returns up to limit comments with ids greater than afterID,
// ordered by id ascending. A non-positive limit uses the default.
func (s *Store) FetchRange(ctx context.Context, afterID int64, limit int) ([]comment.Comment, error) {
	if limit <= 0 {
		limit = defaultFetchLimit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE comment_id > ? ORDER BY comment_id LIMIT ?",
		afterID, limit)
	if err != nil {
		return nil, &store.Error{Op: opFetchRange, Err: err}
	}
	defer rows.Close()

	var comments []comment.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, &store.Error{Op: opFetchRange, Err: err}
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &store.Error{Op: opFetchRange, Err: err}
	}

	refs := make([]*comment.Comment, len(comments))
	for i := range comments {
		refs[i] = &comments[i]
	}
	if err := s.foldMeta(ctx, refs); err != nil {
		return nil, err
	}
	return comments, nil
}

// Count returns the number of stored comments.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&n); err != nil {
		return 0, &store.Error{Op: opCount, Err: err}
	}
	return n, nil
}

// Ping verifies the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &store.Error{Op: opPing, Err: err}
	}
	return nil
}

// foldMeta loads the side-table rows for the given comments and attaches
// them as Comment.Meta, preserving per-key insertion order.
func (s *Store) foldMeta(ctx context.Context, comments []*comment.Comment) error {
	if len(comments) == 0 {
		return nil
	}

	byID := make(map[int64]*comment.Comment, len(comments))
	args := make([]any, 0, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
		args = append(args, c.ID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")

	rows, err := s.db.QueryContext(ctx,
		"SELECT comment_id, meta_key, meta_value FROM comment_meta WHERE comment_id IN ("+placeholders+") ORDER BY meta_id",
		args...)
	if err != nil {
		return &store.Error{Op: opFetchMeta, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         int64
			key, value string
		)
		if err := rows.Scan(&id, &key, &value); err != nil {
			return &store.Error{Op: opFetchMeta, Err: err}
		}
		c, ok := byID[id]
		if !ok {
			continue
		}
		if c.Meta == nil {
			c.Meta = make(map[string][]string)
		}
		c.Meta[key] = append(c.Meta[key], value)
	}
	if err := rows.Err(); err != nil {
		return &store.Error{Op: opFetchMeta, Err: err}
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanComment(row scanner) (comment.Comment, error) {
	var (
		c                     comment.Comment
		createdAt, createdGMT string
	)
	err := row.Scan(
		&c.ID, &c.PostID, &c.Author, &c.AuthorEmail, &c.AuthorURL, &c.AuthorIP,
		&createdAt, &createdGMT, &c.Content, &c.Karma, &c.Approved, &c.Agent,
		&c.Type, &c.Parent, &c.UserID, &c.PostStatus, &c.PostType, &c.PostName,
		&c.PostParent, &c.PostAuthorID,
	)
	if err != nil {
		return comment.Comment{}, err
	}
	c.Date = parseStoredTime(createdAt)
	c.DateGMT = parseStoredTime(createdGMT)
	return c, nil
}

// parseStoredTime reads the stored timestamp text; unparsable values
// yield the zero time rather than an error.
func parseStoredTime(s string) time.Time {
	ts, err := time.Parse(comment.DateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
