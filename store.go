package ogcards

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// storedTime is the column format for publication dates. Stored in UTC so
// lexical order matches chronological order.
const storedTime = "2006-01-02T15:04:05Z"

// Store wraps a SQLite database of posts card metadata is read from.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the build read while an editor writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    author TEXT NOT NULL DEFAULT '',
    published TEXT,
    draft INTEGER NOT NULL DEFAULT 0
);
`)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(`ALTER TABLE posts ADD COLUMN author TEXT NOT NULL DEFAULT '';`); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			return nil
		}
		return err
	}
	return nil
}

const postColumns = `slug, title, author, published, draft`

// SortedPosts returns non-draft posts, newest first. Undated posts come
// last; ties are broken by slug.
func (s *Store) SortedPosts(ctx context.Context) ([]Post, error) {
	return s.query(ctx, `SELECT `+postColumns+` FROM posts WHERE draft = 0 ORDER BY published IS NULL, published DESC, slug`)
}

// ListAllPosts returns every post, drafts included, in the same order.
func (s *Store) ListAllPosts(ctx context.Context) ([]Post, error) {
	return s.query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY published IS NULL, published DESC, slug`)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (Post, error) {
	var p Post
	var published sql.NullString
	var draft int
	if err := row.Scan(&p.ID, &p.Title, &p.Author, &published, &draft); err != nil {
		return Post{}, err
	}
	if published.Valid {
		t, err := time.Parse(storedTime, published.String)
		if err != nil {
			return Post{}, err
		}
		p.Published = t
	}
	p.Draft = draft == 1
	return p, nil
}

// GetPost returns a single post by slug, drafts included.
func (s *Store) GetPost(ctx context.Context, slug string) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	return p, err
}

// SavePost upserts a post.
func (s *Store) SavePost(ctx context.Context, p Post) error {
	var published sql.NullString
	if !p.Published.IsZero() {
		published = sql.NullString{String: p.Published.UTC().Format(storedTime), Valid: true}
	}
	draft := 0
	if p.Draft {
		draft = 1
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Author, published, draft)
	return err
}

// DeletePost removes a post by slug.
func (s *Store) DeletePost(ctx context.Context, slug string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE slug = ?`, slug)
	return err
}
