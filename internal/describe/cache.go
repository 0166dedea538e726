package describe

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// Cache wraps a Provider with a SQLite-backed cache keyed by document name
// and a hash of its extracted text, so unchanged documents do not hit the
// model on every rebuild. Cache faults degrade to a pass-through call;
// they never fail a build.
type Cache struct {
	db    *sql.DB
	inner Provider
}

// NewCache opens (or creates) the cache database at dbPath. Use ":memory:"
// for an ephemeral cache.
func NewCache(dbPath string, inner Provider) (*Cache, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single pooled connection: SQLite allows one writer, and a ":memory:"
	// database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	c := &Cache{db: db, inner: inner}
	if err := c.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS descriptions (
		document TEXT NOT NULL,
		text_hash TEXT NOT NULL,
		provider TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (document, text_hash, provider)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

func (c *Cache) Name() string {
	return c.inner.Name() + "+cache"
}

func (c *Cache) Describe(ctx context.Context, name, text string) (string, error) {
	hash := textHash(text)

	if desc, ok := c.lookup(ctx, name, hash); ok {
		return desc, nil
	}

	desc, err := c.inner.Describe(ctx, name, text)
	if err != nil {
		return "", err
	}
	if desc != "" {
		c.store(ctx, name, hash, desc)
	}
	return desc, nil
}

func (c *Cache) lookup(ctx context.Context, name, hash string) (string, bool) {
	var desc string
	err := c.db.QueryRowContext(ctx,
		"SELECT description FROM descriptions WHERE document = ? AND text_hash = ? AND provider = ?",
		name, hash, c.inner.Name(),
	).Scan(&desc)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("Description cache lookup failed", logfields.Document(name), logfields.Error(err))
		}
		return "", false
	}
	return desc, true
}

func (c *Cache) store(ctx context.Context, name, hash, desc string) {
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO descriptions (document, text_hash, provider, description, created_at) VALUES (?, ?, ?, ?, ?)",
		name, hash, c.inner.Name(), desc, time.Now().Unix(),
	)
	if err != nil {
		slog.Warn("Description cache store failed", logfields.Document(name), logfields.Error(err))
	}
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func textHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
