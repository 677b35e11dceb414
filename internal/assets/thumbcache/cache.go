package thumbcache

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"
	_ "modernc.org/sqlite"

	"github.com/ytget/imgmg/internal/lazyload"
	"github.com/ytget/imgmg/internal/model"
	"github.com/ytget/imgmg/internal/platform"
)

// DefaultFileName is the cache database name inside the cache directory.
const DefaultFileName = "thumbnails.db"

// Current schema version; bump to drop rows written by an older layout.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS thumbnails (
    key         TEXT PRIMARY KEY,   -- xxh3 of source identity and target size
    source      TEXT NOT NULL,
    orig_width  INTEGER NOT NULL,
    orig_height INTEGER NOT NULL,
    data        BLOB NOT NULL,      -- PNG encoded thumbnail
    created_at  INTEGER NOT NULL,   -- UnixNano
    accessed_at INTEGER NOT NULL    -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_thumbnails_accessed ON thumbnails(accessed_at);
`

// Cache is a SQLite-backed thumbnail store.
type Cache struct {
	path   string
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// DefaultPath returns the cache database location under the user cache dir.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache dir: %w", err)
	}
	return filepath.Join(dir, "imgmg", DefaultFileName), nil
}

// Open opens or creates the cache database at path.
func Open(path string, opts ...Option) (*Cache, error) {
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}

	c := &Cache{path: path, db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// migrate clears thumbnails written under a different schema version
func migrate(db *sql.DB) error {
	var current int
	err := db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if current == schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM thumbnails"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return err
	}
	return tx.Commit()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Len returns the number of stored thumbnails.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM thumbnails").Scan(&n); err != nil {
		return 0, fmt.Errorf("count thumbnails: %w", err)
	}
	return n, nil
}

// Prune deletes thumbnails not read or written within olderThan and returns
// how many were removed.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()
	res, err := c.db.Exec("DELETE FROM thumbnails WHERE accessed_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune thumbnails: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune thumbnails: %w", err)
	}
	c.logger.Info("Pruned thumbnail cache", "removed", n, "older_than", olderThan.String())
	return n, nil
}

// Wrap returns a loader that serves thumbnails from the cache and falls back
// to next on a miss or any cache failure.
func (c *Cache) Wrap(next lazyload.Loader) lazyload.Loader {
	return &cachedLoader{cache: c, next: next}
}

type cachedLoader struct {
	cache *Cache
	next  lazyload.Loader
}

func (l *cachedLoader) Load(ctx context.Context, source string, target model.Size) (*model.Asset, error) {
	key, err := cacheKey(source, target)
	if err != nil {
		// Let the wrapped loader report the real problem with the file.
		return l.next.Load(ctx, source, target)
	}

	if asset, ok := l.cache.get(ctx, key, source); ok {
		return asset, nil
	}

	asset, err := l.next.Load(ctx, source, target)
	if err != nil {
		return nil, err
	}
	l.cache.put(ctx, key, asset)
	return asset, nil
}

// cacheKey hashes the file identity and target size. A changed file gets a
// new key, so stale rows are never served.
func cacheKey(source string, target model.Size) (string, error) {
	info, err := os.Stat(source)
	if err != nil {
		return "", err
	}

	h := xxh3.New()
	h.WriteString(source)
	h.WriteString("|" + strconv.FormatInt(info.Size(), 10))
	h.WriteString("|" + strconv.FormatInt(info.ModTime().UnixNano(), 10))
	h.WriteString("|" + strconv.Itoa(target.Width) + "x" + strconv.Itoa(target.Height))
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// get returns the cached asset for key. Failures count as a miss.
func (c *Cache) get(ctx context.Context, key, source string) (*model.Asset, bool) {
	var (
		origW, origH int
		data         []byte
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT orig_width, orig_height, data FROM thumbnails WHERE key = ?", key,
	).Scan(&origW, &origH, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("Thumbnail cache lookup failed", "source", source, "error", err)
		return nil, false
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		c.logger.Warn("Discarding corrupt cached thumbnail", "source", source, "error", err)
		c.delete(ctx, key)
		return nil, false
	}

	if _, err := c.db.ExecContext(ctx,
		"UPDATE thumbnails SET accessed_at = ? WHERE key = ?", time.Now().UnixNano(), key,
	); err != nil {
		c.logger.Debug("Failed to touch cached thumbnail", "source", source, "error", err)
	}

	c.logger.Debug("Thumbnail cache hit", "source", source)
	return model.NewAsset(source, img, model.Size{Width: origW, Height: origH}), true
}

// put stores asset under key; failures are logged only
func (c *Cache) put(ctx context.Context, key string, asset *model.Asset) {
	data, err := encodePNG(asset.Image)
	if err != nil {
		c.logger.Warn("Failed to encode thumbnail", "source", asset.Source, "error", err)
		return
	}

	now := time.Now().UnixNano()
	_, err = c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO thumbnails (key, source, orig_width, orig_height, data, created_at, accessed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key, asset.Source, asset.OriginalWidth, asset.OriginalHeight, data, now, now,
	)
	if err != nil {
		c.logger.Warn("Failed to store thumbnail", "source", asset.Source, "error", err)
	}
}

func (c *Cache) delete(ctx context.Context, key string) {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM thumbnails WHERE key = ?", key); err != nil {
		c.logger.Debug("Failed to delete cached thumbnail", "key", key, "error", err)
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
