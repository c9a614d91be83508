package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Freshness windows per artifact kind. Search results go stale faster than
// product pages (stock, price, ranking all move).
const (
	ProductTTL = 24 * time.Hour
	SearchTTL  = time.Hour
)

// Cache stores one JSON artifact per (kind, key) under a directory. Freshness
// is judged from the file's modification time, so no timestamp is persisted
// inside the artifact.
type Cache struct {
	dir         string
	readEnabled bool
	logger      *slog.Logger
}

// New creates a cache rooted at dir. When bypassRead is true, lookups always
// miss but writes still happen, so a forced refresh repopulates the cache.
func New(dir string, bypassRead bool) *Cache {
	return &Cache{
		dir:         dir,
		readEnabled: !bypassRead,
		logger:      slog.Default().With("component", "cache"),
	}
}

// GetProduct loads a cached product record into v. A false return is a miss;
// stale, unreadable and unparseable artifacts are all misses, never errors.
func (c *Cache) GetProduct(productID string, v any) bool {
	return c.read(c.productPath(productID), ProductTTL, v)
}

// SetProduct stores a product record.
func (c *Cache) SetProduct(productID string, v any) error {
	return c.write(c.productPath(productID), v)
}

// GetSearch loads a cached search result for the normalized query tuple.
func (c *Cache) GetSearch(query, sortKey, category string, v any) bool {
	return c.read(c.searchPath(query, sortKey, category), SearchTTL, v)
}

// SetSearch stores a search result.
func (c *Cache) SetSearch(query, sortKey, category string, v any) error {
	return c.write(c.searchPath(query, sortKey, category), v)
}

func (c *Cache) productPath(productID string) string {
	return filepath.Join(c.dir, fmt.Sprintf("product_%s.json", productID))
}

func (c *Cache) searchPath(query, sortKey, category string) string {
	return filepath.Join(c.dir, fmt.Sprintf("search_%s.json", SearchKey(query, sortKey, category)))
}

// SearchKey digests the query tuple to a short fixed-length key so cache file
// names stay bounded regardless of query length.
func SearchKey(query, sortKey, category string) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte(sortKey))
	if category != "" {
		h.Write([]byte(category))
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

func (c *Cache) read(path string, ttl time.Duration, v any) bool {
	if !c.readEnabled {
		return false
	}

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) >= ttl {
		c.logger.Debug("cache expired", "path", path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("cache parse error", "path", path, "error", err)
		return false
	}

	c.logger.Info("cache hit", "path", path)
	return true
}

func (c *Cache) write(path string, v any) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache artifact: %w", err)
	}

	// Write through a temp file so readers never see a partial artifact.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache artifact: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to finalize cache artifact: %w", err)
	}

	c.logger.Debug("cached", "path", path)
	return nil
}
