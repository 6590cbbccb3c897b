package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
	"go.uber.org/zap"
)

// OriginCache marks fragments served from the content cache
const OriginCache = "cache"

// cachePrefix namespaces content entries in the cache file
const cachePrefix = "content"

// Cache stores generated section JSON in a buntdb file.
type Cache struct {
	path string
	db   *buntdb.DB
}

// OpenCache opens (or creates) the cache at path. ":memory:" keeps it in memory.
func OpenCache(path string) (*Cache, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content cache %s: %w", path, err)
	}
	return &Cache{path: path, db: db}, nil
}

// Close flushes and closes the cache file.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached value for key.
func (c *Cache) Get(key string) (string, bool, error) {
	var value string
	err := c.db.View(func(tx *buntdb.Tx) error {
		v, err := tx.Get(key)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key. A positive ttl expires the entry.
func (c *Cache) Set(key, value string, ttl time.Duration) error {
	var opts *buntdb.SetOptions
	if ttl > 0 {
		opts = &buntdb.SetOptions{Expires: true, TTL: ttl}
	}
	return c.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, value, opts)
		return err
	})
}

// Len returns the number of live entries.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	return n, err
}

// CacheKey derives the cache key for a section prompt.
func CacheKey(section Section, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return cachePrefix + ":" + string(section) + ":" + hex.EncodeToString(sum[:])
}

// CachedSource serves repeated prompts from a Cache and stores fresh results.
// Cache errors are logged and never fail a request.
type CachedSource struct {
	next   Source
	cache  *Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSource wraps next with cache.
func NewCachedSource(next Source, cache *Cache, ttl time.Duration, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{next: next, cache: cache, ttl: ttl, logger: logger}
}

// Generate returns a cached fragment when present, otherwise asks next.
func (s *CachedSource) Generate(ctx context.Context, req Request) (*Fragment, error) {
	key := CacheKey(req.Section, req.Prompt)

	if value, ok, err := s.cache.Get(key); err != nil {
		s.logger.Debug("content cache read failed", zap.String("section", string(req.Section)), zap.Error(err))
	} else if ok {
		frag, err := DecodeFragment(req.Section, []byte(value))
		if err == nil {
			frag.Origin = OriginCache
			return frag, nil
		}
		s.logger.Debug("discarding invalid cache entry", zap.String("section", string(req.Section)), zap.Error(err))
	}

	frag, err := s.next.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(frag.Value())
	if err != nil {
		s.logger.Debug("content cache encode failed", zap.String("section", string(req.Section)), zap.Error(err))
		return frag, nil
	}
	if err := s.cache.Set(key, string(data), s.ttl); err != nil {
		s.logger.Debug("content cache write failed", zap.String("section", string(req.Section)), zap.Error(err))
	}
	return frag, nil
}
