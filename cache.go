package sportsdb

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// cacheEnvelope is the on-disk shape of one cached response.
type cacheEnvelope struct {
	CachedAt time.Time       `json:"cached_at"`
	Payload  json.RawMessage `json:"payload"`
}

// responseCache stores raw API responses keyed by the SHA-256 of the full
// request URL. A go-cache memory tier fronts a per-entry file tier; both
// share the same TTL. Every failure mode (missing dir, corrupt file,
// unwritable disk) degrades to a cache miss and the caller fetches live.
type responseCache struct {
	dir string
	ttl time.Duration
	mem *gocache.Cache
	log *zap.Logger

	now func() time.Time
}

// newResponseCache creates a cache rooted at dir with the given TTL.
// An empty dir disables the disk tier.
func newResponseCache(dir string, ttl time.Duration, log *zap.Logger) *responseCache {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Warn("cache directory unavailable, disk tier disabled",
				zap.String("dir", dir), zap.Error(err))
			dir = ""
		}
	}
	return &responseCache{
		dir: dir,
		ttl: ttl,
		mem: gocache.New(ttl, 10*time.Minute),
		log: log,
		now: time.Now,
	}
}

// cacheKey derives the fixed-length, filesystem-safe key for a request
// signature. The signature already includes the API key (it is part of the
// request path), so different keys never collide.
func cacheKey(signature string) string {
	sum := sha256.Sum256([]byte(signature))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for key, or false when the entry is
// absent, expired, or unreadable. Expired and corrupt disk entries are
// removed as a side effect.
func (c *responseCache) Get(key string) ([]byte, bool) {
	if v, ok := c.mem.Get(key); ok {
		if payload, ok := v.([]byte); ok {
			return payload, true
		}
	}

	if c.dir == "" {
		return nil, false
	}

	path := filepath.Join(c.dir, key+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var env cacheEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.Debug("removing corrupt cache entry", zap.String("key", key))
		os.Remove(path)
		return nil, false
	}

	if c.now().Sub(env.CachedAt) > c.ttl {
		os.Remove(path)
		return nil, false
	}

	c.mem.Set(key, []byte(env.Payload), gocache.DefaultExpiration)
	return env.Payload, true
}

// Set writes the payload under key, resetting its age. Writes go through a
// temp file and rename so concurrent writers to the same key can race
// without leaving a torn entry behind.
func (c *responseCache) Set(key string, payload []byte) {
	c.mem.Set(key, payload, gocache.DefaultExpiration)

	if c.dir == "" {
		return
	}

	raw, err := json.Marshal(cacheEnvelope{CachedAt: c.now(), Payload: payload})
	if err != nil {
		return
	}

	path := filepath.Join(c.dir, key+".json")
	tmp, err := os.CreateTemp(c.dir, key+".*")
	if err != nil {
		c.log.Debug("cache write skipped", zap.String("key", key), zap.Error(err))
		return
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return
	}
	tmp.Close()
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
	}
}

// Clear removes every entry from both tiers. Used for forced refresh.
func (c *responseCache) Clear() {
	c.mem.Flush()

	if c.dir == "" {
		return
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		os.Remove(filepath.Join(c.dir, entry.Name()))
	}
}

// defaultCacheDir returns the per-user cache location.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "sportsdb_cache")
}
