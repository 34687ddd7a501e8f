package sportsdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func TestResponseCache(t *testing.T) {
	t.Run("GetAfterSet", func(t *testing.T) {
		c := newResponseCache(t.TempDir(), 24*time.Hour, zap.NewNop())

		key := cacheKey("eventsseason.php?id=4370&s=2024")
		c.Set(key, []byte(`{"events":[]}`))

		got, ok := c.Get(key)
		if !ok {
			t.Fatal("Get() after Set() = absent, want present")
		}
		if diff := cmp.Diff(`{"events":[]}`, string(got)); diff != "" {
			t.Errorf("Get() payload mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ExpiresAfterTTL", func(t *testing.T) {
		c := newResponseCache(t.TempDir(), 7*24*time.Hour, zap.NewNop())

		key := cacheKey("all_leagues.php")
		c.Set(key, []byte(`{"leagues":null}`))

		// Advance the clock past the TTL boundary and drop the memory
		// tier so the disk entry's age decides.
		c.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
		c.mem.Flush()

		if _, ok := c.Get(key); ok {
			t.Error("Get() past TTL = present, want absent")
		}

		// The stale entry is purged as a side effect.
		path := filepath.Join(c.dir, key+".json")
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("stale entry still on disk at %s", path)
		}
	})

	t.Run("CorruptEntryIsMiss", func(t *testing.T) {
		dir := t.TempDir()
		c := newResponseCache(dir, 24*time.Hour, zap.NewNop())

		key := cacheKey("lookupevent.php?id=1")
		if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, ok := c.Get(key); ok {
			t.Error("Get() on corrupt entry = present, want absent")
		}
		if _, err := os.Stat(filepath.Join(dir, key+".json")); !os.IsNotExist(err) {
			t.Error("corrupt entry was not removed")
		}

		// A fresh write repopulates the same key.
		c.Set(key, []byte(`{}`))
		if _, ok := c.Get(key); !ok {
			t.Error("Get() after repopulating = absent, want present")
		}
	})

	t.Run("ClearRemovesEverything", func(t *testing.T) {
		dir := t.TempDir()
		c := newResponseCache(dir, 24*time.Hour, zap.NewNop())

		c.Set(cacheKey("a"), []byte("1"))
		c.Set(cacheKey("b"), []byte("2"))
		c.Clear()

		if _, ok := c.Get(cacheKey("a")); ok {
			t.Error("Get(a) after Clear() = present, want absent")
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Errorf("cache dir holds %d files after Clear(), want 0", len(entries))
		}
	})

	t.Run("DisabledDiskTierStillServesMemory", func(t *testing.T) {
		c := newResponseCache("", 24*time.Hour, zap.NewNop())
		c.Set(cacheKey("k"), []byte("v"))
		if got, ok := c.Get(cacheKey("k")); !ok || string(got) != "v" {
			t.Errorf("Get() = %q, %v, want %q, true", got, ok, "v")
		}
	})
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("eventsseason.php?id=4370&s=2024")
	b := cacheKey("eventsseason.php?id=4370&s=2025")

	if a == b {
		t.Error("distinct signatures produced the same key")
	}
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(a))
	}
	if a != cacheKey("eventsseason.php?id=4370&s=2024") {
		t.Error("key derivation is not stable")
	}
}
