// ABOUTME: Tests for the SQLite cache backend
// ABOUTME: Verifies TTL expiry, no refresh on read, purge and namespace counts
package sqlite

import (
	"context"
	"testing"
	"time"
)

func newTestCacheStore(t *testing.T) (*CacheStore, *time.Time) {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC)
	store := NewCacheStore(db)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestCacheStore_SetGet(t *testing.T) {
	store, _ := newTestCacheStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "orbit:embedding:abc", []byte(`[1,2]`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	payload, ok, err := store.Get(ctx, "orbit:embedding:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() reported miss for fresh entry")
	}
	if string(payload) != `[1,2]` {
		t.Errorf("payload = %s, want [1,2]", payload)
	}

	_, ok, err = store.Get(ctx, "orbit:embedding:missing")
	if err != nil || ok {
		t.Errorf("Get(missing) = (ok=%v, err=%v), want miss", ok, err)
	}
}

func TestCacheStore_Expiry(t *testing.T) {
	store, now := newTestCacheStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "orbit:magnet:k", []byte(`[]`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Reads inside the TTL must not push expiry out
	*now = now.Add(50 * time.Minute)
	if _, ok, _ := store.Get(ctx, "orbit:magnet:k"); !ok {
		t.Fatal("entry should still be live at 50m")
	}

	*now = now.Add(11 * time.Minute)
	if _, ok, _ := store.Get(ctx, "orbit:magnet:k"); ok {
		t.Error("entry should have expired at 61m despite the earlier read")
	}

	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("PurgeExpired() = %d, want 1", purged)
	}
}

func TestCacheStore_Overwrite(t *testing.T) {
	store, _ := newTestCacheStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "orbit:card:x", []byte("old"), time.Hour)
	_ = store.Set(ctx, "orbit:card:x", []byte("new"), time.Hour)

	payload, ok, _ := store.Get(ctx, "orbit:card:x")
	if !ok || string(payload) != "new" {
		t.Errorf("Get() = (%s, %v), want (new, true)", payload, ok)
	}
}

func TestCacheStore_CountByNamespace(t *testing.T) {
	store, _ := newTestCacheStore(t)
	ctx := context.Background()

	_ = store.Set(ctx, "orbit:card:a", []byte("1"), time.Hour)
	_ = store.Set(ctx, "orbit:card:b", []byte("2"), time.Hour)
	_ = store.Set(ctx, "orbit:embedding:c", []byte("3"), time.Hour)

	counts, err := store.CountByNamespace(ctx)
	if err != nil {
		t.Fatalf("CountByNamespace() error = %v", err)
	}
	if counts["card"] != 2 || counts["embedding"] != 1 {
		t.Errorf("CountByNamespace() = %v, want card=2 embedding=1", counts)
	}
}

func TestCacheStore_ClosedDatabaseErrors(t *testing.T) {
	store, _ := newTestCacheStore(t)
	_ = store.db.Close()

	if _, _, err := store.Get(context.Background(), "orbit:card:a"); err == nil {
		t.Error("Get() on closed database should return an error")
	}
	if err := store.Set(context.Background(), "orbit:card:a", []byte("x"), time.Hour); err == nil {
		t.Error("Set() on closed database should return an error")
	}
}

func TestNamespaceOf(t *testing.T) {
	tests := map[string]string{
		"orbit:card:abc":   "card",
		"orbit:magnet:def": "magnet",
		"bare":             "",
	}
	for key, want := range tests {
		if got := namespaceOf(key); got != want {
			t.Errorf("namespaceOf(%q) = %q, want %q", key, got, want)
		}
	}
}
