// ABOUTME: Unit tests for the KV-backed vector store and cache
// ABOUTME: Runs against an in-memory KV so no charm account is needed
package storage

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harper/orbit/internal/models"
)

type memoryKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	failing bool
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: make(map[string][]byte)}
}

func (m *memoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errors.New("kv offline")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("kv offline")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (m *memoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryKV) ListKeys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errors.New("kv offline")
	}
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func unitVector(idx int) models.EmbeddingVector {
	v := make(models.EmbeddingVector, models.EmbeddingDimension)
	v[idx] = 1.0
	return v
}

// Both implementations must satisfy the contract
var _ VectorStore = (*KVVectorStore)(nil)

func TestKVVectorStore_PutGet(t *testing.T) {
	kv := newMemoryKV()
	store := NewKVVectorStore(kv)
	ctx := context.Background()

	card := models.StoredCard{
		ID:        "a1b2c3d4",
		Title:     "Beach bungalow",
		Category:  "apartment",
		Summary:   "Steps from the sand",
		Embedding: unitVector(3),
	}
	if err := store.Put(ctx, card); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	raw := string(kv.data["card:a1b2c3d4"])
	for _, field := range []string{`"title"`, `"category"`, `"summary"`, `"embedding"`} {
		if !strings.Contains(raw, field) {
			t.Errorf("stored document missing %s: %s", field, raw)
		}
	}
	if strings.Contains(raw, `"id"`) {
		t.Errorf("stored document should be addressed by key, not carry an id: %s", raw)
	}

	if n, err := store.Count(ctx); err != nil || n != 1 {
		t.Errorf("Count() = (%d, %v), want (1, nil)", n, err)
	}

	got, err := store.Get(ctx, "a1b2c3d4")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.ID != "a1b2c3d4" || got.Title != "Beach bungalow" {
		t.Fatalf("Get() = %+v", got)
	}
	if len(got.Embedding) != models.EmbeddingDimension || got.Embedding[3] != 1 {
		t.Errorf("embedding did not round-trip")
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("Get(missing) = (%v, %v), want (nil, nil)", missing, err)
	}

	if err := store.Delete(ctx, "a1b2c3d4"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got, _ := store.Get(ctx, "a1b2c3d4"); got != nil {
		t.Error("Get() after Delete() should be nil")
	}
}

func TestKVVectorStore_PutValidation(t *testing.T) {
	store := NewKVVectorStore(newMemoryKV())
	ctx := context.Background()

	err := store.Put(ctx, models.StoredCard{ID: "x", Embedding: models.EmbeddingVector{1, 2, 3}})
	if !errors.Is(err, models.ErrInvalidDimension) {
		t.Errorf("Put() error = %v, want ErrInvalidDimension", err)
	}
	if err := store.Put(ctx, models.StoredCard{Embedding: unitVector(0)}); err == nil {
		t.Error("Put() without id should fail")
	}
}

func TestKVVectorStore_GetErrors(t *testing.T) {
	kv := newMemoryKV()
	store := NewKVVectorStore(kv)

	kv.data["card:bad"] = []byte("{not json")
	if _, err := store.Get(context.Background(), "bad"); err == nil {
		t.Error("Get() should fail on a corrupt document")
	}

	kv.failing = true
	if _, err := store.Get(context.Background(), "any"); err == nil {
		t.Error("Get() should surface KV errors")
	}
}

func TestKVVectorStore_SearchNearest(t *testing.T) {
	kv := newMemoryKV()
	store := NewKVVectorStore(kv)
	ctx := context.Background()

	near := make(models.EmbeddingVector, models.EmbeddingDimension)
	near[0], near[1] = 0.9, 0.1

	for _, c := range []models.StoredCard{
		{ID: "exact", Embedding: unitVector(0)},
		{ID: "orthogonal", Embedding: unitVector(1)},
		{ID: "near", Embedding: near},
	} {
		if err := store.Put(ctx, c); err != nil {
			t.Fatalf("Put(%s) error = %v", c.ID, err)
		}
	}
	// Non-card keys and corrupt documents are skipped
	kv.data["cache:orbit:card:zz"] = []byte("{}")
	kv.data["card:corrupt"] = []byte("nope")

	results, err := store.SearchNearest(ctx, unitVector(0), 2)
	if err != nil {
		t.Fatalf("SearchNearest() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ID != "exact" || results[1].ID != "near" {
		t.Errorf("order = [%s %s], want [exact near]", results[0].ID, results[1].ID)
	}
	if math.Abs(results[0].Score-1) > 1e-6 {
		t.Errorf("exact score = %v, want 1", results[0].Score)
	}

	all, err := store.SearchNearest(ctx, unitVector(0), 0)
	if err != nil {
		t.Fatalf("SearchNearest(k=0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("SearchNearest(k=0) = %d results, want 3", len(all))
	}

	kv.failing = true
	if _, err := store.SearchNearest(ctx, unitVector(0), 1); err == nil {
		t.Error("SearchNearest() should fail when keys cannot be listed")
	}
}

func TestKVCache_Expiry(t *testing.T) {
	kv := newMemoryKV()
	c := NewKVCache(kv)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "orbit:magnet:k", []byte(`[{"id":"a","relevance":0.5}]`), time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := kv.data["cache:orbit:magnet:k"]; !ok {
		t.Fatal("entry not stored under cache: prefix")
	}

	payload, ok, err := c.Get(ctx, "orbit:magnet:k")
	if err != nil || !ok {
		t.Fatalf("Get() = (ok=%v, err=%v), want hit", ok, err)
	}
	if string(payload) != `[{"id":"a","relevance":0.5}]` {
		t.Errorf("payload = %s", payload)
	}

	now = now.Add(59 * time.Minute)
	if _, ok, _ := c.Get(ctx, "orbit:magnet:k"); !ok {
		t.Error("entry expired early")
	}
	now = now.Add(time.Minute)
	if _, ok, _ := c.Get(ctx, "orbit:magnet:k"); ok {
		t.Error("entry should expire at exactly the TTL")
	}

	_, ok, err = c.Get(ctx, "orbit:magnet:missing")
	if err != nil || ok {
		t.Errorf("Get(missing) = (ok=%v, err=%v), want miss", ok, err)
	}
}

func TestKVCache_Errors(t *testing.T) {
	kv := newMemoryKV()
	c := NewKVCache(kv)
	ctx := context.Background()

	kv.data["cache:bad"] = []byte("garbage")
	if _, _, err := c.Get(ctx, "bad"); err == nil {
		t.Error("Get() should report a corrupt envelope")
	}

	kv.failing = true
	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Error("Get() should surface KV errors")
	}
	if err := c.Set(ctx, "k", []byte("1"), time.Hour); err == nil {
		t.Error("Set() should surface KV errors")
	}
}

func TestKVCache_PurgeExpired(t *testing.T) {
	kv := newMemoryKV()
	c := NewKVCache(kv)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("1"), time.Minute)
	_ = c.Set(ctx, "long", []byte("2"), time.Hour)
	kv.data["cache:corrupt"] = []byte("x")
	kv.data["card:keep"] = []byte("{}")

	now = now.Add(10 * time.Minute)
	purged, err := c.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if purged != 2 {
		t.Errorf("PurgeExpired() = %d, want 2", purged)
	}
	if _, ok := kv.data["cache:long"]; !ok {
		t.Error("live entry was purged")
	}
	if _, ok := kv.data["card:keep"]; !ok {
		t.Error("card document was purged")
	}
}
