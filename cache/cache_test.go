package cache_test

import (
	"context"
	"strings"
	"testing"

	"github.com/physaikat/langchain/cache"
	"github.com/physaikat/langchain/models"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := cache.NewCache(cache.NewFileStore(t.TempDir()))

	c.Set("k", []byte("v"))

	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Get() = %q, %v", got, ok)
	}
	if !c.Has("k") {
		t.Error("Has() = false after Set")
	}

	// The returned slice is a copy.
	got[0] = 'x'
	if fresh, _ := c.Get("k"); string(fresh) != "v" {
		t.Error("Get() did not return a defensive copy")
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("Get() found deleted key")
	}
}

func TestCache_FlushAndResolve(t *testing.T) {
	store := cache.NewFileStore(t.TempDir())
	ctx := context.Background()

	writer := cache.NewCache(store)
	writer.Set("a/k1", []byte("v1"))
	writer.Set("a/k2", []byte("v2"))
	if err := writer.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	reader := cache.NewCache(store)
	if err := reader.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	if !reader.Has("a/k1") {
		t.Fatal("Bootstrap did not index flushed key")
	}
	if _, ok := reader.Get("a/k1"); ok {
		t.Fatal("Get() hit before Resolve; reads must not trigger I/O")
	}

	if err := reader.Resolve(ctx, "a/k1"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got, ok := reader.Get("a/k1"); !ok || string(got) != "v1" {
		t.Errorf("Get() = %q, %v after Resolve", got, ok)
	}
}

func TestCache_FlushDeletions(t *testing.T) {
	store := cache.NewFileStore(t.TempDir())
	ctx := context.Background()

	c := cache.NewCache(store)
	c.Set("k", []byte("v"))
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	c.Delete("k")
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("store still holds %v after flushed delete", keys)
	}
}

func TestCache_BootstrapPreload(t *testing.T) {
	store := cache.NewFileStore(t.TempDir())
	ctx := context.Background()

	seed := cache.NewCache(store)
	seed.Set("warm/k", []byte("w"))
	seed.Set("cold/k", []byte("c"))
	if err := seed.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	c := cache.NewCache(store)
	if err := c.Bootstrap(ctx, "warm/"); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}

	if _, ok := c.Get("warm/k"); !ok {
		t.Error("prefixed key was not preloaded")
	}
	if _, ok := c.Get("cold/k"); ok {
		t.Error("unprefixed key was preloaded")
	}
}

func TestCachedModel(t *testing.T) {
	fake := models.NewFake("fake", "cached answer")
	c := cache.NewCache(cache.NewFileStore(t.TempDir()))
	model := cache.WrapModel(fake, c)
	ctx := context.Background()

	first, err := model.Generate(ctx, nil, &models.Options{Temperature: 0.5})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := model.Generate(ctx, nil, &models.Options{Temperature: 0.5})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if first.Message.Text() != "cached answer" || second.Message.Text() != "cached answer" {
		t.Errorf("generations = %v, %v", first, second)
	}
	if calls := len(fake.Calls()); calls != 1 {
		t.Errorf("model called %d times, want 1", calls)
	}

	// A different request misses the cache.
	if _, err := model.Generate(ctx, nil, &models.Options{Temperature: 0.9}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if calls := len(fake.Calls()); calls != 2 {
		t.Errorf("model called %d times, want 2", calls)
	}
}

func TestWrapRegistry(t *testing.T) {
	fake := models.NewFake("fake", "cached answer")
	registry := models.NewRegistry()
	if err := registry.RegisterModel("fake", fake); err != nil {
		t.Fatalf("RegisterModel failed: %v", err)
	}

	c := cache.NewCache(cache.NewFileStore(t.TempDir()))
	if err := cache.WrapRegistry(registry, c); err != nil {
		t.Fatalf("WrapRegistry failed: %v", err)
	}

	model, err := registry.Get("fake")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	ctx := context.Background()
	if _, err := model.Generate(ctx, nil, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := model.Generate(ctx, nil, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if calls := len(fake.Calls()); calls != 1 {
		t.Errorf("model called %d times, want 1 (repeat served from cache)", calls)
	}

	keys := c.Keys()
	if len(keys) != 1 || !strings.HasPrefix(keys[0], "fake/") {
		t.Errorf("cache keys = %v, want one entry under the model namespace", keys)
	}
}

func TestNewStore(t *testing.T) {
	store, err := cache.NewStore(&cache.Config{})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store != nil {
		t.Error("empty path should disable caching")
	}

	store, err = cache.NewStore(&cache.Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store == nil {
		t.Error("non-empty path should create a store")
	}
}
