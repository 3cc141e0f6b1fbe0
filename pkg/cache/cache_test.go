package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before Set
	if _, hit, _ := c.Get(ctx, "canvas"); hit {
		t.Error("expected miss before Set")
	}

	// Set then Get
	if err := c.Set(ctx, "canvas", []byte("pixels"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "canvas")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "pixels" {
		t.Errorf("Get = (%q, %v), want (\"pixels\", true)", data, hit)
	}

	// Delete then miss
	if err := c.Delete(ctx, "canvas"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "canvas"); hit {
		t.Error("expected miss after Delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Already-expired entry behaves as a miss
	if err := c.Set(ctx, "stale", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "stale"); hit {
		t.Error("expired entry should be a miss")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// Different options should produce different keys
	k1 := k.ComposeKey("srchash", ComposeKeyOpts{Rows: 2, Cols: 2})
	k2 := k.ComposeKey("srchash", ComposeKeyOpts{Rows: 2, Cols: 3})
	if k1 == k2 {
		t.Error("Different ComposeKeyOpts should produce different keys")
	}

	// Different sources should produce different keys
	k3 := k.ComposeKey("otherhash", ComposeKeyOpts{Rows: 2, Cols: 2})
	if k1 == k3 {
		t.Error("Different source hashes should produce different keys")
	}

	// Same inputs should produce the same key
	k4 := k.ComposeKey("srchash", ComposeKeyOpts{Rows: 2, Cols: 2})
	if k1 != k4 {
		t.Error("ComposeKey should be deterministic")
	}

	// Background changes the key
	k5 := k.ComposeKey("srchash", ComposeKeyOpts{Rows: 2, Cols: 2, Background: [3]int{255, 0, 0}})
	if k1 == k5 {
		t.Error("Background should affect the key")
	}
}

func TestFingerprintFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	if err := os.WriteFile(a, []byte("aaaa"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("bbbb"), 0644); err != nil {
		t.Fatal(err)
	}

	f1, err := FingerprintFiles([]string{a, b})
	if err != nil {
		t.Fatalf("FingerprintFiles error: %v", err)
	}

	// Deterministic
	f2, _ := FingerprintFiles([]string{a, b})
	if f1 != f2 {
		t.Error("fingerprint should be deterministic")
	}

	// Order matters: the compositor is order-sensitive
	f3, _ := FingerprintFiles([]string{b, a})
	if f1 == f3 {
		t.Error("fingerprint should depend on input order")
	}

	// Content growth changes the fingerprint (size changes)
	if err := os.WriteFile(a, []byte("aaaaaaaa"), 0644); err != nil {
		t.Fatal(err)
	}
	f4, _ := FingerprintFiles([]string{a, b})
	if f1 == f4 {
		t.Error("fingerprint should change when a source file changes")
	}

	// Missing file is an error
	if _, err := FingerprintFiles([]string{filepath.Join(dir, "missing.png")}); err == nil {
		t.Error("expected error for missing file")
	}
}
