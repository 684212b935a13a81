package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
)

// runBackendContract exercises the Backend semantics every implementation
// must share: miss on absent key, read-your-write, overwrite, delete, and
// delete-of-absent being a no-op.
func runBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	if err := b.Set(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, ok, err := b.Get(ctx, "k")
	if err != nil || !ok || string(data) != "one" {
		t.Fatalf("Get(k) = %q ok=%v err=%v", data, ok, err)
	}

	if err := b.Set(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	if data, _, _ := b.Get(ctx, "k"); string(data) != "two" {
		t.Fatalf("overwrite not visible: %q", data)
	}

	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Fatal("value still present after Delete")
	}
	if err := b.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete of absent key: %v", err)
	}
}

func TestMemoryBackendContract(t *testing.T) {
	runBackendContract(t, NewMemoryBackend())
}

func TestFileBackendContract(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend error: %v", err)
	}
	runBackendContract(t, b)
}

func TestRedisBackendContract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	runBackendContract(t, NewRedisBackendFromClient(client))
}

func TestMemoryBackendCopiesData(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	in := []byte("abc")
	if err := b.Set(ctx, "k", in); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	in[0] = 'z'

	out, _, _ := b.Get(ctx, "k")
	if string(out) != "abc" {
		t.Error("backend shares storage with caller slices")
	}
	out[0] = 'z'
	again, _, _ := b.Get(ctx, "k")
	if string(again) != "abc" {
		t.Error("backend leaks internal storage to callers")
	}
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	b1, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend error: %v", err)
	}
	if err := b1.Set(ctx, DesktopKey, []byte(`[]`)); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	b2, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	data, ok, err := b2.Get(ctx, DesktopKey)
	if err != nil || !ok || string(data) != `[]` {
		t.Fatalf("Get after reopen = %q ok=%v err=%v", data, ok, err)
	}
}
