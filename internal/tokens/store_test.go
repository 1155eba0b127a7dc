package tokens

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFileStoreLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tokens.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if store.HasTokens() {
		t.Fatalf("fresh store should have no tokens")
	}
	if err := store.SetTokens("access-1", "refresh-1"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if store.Access() != "access-1" || store.Refresh() != "refresh-1" {
		t.Fatalf("unexpected tokens %q / %q", store.Access(), store.Refresh())
	}
	if !store.HasTokens() {
		t.Fatalf("store should report tokens present")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat token file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o600 {
			t.Fatalf("token file should be 0600, got %v", perm)
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.HasTokens() {
		t.Fatalf("store should be empty after clear")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing twice should be fine: %v", err)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	first, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := first.SetTokens("a", "r"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}

	second, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if second.Access() != "a" || second.Refresh() != "r" {
		t.Fatalf("reopened store lost tokens")
	}
}

func TestFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if store.HasTokens() {
		t.Fatalf("corrupt file should read as empty")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	if store.HasTokens() {
		t.Fatalf("fresh memory store should be empty")
	}
	if err := store.SetTokens("a", "r"); err != nil {
		t.Fatalf("SetTokens: %v", err)
	}
	if store.Access() != "a" || store.Refresh() != "r" {
		t.Fatalf("unexpected tokens")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.HasTokens() {
		t.Fatalf("memory store should be empty after clear")
	}
}
