package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTokenStorePersistsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	store, err := NewFileTokenStore(path)
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}
	if err := store.SetPair("acc", "ref"); err != nil {
		t.Fatalf("SetPair: %v", err)
	}
	if err := store.SetUser(&User{ID: 3, Username: "anna"}); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	// A fresh store over the same path sees the saved session
	reloaded, err := NewFileTokenStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Access() != "acc" || reloaded.Refresh() != "ref" {
		t.Errorf("tokens = %q/%q, want acc/ref", reloaded.Access(), reloaded.Refresh())
	}
	user := reloaded.User()
	if user == nil || user.Username != "anna" {
		t.Errorf("user = %+v, want anna", user)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}
}

func TestFileTokenStoreSetAccessKeepsRefresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, _ := NewFileTokenStore(path)
	_ = store.SetPair("old-acc", "ref")

	if err := store.SetAccess("new-acc"); err != nil {
		t.Fatalf("SetAccess: %v", err)
	}

	reloaded, _ := NewFileTokenStore(path)
	if reloaded.Access() != "new-acc" {
		t.Errorf("access = %q, want new-acc", reloaded.Access())
	}
	if reloaded.Refresh() != "ref" {
		t.Errorf("refresh = %q, want ref", reloaded.Refresh())
	}
}

func TestFileTokenStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, _ := NewFileTokenStore(path)
	_ = store.SetPair("acc", "ref")

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should be gone after Clear")
	}
	if store.Access() != "" || store.Refresh() != "" || store.User() != nil {
		t.Error("in-memory session should be empty after Clear")
	}

	// Clearing twice is fine
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestFileTokenStoreCorruptFileStartsOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store, err := NewFileTokenStore(path)
	if err != nil {
		t.Fatalf("NewFileTokenStore: %v", err)
	}
	if store.Access() != "" || store.Refresh() != "" {
		t.Error("corrupt session should load as empty")
	}
}
