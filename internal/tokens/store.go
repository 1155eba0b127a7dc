package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the only surface through which persisted credentials are read or
// written. The REST client consumes it during request flow; the auth service
// writes on login and clears on logout; nothing else touches tokens.
type Store interface {
	Access() string
	Refresh() string
	SetTokens(access, refresh string) error
	Clear() error
	HasTokens() bool
}

type pairFile struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// DefaultPath places the credential file under the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".portfolio", "tokens.json"), nil
}

// FileStore persists the token pair as a 0600 JSON file. Reads go to disk on
// every call so concurrent CLI invocations observe each other's refreshes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Access() string {
	pair := f.read()
	return pair.AccessToken
}

func (f *FileStore) Refresh() string {
	pair := f.read()
	return pair.RefreshToken
}

func (f *FileStore) SetTokens(access, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	raw, err := json.Marshal(pairFile{AccessToken: access, RefreshToken: refresh})
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

func (f *FileStore) HasTokens() bool {
	pair := f.read()
	return pair.AccessToken != "" || pair.RefreshToken != ""
}

func (f *FileStore) read() pairFile {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return pairFile{}
	}
	var pair pairFile
	if err := json.Unmarshal(raw, &pair); err != nil {
		return pairFile{}
	}
	return pair
}

// MemoryStore backs tests and short-lived embedders.
type MemoryStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Access() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access
}

func (m *MemoryStore) Refresh() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh
}

func (m *MemoryStore) SetTokens(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = access
	m.refresh = refresh
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = ""
	m.refresh = ""
	return nil
}

func (m *MemoryStore) HasTokens() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access != "" || m.refresh != ""
}
