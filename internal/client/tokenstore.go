package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the session between requests: the access/refresh token
// pair and the cached profile of the logged-in user.
type TokenStore interface {
	Access() string
	Refresh() string
	SetAccess(access string) error
	SetPair(access, refresh string) error
	User() *User
	SetUser(user *User) error
	Clear() error
}

// MemoryTokenStore keeps the session in memory only
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
	user    *User
}

// NewMemoryTokenStore creates an empty in-memory token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryTokenStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryTokenStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *MemoryTokenStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryTokenStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *MemoryTokenStore) SetUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	s.user = nil
	return nil
}

// sessionFile is the on-disk shape of a persisted session
type sessionFile struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

// FileTokenStore persists the session as a JSON file so CLI invocations
// share one login. The file is written with 0600 permissions.
type FileTokenStore struct {
	mu   sync.RWMutex
	path string
	sess sessionFile
}

// NewFileTokenStore creates a file-backed token store, loading any
// previously saved session
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	s := &FileTokenStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.sess); err != nil {
		// Corrupt session file, start over
		s.sess = sessionFile{}
	}
	return s, nil
}

func (s *FileTokenStore) Access() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Access
}

func (s *FileTokenStore) Refresh() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.Refresh
}

func (s *FileTokenStore) SetAccess(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Access = access
	return s.save()
}

func (s *FileTokenStore) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.Access = access
	s.sess.Refresh = refresh
	return s.save()
}

func (s *FileTokenStore) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess.User
}

func (s *FileTokenStore) SetUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess.User = user
	return s.save()
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sessionFile{}

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// save writes the session file, caller holds the lock
func (s *FileTokenStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.sess, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
