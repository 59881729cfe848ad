package client

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
)

// tokenFileName is the fixed key the persisted token lives under.
const tokenFileName = "jwt"

// TokenStorage persists a single auth token across process restarts. Load
// returns an empty string when no token is stored.
type TokenStorage interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStorage keeps the token in a file under dir, mode 0600.
type FileTokenStorage struct {
	dir string
}

var _ TokenStorage = (*FileTokenStorage)(nil)

func NewFileTokenStorage(dir string) *FileTokenStorage {
	return &FileTokenStorage{dir: dir}
}

func (s *FileTokenStorage) path() string {
	return filepath.Join(s.dir, tokenFileName)
}

func (s *FileTokenStorage) Load() (string, error) {
	buf, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "failed to read token file")
	}
	return strings.TrimSpace(string(buf)), nil
}

func (s *FileTokenStorage) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create token dir")
	}
	if err := os.WriteFile(s.path(), []byte(token), 0o600); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write token file")
	}
	return nil
}

func (s *FileTokenStorage) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryOperation, "failed to remove token file")
	}
	return nil
}

// MemoryTokenStorage holds the token in memory, for tests and ephemeral
// sessions.
type MemoryTokenStorage struct {
	mu    sync.Mutex
	token string
}

var _ TokenStorage = (*MemoryTokenStorage)(nil)

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

func (s *MemoryTokenStorage) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStorage) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
