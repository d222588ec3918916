// Package session persists the single bearer credential that gates access
// to the API.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
)

// Store holds at most one bearer credential.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the current credential, or false if none is present.
	Get() (string, bool)

	// Set replaces the credential.
	Set(token string) error

	// Clear removes the credential. Clearing an empty store is not an error.
	Clear() error
}

// FileStore keeps the credential in a JSON file so it survives restarts.
// The file holds an oauth2.Token with only access_token and token_type set.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a FileStore backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get implements Store. An unreadable or corrupt file counts as absent.
func (s *FileStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return "", false
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return "", false
	}
	return tok.AccessToken, true
}

// Set implements Store. The file is written with mode 0600.
func (s *FileStore) Set(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a MemoryStore, optionally seeded with a credential.
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Get implements Store.
func (s *MemoryStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Set implements Store.
func (s *MemoryStore) Set(token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
