package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrNoKey is returned by Read when the key has never been written.
var ErrNoKey = errors.New("localstore: no such key")

// Store is a flat key-value store, one JSON document per key, kept as
// files under a directory. It mirrors the localStorage layout the web
// client used as its offline fallback: `subjects`, `videos`, `quizzes`,
// `users`, `quizResults`, `payments`, `subscriptions`, `progress_<userId>`.
//
// Latency is an artificial delay applied to every operation so the
// fallback path behaves like a slow network rather than an instant local
// call. Tests pass 0.
type Store struct {
	dir     string
	latency time.Duration
	mu      sync.Mutex
}

func New(dir string, latency time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir, latency: latency}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Read unmarshals the document stored under key into v.
func (s *Store) Read(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleep()

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoKey
		}
		return err
	}
	return json.Unmarshal(data, v)
}

// Write replaces the document stored under key.
func (s *Store) Write(key string, v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleep()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

// Delete removes the document stored under key. Deleting an absent key is
// not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleep()

	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) sleep() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}
