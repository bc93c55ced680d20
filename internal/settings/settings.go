// Package settings persists the string key-value pairs shared between
// invocations: credentials, the session token, its expiry and the cookie map.
//
// Every Set is written through immediately. The process is short-lived and
// nothing may rely on state cached in memory across invocations.
package settings

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
)

// Well-known keys.
const (
	KeyCookies  = "cookies"
	KeySession  = "session"
	KeyExpiry   = "expiry"
	KeyUsername = "username"
	KeyPassword = "password"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("settings store closed")

// Store is a string key-value store. Missing keys read as "".
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// Open picks a backend from the path: *.db, *.sqlite and *.sqlite3 open a
// SQLite database, anything else a JSON file.
func Open(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	default:
		return NewFileStore(path), nil
	}
}

// Memory is an in-process Store, used by tests and dry runs.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory store seeded with the given pairs.
func NewMemory(seed map[string]string) *Memory {
	m := &Memory{values: make(map[string]string, len(seed))}
	for k, v := range seed {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
