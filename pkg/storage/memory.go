package storage

import (
	"encoding/json"
	"sync"
)

type memoryEntry struct {
	version int
	data    []byte
}

// Memory is an in-process Adapter. It backs stores in tests and in demo mode
// when no database is configured.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemory returns an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Load implements Adapter.
func (m *Memory) Load(namespace string, version int, out any) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[namespace]
	m.mu.Unlock()
	if !ok || entry.version != version {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, out); err != nil {
		return false, err
	}
	return true, nil
}

// Save implements Adapter.
func (m *Memory) Save(namespace string, version int, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[namespace] = memoryEntry{version: version, data: data}
	m.mu.Unlock()
	return nil
}
