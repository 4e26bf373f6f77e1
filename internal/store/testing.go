package store

import "github.com/99designs/keyring"

// Memory is an in-memory Store for tests. Error fields, when set, are
// returned by the corresponding operation to simulate backend failures.
type Memory struct {
	values map[string]string

	ReadErr  error
	WriteErr error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Seed sets a durable value without going through Write.
func (m *Memory) Seed(name, value string) {
	m.values[name] = value
}

// Get returns the durable value and whether it is set, bypassing ReadErr.
func (m *Memory) Get(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Read implements Store.
func (m *Memory) Read(name string) (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	return m.values[name], nil
}

// Write implements Store.
func (m *Memory) Write(name, value string) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.values[name] = value
	return nil
}

// memoryRing is an in-memory keyringProvider for Keyring tests.
type memoryRing struct {
	items map[string]keyring.Item
}

func newMemoryRing() *memoryRing {
	return &memoryRing{items: make(map[string]keyring.Item)}
}

func (r *memoryRing) Get(key string) (keyring.Item, error) {
	item, ok := r.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (r *memoryRing) Set(item keyring.Item) error {
	r.items[item.Key] = item
	return nil
}
