package hashindex

import "sync"

// Memory is an in-process hash index used when no persistent index path is
// configured.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemory creates an empty in-memory index.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

// Get returns the recorded target path, or "" if unseen.
func (m *Memory) Get(hash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.m[hash], nil
}

// Put records the target path for a hash.
func (m *Memory) Put(hash, targetPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[hash] = targetPath
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
