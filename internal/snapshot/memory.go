// Package snapshot provides the durable slots the pickup store writes its
// AppState snapshots to. Every slot implements tanzeem.SnapshotSlot plus a
// Check used by the health endpoint.
package snapshot

import (
	"context"
	"sync"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

// Memory keeps snapshots in process memory. Nothing survives a restart.
type Memory struct {
	mu      sync.Mutex
	data    map[string][]byte
	saveErr error
	saves   int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, tanzeem.ErrNoSnapshot
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), data...)
	m.saves++
	return nil
}

func (m *Memory) Check(context.Context) error { return nil }

// FailSaves makes every following Save return err; nil restores normal writes.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// Saves reports how many writes succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
