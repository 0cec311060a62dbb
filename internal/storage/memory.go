package storage

import (
	"context"
	"sync"
)

// MemorySlot keeps the blob in process memory. Nothing survives a restart.
type MemorySlot struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (s *MemorySlot) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *MemorySlot) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
