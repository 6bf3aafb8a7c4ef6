package queue

import (
	"context"
	"sync"
)

// MemoryClient buffers messages in memory for local runs and tests.
type MemoryClient struct {
	mu   sync.Mutex
	msgs []Message
}

// NewMemoryClient constructs an empty MemoryClient.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Send appends msg to the buffer.
func (m *MemoryClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

// Drain returns and clears the buffered messages.
func (m *MemoryClient) Drain() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.msgs
	m.msgs = nil
	return out
}

var _ Client = (*MemoryClient)(nil)
