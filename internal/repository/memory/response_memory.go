package memory

import (
	"context"
	"sync"

	"hellosrv/internal/model"
	"hellosrv/internal/repository"
)

// ResponseMemory keeps the most recent journal records in a fixed-size ring.
// It is used when no database is configured and is safe for concurrent use.
type ResponseMemory struct {
	mu    sync.RWMutex
	items []model.ResponseRecord
	next  int
	full  bool
}

// NewResponseMemory creates a ring holding at most capacity records.
func NewResponseMemory(capacity int) *ResponseMemory {
	if capacity <= 0 {
		capacity = 1
	}
	return &ResponseMemory{items: make([]model.ResponseRecord, capacity)}
}

var _ repository.ResponseRepository = (*ResponseMemory)(nil)

// Create appends rec, evicting the oldest record when the ring is full.
func (m *ResponseMemory) Create(_ context.Context, rec *model.ResponseRecord) (*model.ResponseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[m.next] = *rec
	m.next = (m.next + 1) % len(m.items)
	if m.next == 0 {
		m.full = true
	}
	out := *rec
	return &out, nil
}

func (m *ResponseMemory) size() int {
	if m.full {
		return len(m.items)
	}
	return m.next
}

// at returns the i-th newest record.
func (m *ResponseMemory) at(i int) model.ResponseRecord {
	idx := (m.next - 1 - i + len(m.items)) % len(m.items)
	return m.items[idx]
}

// FindByID scans the ring for id.
func (m *ResponseMemory) FindByID(_ context.Context, id string) (*model.ResponseRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := 0; i < m.size(); i++ {
		if rec := m.at(i); rec.ID == id {
			return &rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

// List returns records newest first.
func (m *ResponseMemory) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.ResponseRecord], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.size()
	items := make([]model.ResponseRecord, 0)
	for i := pq.Offset; i < total && len(items) < pq.Limit; i++ {
		items = append(items, m.at(i))
	}
	return &repository.PageResult[model.ResponseRecord]{Items: items, Total: total}, nil
}
