package devserver

import (
	"context"
	"errors"
	"sync"

	"tasksync/internal/service"
)

// ErrNotFound is returned when no task has the requested ID.
var ErrNotFound = errors.New("not found")

// Store persists tasks for the development server. Implementations keep
// insertion order.
type Store interface {
	List(ctx context.Context) ([]service.Task, error)
	Insert(ctx context.Context, task service.Task) error
	Replace(ctx context.Context, task service.Task) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []service.Task
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context) ([]service.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return service.CloneTasks(m.tasks), nil
}

// Insert implements Store.
func (m *MemoryStore) Insert(ctx context.Context, task service.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

// Replace implements Store.
func (m *MemoryStore) Replace(ctx context.Context, task service.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == task.ID {
			m.tasks[i] = task
			return nil
		}
	}
	return ErrNotFound
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
