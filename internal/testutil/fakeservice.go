// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"tasksync/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are assigned sequentially starting at "1".
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int
	calls  map[service.Op]int

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error

	// Hooks run before the operation touches state. A non-nil return
	// fails the call. Tests use them to block a call in flight.
	ListHook   func(ctx context.Context) error
	CreateHook func(ctx context.Context, task service.Task) error
	UpdateHook func(ctx context.Context, id string, task service.Task) error
	DeleteHook func(ctx context.Context, id string) error

	// OmitCreatedID makes CreateTask return the task without an ID.
	OmitCreatedID bool
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		calls:  make(map[service.Op]int),
	}
}

// AddTask seeds a task with a fixed ID. Later created IDs skip past
// numeric seeds.
func (f *FakeService) AddTask(id, title, description string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n, err := strconv.Atoi(id); err == nil && n >= f.nextID {
		f.nextID = n + 1
	}
	f.tasks = append(f.tasks, service.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Completed:   completed,
	})
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return service.CloneTasks(f.tasks)
}

// Calls returns how many times op reached the fake, including failed calls.
func (f *FakeService) Calls(op service.Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(op service.Op) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record(service.OpList)
	if f.ListHook != nil {
		if err := f.ListHook(ctx); err != nil {
			return nil, err
		}
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return service.CloneTasks(f.tasks), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.record(service.OpCreate)
	if f.CreateHook != nil {
		if err := f.CreateHook(ctx, task); err != nil {
			return service.Task{}, err
		}
	}
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	task.ID = strconv.Itoa(f.nextID)
	f.nextID++
	f.tasks = append(f.tasks, task)
	if f.OmitCreatedID {
		task.ID = ""
	}
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, task service.Task) (service.Task, error) {
	f.record(service.OpUpdate)
	if f.UpdateHook != nil {
		if err := f.UpdateHook(ctx, id, task); err != nil {
			return service.Task{}, err
		}
	}
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			task.ID = id
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, notFound(service.OpUpdate)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record(service.OpDelete)
	if f.DeleteHook != nil {
		if err := f.DeleteHook(ctx, id); err != nil {
			return err
		}
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return notFound(service.OpDelete)
}

func notFound(op service.Op) error {
	return &service.ServiceError{Op: op, StatusCode: http.StatusNotFound, Message: "not found"}
}
