package controller

import (
	"context"

	"tasksync/internal/service"
)

// Result is the completion of an asynchronous operation.
type Result[T any] struct {
	Value T
	Err   error
}

// run executes f on its own goroutine. The returned channel delivers
// exactly one Result and is then closed.
func run[T any](f func() (T, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := f()
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// LoadAsync runs Load in the background. The result carries the loaded tasks.
func (c *Controller) LoadAsync(ctx context.Context) <-chan Result[[]service.Task] {
	return run(func() ([]service.Task, error) {
		return c.load(ctx)
	})
}

// AddAsync runs Add in the background. The result carries the created task.
func (c *Controller) AddAsync(ctx context.Context) <-chan Result[service.Task] {
	return run(func() (service.Task, error) {
		return c.Add(ctx)
	})
}

// ToggleAsync runs Toggle in the background. The result carries the task
// as stored by the server.
func (c *Controller) ToggleAsync(ctx context.Context, task service.Task) <-chan Result[service.Task] {
	return run(func() (service.Task, error) {
		return c.Toggle(ctx, task)
	})
}

// RemoveAsync runs Remove in the background. The result carries the removed ID.
func (c *Controller) RemoveAsync(ctx context.Context, id string) <-chan Result[string] {
	return run(func() (string, error) {
		return id, c.Remove(ctx, id)
	})
}
