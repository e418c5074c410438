// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the remote CRUD contract for tasks.
// All remote calls go through this interface; the controller never
// imports a transport directly.
type Service interface {
	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask persists a draft and returns it with its assigned ID.
	CreateTask(ctx context.Context, task Task) (Task, error)

	// UpdateTask replaces the task stored under id and returns the
	// stored representation. The ID is unchanged.
	UpdateTask(ctx context.Context, id string, task Task) (Task, error)

	// DeleteTask removes the task stored under id.
	DeleteTask(ctx context.Context, id string) error
}
