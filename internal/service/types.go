// Package service defines the backend-agnostic interface for task operations.
package service

import "strings"

// Task represents a single task record.
// ID is assigned by the remote service and is empty on a draft.
type Task struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// IsDraft reports whether the task has not been persisted yet.
func (t Task) IsDraft() bool {
	return t.ID == ""
}

// Toggled returns a copy of t with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}

// Validate checks that title and description are non-empty.
// Whitespace-only values count as empty.
func (t Task) Validate(op Op) error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Op: op, Err: ErrEmptyTitle}
	}
	if strings.TrimSpace(t.Description) == "" {
		return &ValidationError{Op: op, Err: ErrEmptyDescription}
	}
	return nil
}

// CloneTasks returns a copy of tasks that shares no backing array.
// A nil input yields an empty, non-nil slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
