// Package controller owns the local task collection and keeps it
// synchronized with a remote service.
//
// Mutations are confirm-first: the collection changes only after the
// remote service has answered successfully. A failed call leaves the
// collection exactly as it was and is reported through the returned
// error and Snapshot.Err.
//
// Thread-safety model:
//   - every method is safe from any goroutine
//   - state is guarded by a single mutex that is never held across a
//     remote call
//   - a toggle or remove against a task that already has one outstanding
//     is rejected with service.ErrTaskInFlight
package controller

import (
	"context"
	"log/slog"
	"sync"

	"tasksync/internal/logging"
	"tasksync/internal/service"
)

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	Tasks []service.Task
	Draft service.Task
	Busy  bool

	// Err is the error of the most recently finished or rejected
	// operation, nil if it succeeded.
	Err error

	// Version increments on every state change.
	Version uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used to report failed operations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller is the synchronization controller.
type Controller struct {
	svc    service.Service
	logger *slog.Logger

	mu       sync.Mutex
	tasks    []service.Task
	draft    service.Task
	pending  int                   // outstanding remote calls
	inflight map[string]service.Op // task ID -> outstanding toggle/remove
	lastErr  error
	version  uint64
	subs     map[uint64]chan Snapshot
	nextSub  uint64
}

// New creates a Controller backed by svc with an empty collection.
func New(svc service.Service, opts ...Option) *Controller {
	c := &Controller{
		svc:      svc,
		logger:   logging.Discard(),
		tasks:    []service.Task{},
		inflight: make(map[string]service.Op),
		subs:     make(map[uint64]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Tasks returns a copy of the collection.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return service.CloneTasks(c.tasks)
}

// Busy reports whether any operation is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Err returns the error of the most recent operation.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Draft returns the staged new task.
func (c *Controller) Draft() service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft stages the title and description of the next task to add.
func (c *Controller) SetDraft(title, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = service.Task{Title: title, Description: description}
	c.changedLocked()
}

// ResetDraft clears the staging slot.
func (c *Controller) ResetDraft() {
	c.SetDraft("", "")
}

// Load replaces the collection with the server's task list.
// When loads overlap, the last response to arrive wins.
func (c *Controller) Load(ctx context.Context) error {
	_, err := c.load(ctx)
	return err
}

func (c *Controller) load(ctx context.Context) ([]service.Task, error) {
	c.begin()

	tasks, err := c.svc.ListTasks(ctx)
	if err == nil {
		for _, t := range tasks {
			if t.ID == "" {
				err = &service.ServiceError{Op: service.OpList, Message: "listed task has no id"}
				break
			}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		err = classify(service.OpList, err)
		c.finishLocked(service.OpList, err)
		return nil, err
	}
	c.tasks = service.CloneTasks(tasks)
	c.finishLocked(service.OpList, nil)
	c.logger.Debug("tasks loaded", "count", len(tasks))
	return service.CloneTasks(tasks), nil
}

// Add sends the draft to the service and appends the created task.
// An invalid draft is rejected before any network call. On failure the
// draft is kept so the caller can retry.
func (c *Controller) Add(ctx context.Context) (service.Task, error) {
	c.mu.Lock()
	draft := c.draft
	if err := draft.Validate(service.OpCreate); err != nil {
		c.rejectLocked(err)
		c.mu.Unlock()
		return service.Task{}, err
	}
	draft.ID = ""
	draft.Completed = false
	c.beginLocked()
	c.mu.Unlock()

	created, err := c.svc.CreateTask(ctx, draft)
	if err == nil && created.IsDraft() {
		err = &service.ServiceError{Op: service.OpCreate, Message: "created task has no id"}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		err = classify(service.OpCreate, err)
		c.finishLocked(service.OpCreate, err)
		return service.Task{}, err
	}
	c.tasks = append(c.tasks, created)
	// Keep edits made while the call was in flight.
	if c.draft.Title == draft.Title && c.draft.Description == draft.Description {
		c.draft = service.Task{}
	}
	c.finishLocked(service.OpCreate, nil)
	c.logger.Debug("task created", "id", created.ID)
	return created, nil
}

// Toggle flips the completion flag of the task identified by task.ID.
// The collection element is replaced by the server's representation, not
// by the locally computed candidate.
func (c *Controller) Toggle(ctx context.Context, task service.Task) (service.Task, error) {
	c.mu.Lock()
	cur, err := c.claimLocked(service.OpUpdate, task.ID)
	if err != nil {
		c.rejectLocked(err)
		c.mu.Unlock()
		return service.Task{}, err
	}
	c.beginLocked()
	c.mu.Unlock()

	updated, err := c.svc.UpdateTask(ctx, cur.ID, cur.Toggled())
	if err == nil {
		switch updated.ID {
		case "":
			updated.ID = cur.ID
		case cur.ID:
		default:
			err = &service.ServiceError{Op: service.OpUpdate, Message: "updated task changed id"}
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, cur.ID)
	if err != nil {
		err = classify(service.OpUpdate, err)
		c.finishLocked(service.OpUpdate, err)
		return service.Task{}, err
	}
	if i := c.indexLocked(cur.ID); i >= 0 {
		c.tasks[i] = updated
	} else {
		c.logger.Warn("dropping update for task no longer in collection", "id", cur.ID)
	}
	c.finishLocked(service.OpUpdate, nil)
	return updated, nil
}

// Remove deletes the task identified by id. The element leaves the
// collection only after the service confirms.
func (c *Controller) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	if _, err := c.claimLocked(service.OpDelete, id); err != nil {
		c.rejectLocked(err)
		c.mu.Unlock()
		return err
	}
	c.beginLocked()
	c.mu.Unlock()

	err := c.svc.DeleteTask(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
	if err != nil {
		err = classify(service.OpDelete, err)
		c.finishLocked(service.OpDelete, err)
		return err
	}
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
	c.finishLocked(service.OpDelete, nil)
	c.logger.Debug("task deleted", "id", id)
	return nil
}

// Subscribe returns a channel that receives a snapshot after every state
// change, starting with the current one. The channel buffers a single
// snapshot: a slow reader skips intermediate states and always sees the
// newest. Call cancel to stop receiving; it closes the channel.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan Snapshot, 1)
	ch <- c.snapshotLocked()
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// claimLocked resolves id to its collection element and marks it in flight.
func (c *Controller) claimLocked(op service.Op, id string) (service.Task, error) {
	if id == "" {
		return service.Task{}, &service.ValidationError{Op: op, Err: service.ErrMissingID}
	}
	if _, busy := c.inflight[id]; busy {
		return service.Task{}, &service.ValidationError{Op: op, Err: service.ErrTaskInFlight}
	}
	i := c.indexLocked(id)
	if i < 0 {
		return service.Task{}, &service.ValidationError{Op: op, Err: service.ErrUnknownTask}
	}
	c.inflight[id] = op
	return c.tasks[i], nil
}

func (c *Controller) indexLocked(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginLocked()
}

func (c *Controller) beginLocked() {
	c.pending++
	c.changedLocked()
}

func (c *Controller) finishLocked(op service.Op, err error) {
	c.pending--
	c.lastErr = err
	if err != nil {
		c.logger.Error("operation failed", "op", string(op), "err", err)
	}
	c.changedLocked()
}

func (c *Controller) rejectLocked(err error) {
	c.lastErr = err
	c.logger.Debug("operation rejected", "err", err)
	c.changedLocked()
}

func (c *Controller) changedLocked() {
	c.version++
	if len(c.subs) == 0 {
		return
	}
	snap := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
		default:
			// Replace the unread snapshot with the newer one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Tasks:   service.CloneTasks(c.tasks),
		Draft:   c.draft,
		Busy:    c.pending > 0,
		Err:     c.lastErr,
		Version: c.version,
	}
}

// classify makes sure every remote failure is a TransportError or a
// ServiceError. Unknown errors are treated as transport failures.
func classify(op service.Op, err error) error {
	if service.IsTransportError(err) || service.IsServiceError(err) {
		return err
	}
	return &service.TransportError{Op: op, Err: err}
}
