// Package tasks keeps the local task collection consistent with the
// remote store, scoped to the current session's token.
package tasks

import (
	"context"
	"log/slog"
	"sync"

	"kazam/internal/service"
	"kazam/internal/session"
)

// Manager owns the in-memory ordered task collection. The collection
// is only ever mutated from a server-confirmed outcome: a failed call
// leaves it untouched.
//
// Reconciliation policy: List replaces the whole collection in server
// order, Create appends the server-returned task, UpdateStatus triggers
// a full re-list, and Delete filters locally. UpdateStatus deliberately
// pays the extra round trip so the local state matches server truth
// even when the server applies side effects beyond the status field.
type Manager struct {
	mu    sync.Mutex
	svc   service.Service
	sess  *session.Store
	log   *slog.Logger
	items []service.Task
}

// NewManager creates a Manager bound to the given session store. It
// subscribes to session transitions: one List when a session is
// established or its token replaced, a local clear when it ends. The
// re-list on replacement discards the previous session's tasks, so the
// collection never mixes accounts. Errors from the automatic
// fetch are logged, not propagated; explicit operations always surface
// their errors.
func NewManager(svc service.Service, sess *session.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Manager{svc: svc, sess: sess, log: logger}
	sess.Subscribe(func(ctx context.Context, e session.Event) {
		switch e {
		case session.Established:
			if _, err := m.List(ctx); err != nil {
				m.log.Debug("auto-fetch after session change failed", "error", err)
			}
		case session.Cleared:
			m.clear()
		}
	})
	return m
}

// Tasks returns a snapshot of the current collection in server order.
func (m *Manager) Tasks() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]service.Task, len(m.items))
	copy(out, m.items)
	return out
}

// List fetches all tasks for the current token and replaces the local
// collection with the response, preserving server order.
func (m *Manager) List(ctx context.Context) ([]service.Task, error) {
	if !m.sess.Authenticated() {
		return nil, service.ErrUnauthenticated
	}

	fetched, err := m.svc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.items = fetched
	m.mu.Unlock()
	return m.Tasks(), nil
}

// Create validates the draft, submits it, and on success appends the
// server-returned task to the end of the collection. Missing required
// fields reject with a ValidationError before any network call.
func (m *Manager) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	if !m.sess.Authenticated() {
		return service.Task{}, service.ErrUnauthenticated
	}
	if err := validateDraft(&draft); err != nil {
		return service.Task{}, err
	}

	created, err := m.svc.CreateTask(ctx, draft)
	if err != nil {
		return service.Task{}, err
	}

	m.mu.Lock()
	m.items = append(m.items, created)
	m.mu.Unlock()
	return created, nil
}

// UpdateStatus submits the new status for the given task and, on
// success, re-lists the whole collection rather than patching the
// single item locally.
func (m *Manager) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	if !m.sess.Authenticated() {
		return service.ErrUnauthenticated
	}
	if !status.Valid() {
		return &service.ValidationError{Field: "status"}
	}

	if err := m.svc.UpdateTaskStatus(ctx, id, status); err != nil {
		return err
	}

	_, err := m.List(ctx)
	return err
}

// Delete submits a deletion and, on success, removes the task with the
// matching ID from the collection. Removing an ID that is not present
// locally is a no-op for the local state.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if !m.sess.Authenticated() {
		return service.ErrUnauthenticated
	}

	if err := m.svc.DeleteTask(ctx, id); err != nil {
		return err
	}

	m.mu.Lock()
	kept := m.items[:0:0]
	for _, t := range m.items {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.items = kept
	m.mu.Unlock()
	return nil
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
}

// validateDraft checks the client-side preconditions for Create and
// defaults an absent status to pending.
func validateDraft(draft *service.TaskDraft) error {
	if draft.Title == "" {
		return &service.ValidationError{Field: "title"}
	}
	if draft.DueDate.IsZero() {
		return &service.ValidationError{Field: "dueDate"}
	}
	if draft.Status == "" {
		draft.Status = service.StatusPending
	}
	if !draft.Status.Valid() {
		return &service.ValidationError{Field: "status"}
	}
	return nil
}
