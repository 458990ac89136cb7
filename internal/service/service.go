// Package service defines the backend-agnostic interface for Kazam API operations.
package service

import "context"

// Service defines the interface for remote-store operations.
// All HTTP calls go through this interface; the session store and
// task manager never import the backend package directly.
type Service interface {
	// Login exchanges credentials for a user profile and bearer token.
	Login(ctx context.Context, email, password string) (Credentials, error)

	// Register creates a new account. It does not yield a usable
	// session; callers log in afterwards with the same credentials.
	Register(ctx context.Context, name, email, password string) error

	// ListTasks returns all tasks for the current token, in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask submits a new task and returns the created task
	// with its server-assigned ID and CreatedAt.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)

	// UpdateTaskStatus sets the status of the task with the given ID.
	// The response body is not consumed; callers re-list to reconcile.
	UpdateTaskStatus(ctx context.Context, id string, status Status) error

	// DeleteTask deletes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error
}
