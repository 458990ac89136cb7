package service

import "time"

// Status is a task status.
type Status string

const (
	// StatusPending marks a task as not yet done.
	StatusPending Status = "pending"

	// StatusCompleted marks a task as done.
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a single task item.
// ID and CreatedAt are assigned by the server and never change.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	DueDate     time.Time
	CreatedAt   time.Time
}

// User is the profile of the signed-in principal.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is what a successful login yields: the user profile
// plus the bearer token issued by the remote authority.
type Credentials struct {
	User  User
	Token string
}

// TaskDraft is the client-supplied portion of a new task.
type TaskDraft struct {
	Title       string
	Description string
	Status      Status
	DueDate     time.Time
}
