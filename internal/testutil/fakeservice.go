// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"kazam/internal/service"
)

type fakeUser struct {
	name     string
	password string
}

// FakeService is an in-memory implementation of service.Service for
// testing. Every remote call increments a per-operation counter so
// tests can assert that an operation issued no network requests.
type FakeService struct {
	mu    sync.Mutex
	users map[string]fakeUser // email -> account
	tasks []service.Task
	calls map[string]int

	// Error injection for testing
	LoginErr    error
	RegisterErr error
	ListErr     error
	CreateErr   error
	UpdateErr   error
	DeleteErr   error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users: make(map[string]fakeUser),
		calls: make(map[string]int),
	}
}

// SeedUser registers an account without going through Register.
func (f *FakeService) SeedUser(name, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = fakeUser{name: name, password: password}
}

// SeedTask adds a task to the remote store directly.
func (f *FakeService) SeedTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// AddTask adds a pending task with the given id and title.
func (f *FakeService) AddTask(id, title string) {
	f.SeedTask(service.Task{
		ID:        id,
		Title:     title,
		Status:    service.StatusPending,
		DueDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

// Calls returns how many times the named operation reached the fake.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns how many remote calls were made in total.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Tasks returns a copy of the remote task store.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (service.Credentials, error) {
	f.count("login")
	if f.LoginErr != nil {
		return service.Credentials{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	account, ok := f.users[email]
	if !ok {
		return service.Credentials{}, &service.AuthenticationError{Reason: "unknown email"}
	}
	if account.password != password {
		return service.Credentials{}, &service.AuthenticationError{Reason: "wrong password"}
	}
	return service.Credentials{
		User:  service.User{Name: account.name, Email: email},
		Token: "t-" + uuid.NewString(),
	}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, name, email, password string) error {
	f.count("register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.users[email]; exists {
		return &service.ConflictError{Email: email}
	}
	f.users[email] = fakeUser{name: name, password: password}
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.count("list")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	f.count("create")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	task := service.Task{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		DueDate:     draft.DueDate,
		CreatedAt:   time.Now().UTC(),
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTaskStatus implements service.Service.
func (f *FakeService) UpdateTaskStatus(ctx context.Context, id string, status service.Status) error {
	f.count("update")
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("task %s: %w", id, service.ErrNotFound)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.count("delete")
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
	return fmt.Errorf("task %s: %w", id, service.ErrNotFound)
}

func (f *FakeService) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}
