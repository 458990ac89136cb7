// Package kazamapi implements the service.Service interface against the
// Kazam backend HTTP API.
package kazamapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"kazam/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second
)

// Client implements service.Service using the Kazam HTTP API.
type Client struct {
	base string
	auth *http.Client // unauthenticated, for login/register
	api  *http.Client // adds Authorization: Bearer via oauth2 transport
	log  *slog.Logger
}

// New creates a new Kazam API client. Authenticated calls draw their
// bearer token from src on every request; login and register go out
// without credentials.
func New(baseURL string, src oauth2.TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		auth: &http.Client{},
		api:  oauth2.NewClient(context.Background(), src),
		log:  logger,
	}
}

// Login exchanges credentials for a user profile and bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (service.Credentials, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.do(ctx, c.auth, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return service.Credentials{}, netErr("login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return service.Credentials{}, classifyLogin(resp)
	}

	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return service.Credentials{}, netErr("login", fmt.Errorf("decode response: %w", err))
	}
	if payload.Token == "" {
		return service.Credentials{}, netErr("login", errors.New("no token in response"))
	}

	return service.Credentials{
		User:  service.User{Name: payload.Name, Email: payload.Email},
		Token: payload.Token,
	}, nil
}

// Register creates a new account. The response body is not consumed;
// callers log in afterwards to obtain a token.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}

	resp, err := c.do(ctx, c.auth, http.MethodPost, "/api/auth/register", body)
	if err != nil {
		return netErr("register", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	msg := responseMessage(resp)
	if resp.StatusCode == http.StatusConflict || mentionsConflict(msg) {
		return &service.ConflictError{Email: email}
	}
	return &service.NetworkError{Op: "register", StatusCode: resp.StatusCode}
}

// ListTasks returns all tasks for the current token, in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	resp, err := c.do(ctx, c.api, http.MethodGet, "/api/tasks/", nil)
	if err != nil {
		return nil, netErr("list tasks", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, classifyTask("list tasks", "", resp)
	}

	var payload []wireTask
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, netErr("list tasks", fmt.Errorf("decode response: %w", err))
	}

	tasks := make([]service.Task, 0, len(payload))
	for _, wt := range payload {
		tasks = append(tasks, wt.task())
	}
	return tasks, nil
}

// CreateTask submits a new task and returns the created task.
func (c *Client) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	body := map[string]string{
		"title":       draft.Title,
		"description": draft.Description,
		"status":      string(draft.Status),
		"dueDate":     draft.DueDate.Format(time.RFC3339),
	}

	resp, err := c.do(ctx, c.api, http.MethodPost, "/api/tasks/", body)
	if err != nil {
		return service.Task{}, netErr("create task", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return service.Task{}, classifyTask("create task", "", resp)
	}

	var wt wireTask
	if err := json.NewDecoder(resp.Body).Decode(&wt); err != nil {
		return service.Task{}, netErr("create task", fmt.Errorf("decode response: %w", err))
	}
	return wt.task(), nil
}

// UpdateTaskStatus sets the status of the task with the given ID.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status service.Status) error {
	body := map[string]string{"status": string(status)}

	resp, err := c.do(ctx, c.api, http.MethodPatch, "/api/tasks/"+id, body)
	if err != nil {
		return netErr("update task", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyTask("update task", id, resp)
	}
	// Body intentionally ignored; callers re-list to reconcile.
	return nil
}

// DeleteTask deletes the task with the given ID.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	resp, err := c.do(ctx, c.api, http.MethodDelete, "/api/tasks/"+id, nil)
	if err != nil {
		return netErr("delete task", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyTask("delete task", id, resp)
	}
	return nil
}

// do issues a single HTTP request with the per-call timeout.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body any) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			cancel()
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		cancel()
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		cancel()
		c.log.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, err
	}
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode)

	// The cancel above would kill the body read; rebind it to the caller.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody defers the request's context cancellation until the
// response body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// wireTask is the Kazam API representation of a task.
type wireTask struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     apiTime `json:"dueDate"`
	CreatedAt   apiTime `json:"createdAt"`
}

func (wt wireTask) task() service.Task {
	return service.Task{
		ID:          wt.ID,
		Title:       wt.Title,
		Description: wt.Description,
		Status:      service.Status(wt.Status),
		DueDate:     time.Time(wt.DueDate),
		CreatedAt:   time.Time(wt.CreatedAt),
	}
}

// apiTime accepts both RFC 3339 timestamps and bare dates, which the
// backend mixes depending on how the task was created.
type apiTime time.Time

func (t *apiTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = apiTime(time.Time{})
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = apiTime(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized time value: %q", s)
}

func (t apiTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339))
}

// responseMessage extracts the server's {message} detail, if any.
func responseMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// classifyLogin maps a failed login response to the error taxonomy.
func classifyLogin(resp *http.Response) error {
	msg := responseMessage(resp)
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		return &service.AuthenticationError{Reason: authReason(resp.StatusCode, msg)}
	}
	return &service.NetworkError{Op: "login", StatusCode: resp.StatusCode}
}

// authReason distinguishes "unknown email" from "wrong password" when
// the server response allows it.
func authReason(status int, msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case status == http.StatusNotFound,
		strings.Contains(lower, "user not found"),
		strings.Contains(lower, "no user"),
		strings.Contains(lower, "email"):
		return "unknown email"
	case strings.Contains(lower, "password"):
		return "wrong password"
	}
	return ""
}

// classifyTask maps a failed task-operation response to the error taxonomy.
func classifyTask(op, id string, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &service.AuthenticationError{Reason: "token expired or revoked (run: kazam login)"}
	case http.StatusNotFound:
		if id != "" {
			return fmt.Errorf("task %s: %w", id, service.ErrNotFound)
		}
		return service.ErrNotFound
	}
	return &service.NetworkError{Op: op, StatusCode: resp.StatusCode}
}

// netErr wraps a transport failure, preserving an unauthenticated
// token source as ErrUnauthenticated.
func netErr(op string, err error) error {
	if errors.Is(err, service.ErrUnauthenticated) {
		return service.ErrUnauthenticated
	}
	return &service.NetworkError{Op: op, Err: err}
}

func mentionsConflict(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "already") || strings.Contains(lower, "exist")
}
