package testutil

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FakeRemote is an in-memory stand-in for the Kazam backend, close
// enough to the real wire contract to exercise the HTTP client: JSON
// bodies, `_id` task keys, bearer-token auth with signed JWTs, and the
// backend's error messages.
type FakeRemote struct {
	engine *gin.Engine
	secret []byte

	mu    sync.Mutex
	users map[string]remoteUser
	tasks map[string][]remoteTask // email -> tasks

	// ForceStatus makes the next matching "METHOD PATH-PREFIX" request
	// fail with the given status.
	ForceStatus map[string]int
}

type remoteUser struct {
	Name     string
	Password string
}

type remoteTask struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
	CreatedAt   string `json:"createdAt"`
}

// NewFakeRemote creates a FakeRemote with no accounts.
func NewFakeRemote() *FakeRemote {
	gin.SetMode(gin.TestMode)

	r := &FakeRemote{
		secret:      []byte("fake-remote-secret"),
		users:       make(map[string]remoteUser),
		tasks:       make(map[string][]remoteTask),
		ForceStatus: make(map[string]int),
	}

	engine := gin.New()
	engine.Use(r.forced)

	auth := engine.Group("/api/auth")
	{
		auth.POST("/login", r.handleLogin)
		auth.POST("/register", r.handleRegister)
	}

	api := engine.Group("/api/tasks", r.requireToken)
	{
		api.GET("/", r.handleList)
		api.POST("/", r.handleCreate)
		api.PATCH("/:id", r.handleUpdate)
		api.DELETE("/:id", r.handleDelete)
	}

	r.engine = engine
	return r
}

// Handler exposes the fake backend as an http.Handler for httptest.
func (r *FakeRemote) Handler() http.Handler {
	return r.engine
}

// SeedUser registers an account.
func (r *FakeRemote) SeedUser(name, email, password string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[email] = remoteUser{Name: name, Password: password}
}

// SeedTask adds a task for the given account and returns its id.
func (r *FakeRemote) SeedTask(email, title, status string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.tasks[email] = append(r.tasks[email], remoteTask{
		ID:        id,
		Title:     title,
		Status:    status,
		DueDate:   "2024-01-01T00:00:00Z",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	})
	return id
}

// forced fails requests matching a ForceStatus entry.
func (r *FakeRemote) forced(c *gin.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, status := range r.ForceStatus {
		method, prefix, ok := strings.Cut(key, " ")
		if !ok {
			continue
		}
		if c.Request.Method == method && strings.HasPrefix(c.Request.URL.Path, prefix) {
			delete(r.ForceStatus, key)
			c.AbortWithStatusJSON(status, gin.H{"message": "forced failure"})
			return
		}
	}
}

func (r *FakeRemote) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	r.mu.Lock()
	account, ok := r.users[req.Email]
	r.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if account.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid password"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": req.Email,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(r.secret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "sign token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":  account.Name,
		"email": req.Email,
		"token": signed,
	})
}

func (r *FakeRemote) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[req.Email]; exists {
		c.JSON(http.StatusConflict, gin.H{"message": "user already exists"})
		return
	}
	r.users[req.Email] = remoteUser{Name: req.Name, Password: req.Password}
	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}

// requireToken authenticates the bearer token and stores the account
// email in the request context.
func (r *FakeRemote) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}

	email, _ := claims["sub"].(string)
	if email == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
		return
	}
	c.Set("email", email)
}

func (r *FakeRemote) handleList(c *gin.Context) {
	email := c.GetString("email")

	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := r.tasks[email]
	if tasks == nil {
		tasks = []remoteTask{}
	}
	c.JSON(http.StatusOK, tasks)
}

func (r *FakeRemote) handleCreate(c *gin.Context) {
	email := c.GetString("email")

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
		DueDate     string `json:"dueDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}

	task := remoteTask{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}

	r.mu.Lock()
	r.tasks[email] = append(r.tasks[email], task)
	r.mu.Unlock()

	c.JSON(http.StatusCreated, task)
}

func (r *FakeRemote) handleUpdate(c *gin.Context) {
	email := c.GetString("email")
	id := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks[email] {
		if t.ID == id {
			r.tasks[email][i].Status = req.Status
			c.JSON(http.StatusOK, r.tasks[email][i])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
}

func (r *FakeRemote) handleDelete(c *gin.Context) {
	email := c.GetString("email")
	id := c.Param("id")

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks[email] {
		if t.ID == id {
			r.tasks[email] = append(r.tasks[email][:i], r.tasks[email][i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "deleted"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "task not found"})
}
