// Package session owns the authenticated identity: the user profile and
// bearer token pair, its durable persistence, and transition signals.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"kazam/internal/config"
	"kazam/internal/service"
)

// Event signals a session transition.
type Event int

const (
	// Established fires when a token becomes available, including when
	// a login replaces the token of an already held session.
	Established Event = iota

	// Cleared fires when the token goes from present to absent.
	Cleared
)

// Listener observes session transitions. The context is that of the
// operation which caused the transition.
type Listener func(ctx context.Context, e Event)

// Store is the single source of truth for who is logged in.
// The user profile and token are set and cleared together; at no
// observable point is one present without the other.
type Store struct {
	mu        sync.Mutex
	cfg       *config.Config
	log       *slog.Logger
	user      service.User
	token     string
	listeners []Listener
}

// New creates a Store with no session. Call Restore to adopt any
// persisted session from a previous run.
func New(cfg *config.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{cfg: cfg, log: logger}
}

// Subscribe registers a listener for session transitions. Listeners
// registered before Restore or Login observe the resulting transition.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// User returns the profile of the signed-in principal, if any.
func (s *Store) User() (service.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.token != ""
}

// Token returns the current bearer token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Authenticated reports whether a session is present.
func (s *Store) Authenticated() bool {
	_, ok := s.Token()
	return ok
}

// Login sends credentials to the remote authority and, on success,
// persists and adopts the issued session. On failure the previously
// held session, if any, is left unchanged.
func (s *Store) Login(ctx context.Context, svc service.Service, email, password string) (service.Credentials, error) {
	creds, err := svc.Login(ctx, email, password)
	if err != nil {
		return service.Credentials{}, err
	}

	if err := s.persist(creds); err != nil {
		return service.Credentials{}, err
	}

	s.adopt(ctx, creds)
	return creds, nil
}

// Signup registers a new account and immediately logs in with the same
// credentials; registration alone does not yield a token.
func (s *Store) Signup(ctx context.Context, svc service.Service, name, email, password string) (service.Credentials, error) {
	if err := svc.Register(ctx, name, email, password); err != nil {
		return service.Credentials{}, err
	}
	return s.Login(ctx, svc, email, password)
}

// Logout clears the held session and removes it from durable storage.
// It always succeeds locally; the remote authority is not notified.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	had := s.token != ""
	s.user = service.User{}
	s.token = ""
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	var errs []string
	for _, path := range []string{s.cfg.TokenPath(), s.cfg.UserPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err.Error())
		}
	}

	if had {
		for _, l := range listeners {
			l(ctx, Cleared)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("remove session files: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Restore reads any persisted session from durable storage and adopts
// it without re-validating the token against the remote authority.
// Staleness surfaces on the first subsequent failed call. Returns
// false when no session was persisted.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	tokenData, tokenErr := os.ReadFile(s.cfg.TokenPath())
	userData, userErr := os.ReadFile(s.cfg.UserPath())

	if os.IsNotExist(tokenErr) && os.IsNotExist(userErr) {
		return false, nil
	}
	if tokenErr != nil || userErr != nil {
		// Half a session on disk violates the set-together invariant.
		// Treat it as absent and clean up.
		s.removeFiles()
		if tokenErr != nil && !os.IsNotExist(tokenErr) {
			return false, tokenErr
		}
		if userErr != nil && !os.IsNotExist(userErr) {
			return false, userErr
		}
		return false, nil
	}

	token := strings.TrimSpace(string(tokenData))
	var user service.User
	if token == "" || json.Unmarshal(userData, &user) != nil {
		s.removeFiles()
		return false, nil
	}

	s.adopt(ctx, service.Credentials{User: user, Token: token})
	return true, nil
}

// TokenSource exposes the store as an oauth2 token source so the HTTP
// transport attaches the current bearer token on every request.
func (s *Store) TokenSource() oauth2.TokenSource {
	return tokenSource{s}
}

type tokenSource struct {
	s *Store
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	token, ok := ts.s.Token()
	if !ok {
		return nil, service.ErrUnauthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// adopt replaces the held session and notifies listeners on any token
// change, so a login over an existing session counts as a transition
// and listeners rebuild their state under the new token.
func (s *Store) adopt(ctx context.Context, creds service.Credentials) {
	s.mu.Lock()
	changed := s.token != creds.Token
	s.user = creds.User
	s.token = creds.Token
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	if changed {
		for _, l := range listeners {
			l(ctx, Established)
		}
	}
}

// persist writes the token and user profile to durable storage.
func (s *Store) persist(creds service.Credentials) error {
	if err := s.cfg.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	userData, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.cfg.TokenPath(), []byte(creds.Token), 0600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.WriteFile(s.cfg.UserPath(), userData, 0600); err != nil {
		// Do not leave half a session behind.
		os.Remove(s.cfg.TokenPath())
		return fmt.Errorf("save user profile: %w", err)
	}
	return nil
}

func (s *Store) removeFiles() {
	for _, path := range []string{s.cfg.TokenPath(), s.cfg.UserPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Debug("remove session file", "path", path, "error", err)
		}
	}
}

// snapshotListeners must be called with the mutex held.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}
