package session_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"kazam/internal/config"
	"kazam/internal/service"
	"kazam/internal/session"
	"kazam/internal/testutil"
)

func newStore(t *testing.T) (*session.Store, *config.Config) {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	return session.New(cfg, nil), cfg
}

func seededService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.SeedUser("Alice", "a@b.com", "secret")
	return svc
}

func TestLoginStoresAndPersistsSession(t *testing.T) {
	store, cfg := newStore(t)
	svc := seededService()

	creds, err := store.Login(context.Background(), svc, "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if creds.User.Name != "Alice" || creds.User.Email != "a@b.com" {
		t.Errorf("unexpected credentials: %+v", creds)
	}

	user, ok := store.User()
	if !ok || user.Name != "Alice" || user.Email != "a@b.com" {
		t.Errorf("expected Alice to be signed in, got %+v ok=%v", user, ok)
	}

	token, ok := store.Token()
	if !ok || token != creds.Token {
		t.Errorf("expected token %q, got %q ok=%v", creds.Token, token, ok)
	}

	// Both entries must be on disk.
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if string(data) != creds.Token {
		t.Errorf("persisted token %q, want %q", data, creds.Token)
	}
	if _, err := os.Stat(cfg.UserPath()); err != nil {
		t.Errorf("user profile not persisted: %v", err)
	}
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	store, _ := newStore(t)
	svc := seededService()

	creds, err := store.Login(context.Background(), svc, "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, err = store.Login(context.Background(), svc, "a@b.com", "wrong")
	var authErr *service.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
	if authErr.Reason != "wrong password" {
		t.Errorf("expected wrong-password reason, got %q", authErr.Reason)
	}

	token, ok := store.Token()
	if !ok || token != creds.Token {
		t.Errorf("previous session should survive a failed login, got %q ok=%v", token, ok)
	}
}

func TestUserAndTokenSetAndClearedTogether(t *testing.T) {
	store, _ := newStore(t)
	svc := seededService()

	check := func(point string) {
		t.Helper()
		_, hasUser := store.User()
		_, hasToken := store.Token()
		if hasUser != hasToken {
			t.Errorf("%s: user present=%v but token present=%v", point, hasUser, hasToken)
		}
	}

	check("initial")

	if _, err := store.Login(context.Background(), svc, "a@b.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	check("after login")

	if _, err := store.Login(context.Background(), svc, "a@b.com", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}
	check("after failed login")

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	check("after logout")

	if _, err := store.Signup(context.Background(), svc, "Bob", "b@c.com", "hunter2"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	check("after signup")
}

func TestSignupRegistersThenLogsIn(t *testing.T) {
	store, _ := newStore(t)
	svc := testutil.NewFakeService()

	creds, err := store.Signup(context.Background(), svc, "Bob", "b@c.com", "hunter2")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if creds.User.Name != "Bob" {
		t.Errorf("expected Bob, got %+v", creds.User)
	}
	if !store.Authenticated() {
		t.Error("expected a session after signup")
	}

	if got := svc.Calls("register"); got != 1 {
		t.Errorf("expected 1 register call, got %d", got)
	}
	if got := svc.Calls("login"); got != 1 {
		t.Errorf("expected 1 login call after registration, got %d", got)
	}
}

func TestSignupConflict(t *testing.T) {
	store, _ := newStore(t)
	svc := seededService()

	_, err := store.Signup(context.Background(), svc, "Other", "a@b.com", "pw")
	var conflict *service.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if store.Authenticated() {
		t.Error("no session should exist after a failed signup")
	}
}

func TestLogoutRemovesPersistedSession(t *testing.T) {
	store, cfg := newStore(t)
	svc := seededService()

	if _, err := store.Login(context.Background(), svc, "a@b.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, ok := store.Token(); ok {
		t.Error("token should be absent after logout")
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("token file should be removed")
	}
	if _, err := os.Stat(cfg.UserPath()); !os.IsNotExist(err) {
		t.Error("user file should be removed")
	}
}

func TestRestoreAdoptsPersistedSession(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	svc := seededService()

	first := session.New(cfg, nil)
	creds, err := first.Login(context.Background(), svc, "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	callsBefore := svc.TotalCalls()

	// A fresh process, same config dir.
	second := session.New(cfg, nil)
	ok, err := second.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a restored session")
	}

	user, _ := second.User()
	token, _ := second.Token()
	if user.Email != "a@b.com" || token != creds.Token {
		t.Errorf("restored session mismatch: user=%+v token=%q", user, token)
	}

	// Restore adopts without re-validating against the remote.
	if svc.TotalCalls() != callsBefore {
		t.Errorf("restore should make no network calls")
	}
}

func TestRestoreWithNoSession(t *testing.T) {
	store, _ := newStore(t)
	ok, err := store.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if ok || store.Authenticated() {
		t.Error("expected no session")
	}
}

func TestRestoreHalfSessionIsTreatedAsAbsent(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	if err := os.WriteFile(cfg.TokenPath(), []byte("t1"), 0600); err != nil {
		t.Fatal(err)
	}

	store := session.New(cfg, nil)
	ok, err := store.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if ok || store.Authenticated() {
		t.Error("a token without a profile must not become a session")
	}
	if _, err := os.Stat(cfg.TokenPath()); !os.IsNotExist(err) {
		t.Error("the orphaned token file should be cleaned up")
	}
}

func TestTransitionEvents(t *testing.T) {
	store, _ := newStore(t)
	svc := seededService()

	var events []session.Event
	store.Subscribe(func(ctx context.Context, e session.Event) {
		events = append(events, e)
	})

	if _, err := store.Login(context.Background(), svc, "a@b.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	// A second login replaces the token, which is a transition too.
	if _, err := store.Login(context.Background(), svc, "a@b.com", "secret"); err != nil {
		t.Fatalf("relogin failed: %v", err)
	}
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	// Logout with no session is not a transition.
	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}

	want := []session.Event{session.Established, session.Established, session.Cleared}
	if len(events) != len(want) {
		t.Fatalf("expected events %v, got %v", want, events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %v, got %v", i, want[i], events[i])
		}
	}
}

func TestTokenSource(t *testing.T) {
	store, _ := newStore(t)
	src := store.TokenSource()

	if _, err := src.Token(); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}

	svc := seededService()
	creds, err := store.Login(context.Background(), svc, "a@b.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	tok, err := src.Token()
	if err != nil {
		t.Fatalf("token source failed: %v", err)
	}
	if tok.AccessToken != creds.Token || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token: %+v", tok)
	}
}
