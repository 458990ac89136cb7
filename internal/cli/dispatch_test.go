package cli_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"kazam/internal/cli"
	"kazam/internal/commands"
	"kazam/internal/config"
	"kazam/internal/exitcode"
	"kazam/internal/service"
	"kazam/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, src oauth2.TokenSource, logger *slog.Logger) (service.Service, error) {
		return svc, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "unknowncmd")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: unknowncmd\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "--quiet")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown command: --quiet\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_HelpAlias(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, _, code := run(t, dispatcher, "--help", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "list", "--bogus")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: -bogus\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher, "list", "--status")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "flag needs an argument") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_AuthPreflight(t *testing.T) {
	svc := testutil.NewFakeService()
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	_, stderr, code := run(t, dispatcher, "list", "--config", t.TempDir())
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: not logged in (run: kazam login)\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected zero network requests, got %d", svc.TotalCalls())
	}
}

func TestDispatcher_NoArgsDispatchesToList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, dispatcher)
	if code != exitcode.AuthError {
		t.Errorf("expected auth preflight to fire for bare invocation, got %d", code)
	}
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestDispatcher_LocalCommandsStayOffTheNetwork(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedUser("Alice", "a@b.com", "secret")
	svc.AddTask("42", "Buy milk")

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dir := t.TempDir()

	if _, stderr, code := run(t, dispatcher, "login", "--config", dir, "--password", "secret", "a@b.com"); code != exitcode.Success {
		t.Fatalf("login failed with code %d (stderr: %q)", code, stderr)
	}
	callsAfterLogin := svc.TotalCalls()

	// whoami and help restore the stored session but must not fetch
	// the collection.
	for _, cmdName := range []string{"whoami", "help", "version"} {
		if _, stderr, code := run(t, dispatcher, cmdName, "--config", dir); code != exitcode.Success {
			t.Fatalf("%s failed with code %d (stderr: %q)", cmdName, code, stderr)
		}
	}
	if got := svc.TotalCalls(); got != callsAfterLogin {
		t.Errorf("local commands made %d network calls", got-callsAfterLogin)
	}
}

func TestDispatcher_SessionPersistsAcrossRuns(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.SeedUser("Alice", "a@b.com", "secret")
	svc.AddTask("42", "Buy milk")

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dir := t.TempDir()

	// Login persists the session to the config dir.
	stdout, stderr, code := run(t, dispatcher, "login", "--config", dir, "--password", "secret", "a@b.com")
	if code != exitcode.Success {
		t.Fatalf("login failed with code %d (stderr: %q)", code, stderr)
	}
	if stdout != "logged in as a@b.com\n" {
		t.Errorf("unexpected login output: %q", stdout)
	}

	// A later invocation restores it without logging in again.
	stdout, stderr, code = run(t, dispatcher, "whoami", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("whoami failed with code %d (stderr: %q)", code, stderr)
	}
	if stdout != "Alice <a@b.com>\n" {
		t.Errorf("unexpected whoami output: %q", stdout)
	}

	// And the collection is live for task commands.
	stdout, stderr, code = run(t, dispatcher, "list", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("list failed with code %d (stderr: %q)", code, stderr)
	}
	if !strings.Contains(stdout, "Buy milk") {
		t.Errorf("expected the task in list output, got %q", stdout)
	}

	// Logout removes the persisted session; task commands stop working.
	if _, _, code := run(t, dispatcher, "logout", "--config", dir); code != exitcode.Success {
		t.Fatalf("logout failed with code %d", code)
	}
	_, stderr, code = run(t, dispatcher, "list", "--config", dir)
	if code != exitcode.AuthError {
		t.Errorf("expected auth error after logout, got %d", code)
	}
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}
