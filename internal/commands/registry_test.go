package commands_test

import (
	"context"
	"flag"
	"io"
	"testing"

	"kazam/internal/commands"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c *stubCmd) Name() string                { return c.name }
func (c *stubCmd) Aliases() []string           { return c.aliases }
func (c *stubCmd) Synopsis() string            { return "" }
func (c *stubCmd) Usage() string               { return "" }
func (c *stubCmd) NeedsAuth() bool             { return false }
func (c *stubCmd) RegisterFlags(*flag.FlagSet) {}
func (c *stubCmd) Run(ctx context.Context, env *commands.Env, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistryResolvesAliases(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for _, name := range []string{"list", "ls"} {
		cmd, ok := r.Find(name)
		if !ok || cmd.Name() != "list" {
			t.Errorf("%s: expected the list command, got %v ok=%v", name, cmd, ok)
		}
	}
	if _, ok := r.Find("missing"); ok {
		t.Error("unregistered name should not resolve")
	}
}

func TestRegistryRejectsCollisions(t *testing.T) {
	r := commands.NewRegistry()
	if err := r.Register(&stubCmd{name: "list", aliases: []string{"ls"}}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := r.Register(&stubCmd{name: "list"}); err == nil {
		t.Error("expected an error for a duplicate primary name")
	}
	if err := r.Register(&stubCmd{name: "other", aliases: []string{"ls"}}); err == nil {
		t.Error("expected an error for an alias colliding with a name")
	}
	// The rejected command must not be resolvable under any name.
	if _, ok := r.Find("other"); ok {
		t.Error("rejected command should leave the registry untouched")
	}
}

func TestRegistryAllSortsByName(t *testing.T) {
	r := commands.NewRegistry()
	for _, name := range []string{"rm", "add", "list"} {
		if err := r.Register(&stubCmd{name: name}); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	all := r.All()
	want := []string{"add", "list", "rm"}
	if len(all) != len(want) {
		t.Fatalf("expected %d commands, got %d", len(want), len(all))
	}
	for i, name := range want {
		if all[i].Name() != name {
			t.Errorf("position %d: expected %s, got %s", i, name, all[i].Name())
		}
	}
}
