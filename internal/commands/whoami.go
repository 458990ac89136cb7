package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kazam/internal/exitcode"
	"kazam/internal/output"
)

func init() {
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the current session's user. Purely local, no
// network call; a stale token is only discovered by task commands.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the signed-in user" }
func (c *WhoamiCmd) Usage() string     { return "kazam whoami [common flags]" }
func (c *WhoamiCmd) NeedsAuth() bool   { return false }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	user, ok := env.Session.User()
	if !ok {
		fmt.Fprintln(out, "not logged in")
		return exitcode.Success
	}
	output.FormatUser(out, user)
	return exitcode.Success
}
