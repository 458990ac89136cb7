package commands

import (
	"context"
	"flag"
	"io"

	"kazam/internal/service"
)

func init() {
	Register(&ReopenCmd{})
}

// ReopenCmd implements the reopen command.
type ReopenCmd struct{}

func (c *ReopenCmd) Name() string      { return "reopen" }
func (c *ReopenCmd) Aliases() []string { return []string{"undone"} }
func (c *ReopenCmd) Synopsis() string  { return "Mark a task pending again" }
func (c *ReopenCmd) Usage() string     { return "kazam reopen <ref>" }
func (c *ReopenCmd) NeedsAuth() bool   { return true }

func (c *ReopenCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ReopenCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runUpdateStatus(ctx, env, args, service.StatusPending, out, errOut)
}
