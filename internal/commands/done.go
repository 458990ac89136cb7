package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kazam/internal/exitcode"
	"kazam/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "kazam done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	return runUpdateStatus(ctx, env, args, service.StatusCompleted, out, errOut)
}

// runUpdateStatus is the shared implementation for done and reopen.
func runUpdateStatus(ctx context.Context, env *Env, args []string, status service.Status, out, errOut io.Writer) int {
	id, err := ResolveTaskRef(args, env.Tasks.Tasks())
	if err != nil {
		if err == ErrTaskRefRequired {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}

	if err := env.Tasks.UpdateStatus(ctx, id, status); err != nil {
		return fail(errOut, err)
	}

	if !env.Cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
