package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kazam/internal/exitcode"
	"kazam/internal/output"
	"kazam/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: a full fetch from the remote
// store, replacing the local collection, then a print of the result.
type ListCmd struct {
	status string
}

// SetStatus sets the display filter (for testing).
func (c *ListCmd) SetStatus(s string) {
	c.status = s
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "kazam list [--status pending|completed]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	filter := service.Status(c.status)
	if c.status != "" && !filter.Valid() {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}

	items, err := env.Tasks.List(ctx)
	if err != nil {
		return fail(errOut, err)
	}

	// The filter only narrows the display; the collection itself keeps
	// the full server-ordered response.
	shown := 0
	for i, task := range items {
		if filter != "" && task.Status != filter {
			continue
		}
		output.FormatTask(out, i+1, task)
		shown++
	}

	if shown == 0 && !env.Cfg.Quiet {
		fmt.Fprintln(out, "no tasks")
	}
	return exitcode.Success
}
