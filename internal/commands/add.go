package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"kazam/internal/exitcode"
	"kazam/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	desc   string
	due    string
	status string
}

// SetDesc sets the description (for testing).
func (c *AddCmd) SetDesc(s string) { c.desc = s }

// SetDue sets the due date (for testing).
func (c *AddCmd) SetDue(s string) { c.due = s }

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "kazam add --due <date> --desc <text> [--status pending|completed] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.status, "status", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	// The web form required every field; keep that at the command level.
	if strings.TrimSpace(c.desc) == "" {
		fmt.Fprintln(errOut, "error: description required (--desc)")
		return exitcode.UserError
	}
	if strings.TrimSpace(c.due) == "" {
		fmt.Fprintln(errOut, "error: due date required (--due)")
		return exitcode.UserError
	}

	due, err := parseDate(c.due)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid due date: %s\n", c.due)
		return exitcode.UserError
	}

	status := service.Status(c.status)
	if c.status != "" && !status.Valid() {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
		return exitcode.UserError
	}

	created, err := env.Tasks.Create(ctx, service.TaskDraft{
		Title:       title,
		Description: c.desc,
		Status:      status,
		DueDate:     due,
	})
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Cfg.Quiet {
		fmt.Fprintf(out, "created %s\n", created.ID)
	}
	return exitcode.Success
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", s)
}
