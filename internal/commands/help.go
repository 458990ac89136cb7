package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kazam/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return []string{"-h", "--help"} }
func (c *HelpCmd) Synopsis() string  { return "Show help" }
func (c *HelpCmd) Usage() string     { return "kazam help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage: kazam <command> [flags] [args]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-10s %s\n", cmd.Name(), cmd.Synopsis())
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Common flags:")
	fmt.Fprintln(out, "  --config <dir>   Config directory (default: ~/.config/kazam)")
	fmt.Fprintln(out, "  --api <url>      API base URL (default: $KAZAM_API_URL)")
	fmt.Fprintln(out, "  --quiet          Suppress informational output")
	fmt.Fprintln(out, "  --debug          Enable debug logging")
	return exitcode.Success
}
