package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"kazam/internal/exitcode"
)

func init() {
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command. Registration alone does not
// yield a token, so the session store logs in with the same
// credentials right after.
type SignupCmd struct {
	password string
}

// SetPassword sets the password (for testing).
func (c *SignupCmd) SetPassword(p string) {
	c.password = p
}

func (c *SignupCmd) Name() string      { return "signup" }
func (c *SignupCmd) Aliases() []string { return []string{"register"} }
func (c *SignupCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *SignupCmd) Usage() string     { return "kazam signup --password <password> <name> <email>" }
func (c *SignupCmd) NeedsAuth() bool   { return false }

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(errOut, "error: name and email required")
		return exitcode.UserError
	}
	name := strings.TrimSpace(args[0])
	email := strings.TrimSpace(args[1])
	if name == "" || email == "" {
		fmt.Fprintln(errOut, "error: name and email required")
		return exitcode.UserError
	}
	if c.password == "" {
		fmt.Fprintln(errOut, "error: password required")
		return exitcode.UserError
	}

	creds, err := env.Session.Signup(ctx, env.Svc, name, email, c.password)
	if err != nil {
		return fail(errOut, err)
	}

	if !env.Cfg.Quiet {
		fmt.Fprintf(out, "signed up as %s\n", creds.User.Email)
	}
	return exitcode.Success
}
