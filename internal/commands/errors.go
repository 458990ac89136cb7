package commands

import (
	"errors"
	"fmt"
	"io"

	"kazam/internal/exitcode"
	"kazam/internal/service"
)

// fail prints a classified error and returns the matching exit code.
// Validation, not-found and conflict failures are user errors;
// missing or rejected credentials are auth errors; everything else is
// a backend error.
func fail(errOut io.Writer, err error) int {
	var (
		validationErr *service.ValidationError
		authErr       *service.AuthenticationError
		conflictErr   *service.ConflictError
	)

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		fmt.Fprintln(errOut, "error: not logged in (run: kazam login)")
		return exitcode.AuthError
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &validationErr), errors.As(err, &conflictErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.As(err, &authErr):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}
