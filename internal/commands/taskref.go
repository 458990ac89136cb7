package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kazam/internal/service"
)

// ErrTaskRefRequired is returned when no task reference was given.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTaskRef turns a task reference into a task ID. A reference is
// the 1-based number from the latest list output, a task ID, or a
// unique ID prefix. An unmatched non-numeric reference is passed
// through as-is and the server stays authoritative on whether it
// exists.
func ResolveTaskRef(args []string, items []service.Task) (string, error) {
	ref := strings.TrimSpace(strings.Join(args, " "))
	if ref == "" {
		return "", ErrTaskRefRequired
	}

	if num, err := strconv.Atoi(ref); err == nil {
		if num < 1 || num > len(items) {
			return "", fmt.Errorf("task number out of range: %d", num)
		}
		return items[num-1].ID, nil
	}

	var matches []string
	for _, t := range items {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return ref, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous task reference: %s", ref)
	}
}
