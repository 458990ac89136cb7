// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"kazam/internal/service"
)

// FormatTask formats a numbered task line.
// Format: "{N:>4}  [x] {TITLE}  (due {DATE})  {ID}\n" with "[ ]" for
// pending tasks and the due-date segment omitted when unset.
func FormatTask(w io.Writer, num int, task service.Task) {
	box := " "
	if task.Status == service.StatusCompleted {
		box = "x"
	}

	line := fmt.Sprintf("%4d  [%s] %s", num, box, normalizeTitle(task.Title))
	if !task.DueDate.IsZero() {
		line += fmt.Sprintf("  (due %s)", task.DueDate.Format("2006-01-02"))
	}
	if task.ID != "" {
		line += "  " + task.ID
	}
	fmt.Fprintln(w, line)
}

// FormatUser formats the signed-in user for whoami.
func FormatUser(w io.Writer, user service.User) {
	fmt.Fprintf(w, "%s <%s>\n", user.Name, user.Email)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
