package commands_test

import (
	"strings"
	"testing"

	"kazam/internal/commands"
	"kazam/internal/service"
)

func refItems() []service.Task {
	return []service.Task{
		{ID: "abc123", Title: "Buy milk"},
		{ID: "abd456", Title: "Water plants"},
		{ID: "xyz789", Title: "Call mom"},
	}
}

func TestResolveTaskRef_ByNumber(t *testing.T) {
	id, err := commands.ResolveTaskRef([]string{"2"}, refItems())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != "abd456" {
		t.Errorf("expected abd456, got %s", id)
	}
}

func TestResolveTaskRef_NumberOutOfRange(t *testing.T) {
	for _, ref := range []string{"0", "4", "-1"} {
		if _, err := commands.ResolveTaskRef([]string{ref}, refItems()); err == nil {
			t.Errorf("expected out-of-range error for %q", ref)
		}
	}
}

func TestResolveTaskRef_ByID(t *testing.T) {
	id, err := commands.ResolveTaskRef([]string{"xyz789"}, refItems())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != "xyz789" {
		t.Errorf("expected xyz789, got %s", id)
	}
}

func TestResolveTaskRef_ByUniquePrefix(t *testing.T) {
	id, err := commands.ResolveTaskRef([]string{"xy"}, refItems())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != "xyz789" {
		t.Errorf("expected xyz789, got %s", id)
	}
}

func TestResolveTaskRef_AmbiguousPrefix(t *testing.T) {
	_, err := commands.ResolveTaskRef([]string{"ab"}, refItems())
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("expected ambiguous error, got %v", err)
	}
}

func TestResolveTaskRef_UnmatchedPassesThrough(t *testing.T) {
	// The server stays authoritative on whether an unknown id exists.
	id, err := commands.ResolveTaskRef([]string{"zzz000"}, refItems())
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id != "zzz000" {
		t.Errorf("expected pass-through, got %s", id)
	}
}

func TestResolveTaskRef_Missing(t *testing.T) {
	if _, err := commands.ResolveTaskRef(nil, refItems()); err != commands.ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}
