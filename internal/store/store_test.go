package store

import (
	"context"
	"testing"
	"time"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not asserted here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOutcomeAppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.OutcomeRepo()
	ctx := context.Background()

	outcomes, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(outcomes) != 0 {
		t.Fatalf("expected empty history, got %d", len(outcomes))
	}

	base := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"sess-1", "sess-2", "sess-3"} {
		err := repo.Append(ctx, &Outcome{
			SessionID: id,
			Exercise:  exercise.WordAssociation,
			Responses: []session.Response{
				{Prompt: "Fire", Text: "truck", TimeSpentSec: 3},
			},
			CompletedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	outcomes, err = repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("len = %d, want 3", len(outcomes))
	}
	// Most recent first.
	if outcomes[0].SessionID != "sess-3" {
		t.Errorf("first = %s, want sess-3", outcomes[0].SessionID)
	}
	if outcomes[0].Exercise != exercise.WordAssociation {
		t.Errorf("exercise = %s", outcomes[0].Exercise)
	}
	if len(outcomes[0].Responses) != 1 || outcomes[0].Responses[0].Text != "truck" {
		t.Errorf("responses = %+v", outcomes[0].Responses)
	}

	limited, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited len = %d, want 2", len(limited))
	}
}
