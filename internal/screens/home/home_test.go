package home

import (
	"context"
	"strings"
	"testing"

	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/progress"
	sess "github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/store"
)

// fakeOutcomes reports a configurable number of completed sessions.
type fakeOutcomes struct {
	n int
}

func (f *fakeOutcomes) Append(ctx context.Context, o *store.Outcome) error {
	f.n++
	return nil
}

func (f *fakeOutcomes) List(ctx context.Context, limit int) ([]store.Outcome, error) {
	return make([]store.Outcome, f.n), nil
}

func newHome(ps sess.ProgressStore, outcomes store.OutcomeRepo) *HomeScreen {
	wat := exercise.DefaultSettings(exercise.WordAssociation)
	srt := exercise.DefaultSettings(exercise.SituationReaction)
	return New(wat, srt, nil, nil, ps, nil, outcomes)
}

func TestInProgressMarkerRefreshesOnInit(t *testing.T) {
	ps := progress.NewMemoryStore()
	key := sess.ProgressKey(exercise.WordAssociation)
	if err := ps.Save(key, &sess.Snapshot{Prompts: []string{"Fire"}}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	h := newHome(ps, &fakeOutcomes{})
	if !strings.Contains(h.View(80, 24), "(in progress)") {
		t.Fatal("expected in-progress marker for saved snapshot")
	}

	// The session finishes elsewhere and its snapshot is cleared; the
	// marker must be gone when the screen regains focus.
	if err := ps.Clear(key); err != nil {
		t.Fatalf("clear snapshot: %v", err)
	}
	h.Init()
	if strings.Contains(h.View(80, 24), "(in progress)") {
		t.Error("expected marker to clear after Init re-reads the store")
	}
}

func TestSessionCountRefreshesOnInit(t *testing.T) {
	outcomes := &fakeOutcomes{n: 1}
	h := newHome(progress.NewMemoryStore(), outcomes)
	if !strings.Contains(h.View(80, 24), "1 sessions completed") {
		t.Fatal("expected initial session count of 1")
	}

	outcomes.n = 2
	h.Init()
	if !strings.Contains(h.View(80, 24), "2 sessions completed") {
		t.Error("expected session count to refresh to 2 after Init")
	}
}

func TestNoDatabaseDisablesHistory(t *testing.T) {
	h := newHome(progress.NewMemoryStore(), nil)

	view := h.View(80, 24)
	if !strings.Contains(view, "History  (no database)") {
		t.Error("expected disabled history entry without a database")
	}
	if strings.Contains(view, "sessions completed") {
		t.Error("expected no session count without a database")
	}
}
