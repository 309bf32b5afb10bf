package session

import (
	"context"
	"time"

	"github.com/psyprep/psyprep/internal/exercise"
)

// SnapshotVersion is bumped when the persisted snapshot layout changes.
const SnapshotVersion = 1

// State is the controller's lifecycle state.
type State int

const (
	// StateReady is the initial state: no prompts loaded yet.
	StateReady State = iota

	// StateRunning means a prompt is current and input is accepted.
	StateRunning

	// StatePaused freezes the countdown. Timed exercises only.
	StatePaused

	// StateSubmitting means all prompts are answered and the session
	// is being (or waiting to be) saved remotely.
	StateSubmitting

	// StateFinished is terminal: the remote store accepted the session.
	StateFinished
)

// String returns the state name for logs and test failures.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateSubmitting:
		return "submitting"
	case StateFinished:
		return "finished"
	}
	return "unknown"
}

// Response is the captured answer for one prompt. Created exactly once,
// when the controller advances past the prompt; immutable afterwards.
type Response struct {
	Prompt       string `json:"prompt"`
	Text         string `json:"text"`
	TimeSpentSec int    `json:"time_spent_seconds"`
}

// Snapshot is the persisted representation of an in-flight session.
// Invariant: len(Responses) == CurrentIndex, except transiently inside
// the single advance step that appends and increments together.
type Snapshot struct {
	Version      int           `json:"version"`
	Exercise     exercise.Kind `json:"exercise"`
	CurrentIndex int           `json:"current_index"`
	Responses    []Response    `json:"responses"`
	TimeLeft     *int          `json:"time_left"`
	Prompts      []string      `json:"prompts"`
	SavedAt      time.Time     `json:"saved_at"`
}

// ProgressKey returns the progress store key for an exercise kind.
// One key per kind, so concurrent session types do not collide.
func ProgressKey(kind exercise.Kind) string {
	return "progress:" + string(kind)
}

// PromptSource fetches the prompt sequence for a fresh session.
type PromptSource interface {
	FetchPrompts(ctx context.Context, kind exercise.Kind) ([]string, error)
}

// Submitter saves a completed session to the remote store and returns
// the server-assigned session identifier.
type Submitter interface {
	SaveSession(ctx context.Context, kind exercise.Kind, responses []Response) (string, error)
}

// ProgressStore is durable key-value persistence for in-flight sessions.
type ProgressStore interface {
	// Save serializes and stores the snapshot, overwriting any prior value.
	Save(key string, snap *Snapshot) error

	// Load returns the stored snapshot, or ok=false when absent.
	// Malformed stored data is treated as absent.
	Load(key string) (snap *Snapshot, ok bool, err error)

	// Clear removes the entry. Idempotent.
	Clear(key string) error
}
