// Package session implements the assessment session controller: the
// state machine that sequences prompts, enforces per-item time budgets,
// captures responses, persists in-flight progress, and submits the
// completed session.
//
// The controller exposes pure transition methods. It never schedules
// its own timers or goroutines; the hosting screen wires key events and
// one-second ticks to Submit, Skip, Tick and friends, so every
// transition runs on the host's single update loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psyprep/psyprep/internal/clock"
	"github.com/psyprep/psyprep/internal/exercise"
)

// ErrSubmissionInFlight is returned when a submission attempt is issued
// while another is still outstanding.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrNotSubmitting is returned when SubmitSession is called outside the
// Submitting state.
var ErrNotSubmitting = errors.New("session is not awaiting submission")

// Config carries the controller's injected collaborators. No globals:
// everything the controller touches comes in here.
type Config struct {
	Settings  exercise.Settings
	Source    PromptSource
	Submitter Submitter
	Store     ProgressStore

	// Now overrides the wall clock. Nil means time.Now.
	Now func() time.Time
}

// Controller owns the lifecycle of one practice session.
type Controller struct {
	settings  exercise.Settings
	source    PromptSource
	submitter Submitter
	store     ProgressStore
	now       func() time.Time

	state     State
	prompts   []string
	index     int
	responses []Response
	buffer    string

	countdown     *clock.Countdown // nil for untimed exercises
	promptShownAt time.Time

	submitInFlight bool
	submitErr      error
	sessionID      string
}

// New creates a controller in the Ready state.
func New(cfg Config) *Controller {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	c := &Controller{
		settings:  cfg.Settings,
		source:    cfg.Source,
		submitter: cfg.Submitter,
		store:     cfg.Store,
		now:       now,
		state:     StateReady,
	}
	if cfg.Settings.Timed {
		c.countdown = clock.New(cfg.Settings.BudgetSec)
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Settings returns the exercise settings the controller was built with.
func (c *Controller) Settings() exercise.Settings { return c.settings }

// CurrentIndex returns the index of the current prompt.
func (c *Controller) CurrentIndex() int { return c.index }

// PromptCount returns the number of prompts in the session.
func (c *Controller) PromptCount() int { return len(c.prompts) }

// CurrentPrompt returns the prompt awaiting a response, or "" if none.
func (c *Controller) CurrentPrompt() string {
	if c.index < 0 || c.index >= len(c.prompts) {
		return ""
	}
	return c.prompts[c.index]
}

// Responses returns a copy of the captured responses.
func (c *Controller) Responses() []Response {
	out := make([]Response, len(c.responses))
	copy(out, c.responses)
	return out
}

// Input returns the current input buffer.
func (c *Controller) Input() string { return c.buffer }

// TimeLeft returns the countdown's remaining seconds. ok is false for
// untimed exercises.
func (c *Controller) TimeLeft() (secs int, ok bool) {
	if c.countdown == nil {
		return 0, false
	}
	return c.countdown.Remaining(), true
}

// SessionID returns the server-assigned identifier. Empty until the
// controller reaches Finished.
func (c *Controller) SessionID() string { return c.sessionID }

// SubmitErr returns the error from the last failed submission attempt,
// or nil.
func (c *Controller) SubmitErr() error { return c.submitErr }

// SavedSnapshot returns a previously persisted snapshot for this
// exercise kind, or nil when none exists. Corrupt stored data reads as
// absent (the store discards it), so the fresh-start path is taken.
func (c *Controller) SavedSnapshot() *Snapshot {
	snap, ok, err := c.store.Load(ProgressKey(c.settings.Kind))
	if err != nil || !ok {
		return nil
	}
	return snap
}

// Start fetches a fresh prompt sequence and enters Running. On failure
// the controller stays Ready and the error is returned for the caller
// to surface; the session can be started again.
func (c *Controller) Start(ctx context.Context) error {
	if c.state != StateReady {
		return fmt.Errorf("cannot start from state %s", c.state)
	}

	prompts, err := c.source.FetchPrompts(ctx, c.settings.Kind)
	if err != nil {
		return fmt.Errorf("fetch prompts: %w", err)
	}
	if len(prompts) == 0 {
		return errors.New("prompt source returned an empty sequence")
	}

	c.prompts = prompts
	c.index = 0
	c.responses = nil
	c.buffer = ""
	c.state = StateRunning
	c.promptShownAt = c.now()
	if c.countdown != nil {
		c.countdown.Reset()
	}
	c.persist()
	return nil
}

// Resume restores state verbatim from a persisted snapshot and enters
// Running. The countdown restarts at the saved remaining value. A
// snapshot captured after the last prompt (a session that was fully
// answered but never accepted by the server) resumes straight into
// Submitting.
func (c *Controller) Resume(snap *Snapshot) error {
	if c.state != StateReady {
		return fmt.Errorf("cannot resume from state %s", c.state)
	}
	if snap == nil || len(snap.Prompts) == 0 {
		return errors.New("snapshot has no prompts")
	}
	if len(snap.Responses) != snap.CurrentIndex {
		return fmt.Errorf("snapshot is inconsistent: %d responses at index %d",
			len(snap.Responses), snap.CurrentIndex)
	}
	if snap.CurrentIndex > len(snap.Prompts) {
		return errors.New("snapshot index is out of range")
	}

	c.prompts = snap.Prompts
	c.index = snap.CurrentIndex
	c.responses = append([]Response(nil), snap.Responses...)
	c.buffer = ""

	if c.index >= len(c.prompts) {
		c.state = StateSubmitting
		c.persist()
		return nil
	}

	c.state = StateRunning
	c.promptShownAt = c.now()
	if c.countdown != nil {
		remaining := c.settings.BudgetSec
		if snap.TimeLeft != nil {
			remaining = *snap.TimeLeft
		}
		// A restored zero would latch the countdown as already expired,
		// leaving an item that can never auto-advance.
		if remaining < 1 {
			remaining = 1
		}
		c.countdown.Start(remaining)
	}
	c.persist()
	return nil
}

// Discard removes any persisted snapshot so the next Start is fresh.
func (c *Controller) Discard() error {
	return c.store.Clear(ProgressKey(c.settings.Kind))
}

// SetInput replaces the input buffer for the current prompt. Accepted
// only while Running.
func (c *Controller) SetInput(text string) {
	if c.state != StateRunning {
		return
	}
	c.buffer = text
}

// Submit captures the buffered response for the current prompt and
// advances. A response failing the kind's minimum constraints cannot be
// submitted: the call is a no-op and returns false.
func (c *Controller) Submit() bool {
	if c.state != StateRunning {
		return false
	}
	if !c.settings.AcceptsResponse(c.buffer) {
		return false
	}
	c.advance()
	return true
}

// Skip advances past the current prompt regardless of the buffer's
// content. Used for externally triggered skips.
func (c *Controller) Skip() {
	if c.state != StateRunning {
		return
	}
	c.advance()
}

// Tick consumes one second of the countdown. When the budget reaches
// zero the controller forces an advance with whatever has been typed,
// even an empty response; expiry always wins over the constraints that
// gate explicit submits. Returns true when the tick caused an advance.
func (c *Controller) Tick() bool {
	if c.state != StateRunning || c.countdown == nil {
		return false
	}
	if !c.countdown.Tick() {
		return false
	}
	c.advance()
	return true
}

// Pause freezes the countdown. Timed exercises only; untimed sessions
// have no Paused state.
func (c *Controller) Pause() {
	if c.state != StateRunning || c.countdown == nil {
		return
	}
	c.countdown.Stop()
	c.state = StatePaused
	c.persist()
}

// Unpause resumes the countdown from its frozen value.
func (c *Controller) Unpause() {
	if c.state != StatePaused {
		return
	}
	c.countdown.Start(c.countdown.Remaining())
	c.state = StateRunning
	c.persist()
}

// advance is the single atomic step that appends the response for the
// current prompt and moves the index. The last prompt's advance enters
// Submitting instead of arming the next countdown.
func (c *Controller) advance() {
	c.responses = append(c.responses, Response{
		Prompt:       c.prompts[c.index],
		Text:         c.buffer,
		TimeSpentSec: c.elapsedSeconds(),
	})
	c.index++
	c.buffer = ""

	if c.index >= len(c.prompts) {
		if c.countdown != nil {
			c.countdown.Stop()
		}
		c.state = StateSubmitting
		c.persist()
		return
	}

	c.promptShownAt = c.now()
	if c.countdown != nil {
		c.countdown.Reset()
	}
	c.persist()
}

// elapsedSeconds computes the time spent on the current prompt: for
// timed exercises it is budget minus remaining, floored at zero; for
// untimed ones, the wall-clock delta since the prompt became current.
func (c *Controller) elapsedSeconds() int {
	if c.countdown != nil {
		spent := c.settings.BudgetSec - c.countdown.Remaining()
		if spent < 0 {
			spent = 0
		}
		return spent
	}
	spent := int(c.now().Sub(c.promptShownAt).Seconds())
	if spent < 0 {
		spent = 0
	}
	return spent
}

// SubmitSession hands the accumulated responses to the submitter. The
// submitter implementation owns the automatic retry policy; when it
// gives up, the controller stays in Submitting with the responses and
// snapshot intact so this method can be called again for a manual
// retry. At most one attempt is outstanding at a time.
func (c *Controller) SubmitSession(ctx context.Context) (string, error) {
	if c.state != StateSubmitting {
		return "", ErrNotSubmitting
	}
	if c.submitInFlight {
		return "", ErrSubmissionInFlight
	}
	c.submitInFlight = true
	defer func() { c.submitInFlight = false }()

	id, err := c.submitter.SaveSession(ctx, c.settings.Kind, c.Responses())
	if err != nil {
		c.submitErr = err
		return "", fmt.Errorf("save session: %w", err)
	}

	c.submitErr = nil
	c.sessionID = id
	c.state = StateFinished
	_ = c.store.Clear(ProgressKey(c.settings.Kind))
	return id, nil
}

// snapshot captures the current progress for persistence.
func (c *Controller) snapshot() *Snapshot {
	snap := &Snapshot{
		Version:      SnapshotVersion,
		Exercise:     c.settings.Kind,
		CurrentIndex: c.index,
		Responses:    c.Responses(),
		Prompts:      c.prompts,
		SavedAt:      c.now(),
	}
	if c.countdown != nil {
		left := c.countdown.Remaining()
		snap.TimeLeft = &left
	}
	return snap
}

// persist mirrors the current state into the progress store. Runs after
// every mutation except while Finished; store failures never interrupt
// a transition.
func (c *Controller) persist() {
	if c.state == StateFinished || c.state == StateReady {
		return
	}
	_ = c.store.Save(ProgressKey(c.settings.Kind), c.snapshot())
}
