package session

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/psyprep/psyprep/internal/api"
	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/router"
	"github.com/psyprep/psyprep/internal/screen"
	"github.com/psyprep/psyprep/internal/screens/report"
	sess "github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/store"
	"github.com/psyprep/psyprep/internal/ui/components"
	"github.com/psyprep/psyprep/internal/ui/layout"
)

// PracticeScreen hosts one exercise session. The controller owns every
// state transition; this screen only wires key events and ticks into it
// and renders what it reports.
type PracticeScreen struct {
	ctrl     *sess.Controller
	analyzer api.Analyzer
	outcomes store.OutcomeRepo

	input components.TextInput
	area  components.TextArea

	pendingSnap   *sess.Snapshot
	showingResume bool
	showingPause  bool
	starting      bool
	submitting    bool
	errMsg        string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen with injected dependencies.
func New(settings exercise.Settings, source sess.PromptSource, submitter sess.Submitter, progress sess.ProgressStore, analyzer api.Analyzer, outcomes store.OutcomeRepo) *PracticeScreen {
	ctrl := sess.New(sess.Config{
		Settings:  settings,
		Source:    source,
		Submitter: submitter,
		Store:     progress,
	})
	s := &PracticeScreen{
		ctrl:     ctrl,
		analyzer: analyzer,
		outcomes: outcomes,
		input:    components.NewTextInput("Your first association...", 80),
		area:     components.NewTextArea("What would you do?", 70, 6),
	}
	s.pendingSnap = ctrl.SavedSnapshot()
	s.showingResume = s.pendingSnap != nil
	return s
}

func (s *PracticeScreen) Title() string {
	return s.ctrl.Settings().Kind.Title()
}

func (s *PracticeScreen) Init() tea.Cmd {
	if s.showingResume {
		return nil
	}
	return tea.Batch(s.startCmd(), s.activeInput().Init())
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.showingResume:
		return []layout.KeyHint{
			{Key: "R", Description: "Resume"},
			{Key: "D", Description: "Start over"},
		}
	case s.showingPause:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Q", Description: "Save & exit"},
		}
	case s.submitFailed():
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Exit (progress kept)"},
		}
	case s.ctrl.Settings().Kind == exercise.SituationReaction:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+N", Description: "Skip"},
			{Key: "Esc", Description: "Pause"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Ctrl+N", Description: "Skip"},
			{Key: "Esc", Description: "Pause"},
		}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		return s.handleReady(msg)

	case timerTickMsg:
		return s.handleTick()

	case submitResultMsg:
		return s.handleSubmitResult(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Forward everything else to the focused text component.
	if s.inputActive() {
		cmd := s.updateInput(msg)
		return s, cmd
	}
	return s, nil
}

// inputActive reports whether keystrokes should reach the text component.
func (s *PracticeScreen) inputActive() bool {
	return s.ctrl.State() == sess.StateRunning &&
		!s.showingResume && !s.showingPause && !s.starting
}

func (s *PracticeScreen) activeInput() interface{ Init() tea.Cmd } {
	if s.ctrl.Settings().Kind == exercise.SituationReaction {
		return &s.area
	}
	return &s.input
}

// updateInput forwards a message to the text component and mirrors its
// value into the controller so an expiry advance captures partial text.
func (s *PracticeScreen) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.ctrl.Settings().Kind == exercise.SituationReaction {
		s.area, cmd = s.area.Update(msg)
		s.ctrl.SetInput(s.area.Value())
	} else {
		s.input, cmd = s.input.Update(msg)
		s.ctrl.SetInput(s.input.Value())
	}
	return cmd
}

func (s *PracticeScreen) resetInput() {
	s.input.Reset()
	s.area.Reset()
}

func (s *PracticeScreen) submitFailed() bool {
	return s.ctrl.State() == sess.StateSubmitting && !s.submitting && s.ctrl.SubmitErr() != nil
}

// startCmd fetches prompts off the update loop. The controller is not
// read again until sessionReadyMsg lands.
func (s *PracticeScreen) startCmd() tea.Cmd {
	s.starting = true
	ctrl := s.ctrl
	return func() tea.Msg {
		return sessionReadyMsg{Err: ctrl.Start(context.Background())}
	}
}

func (s *PracticeScreen) handleReady(msg sessionReadyMsg) (screen.Screen, tea.Cmd) {
	s.starting = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if s.ctrl.Settings().Timed {
		return s, tickCmd()
	}
	return s, nil
}

func (s *PracticeScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.ctrl.State() != sess.StateRunning {
		return s, nil
	}
	if s.ctrl.Tick() {
		s.resetInput()
		if s.ctrl.State() == sess.StateSubmitting {
			return s, s.submitCmd()
		}
	}
	return s, tickCmd()
}

// submitCmd runs one submission attempt (the submitter's retry policy
// included) off the update loop.
func (s *PracticeScreen) submitCmd() tea.Cmd {
	s.submitting = true
	ctrl := s.ctrl
	outcomes := s.outcomes
	return func() tea.Msg {
		id, err := ctrl.SubmitSession(context.Background())
		if err != nil {
			return submitResultMsg{Err: err}
		}
		// Local history is best effort; the server already has the session.
		if outcomes != nil {
			_ = outcomes.Append(context.Background(), &store.Outcome{
				SessionID:   id,
				Exercise:    ctrl.Settings().Kind,
				Responses:   ctrl.Responses(),
				CompletedAt: time.Now(),
			})
		}
		return submitResultMsg{SessionID: id}
	}
}

func (s *PracticeScreen) handleSubmitResult(msg submitResultMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err != nil {
		// The controller stays in Submitting with responses intact;
		// the failure overlay offers a manual retry.
		return s, nil
	}
	reportScreen := report.New(s.analyzer, msg.SessionID, s.ctrl.Settings().Kind, s.ctrl.Responses())
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: reportScreen}
	}
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.showingResume {
		switch key {
		case "r", "R", "enter":
			s.showingResume = false
			if err := s.ctrl.Resume(s.pendingSnap); err != nil {
				// Unusable snapshot: drop it and start fresh.
				_ = s.ctrl.Discard()
				return s, tea.Batch(s.startCmd(), s.activeInput().Init())
			}
			if s.ctrl.State() == sess.StateSubmitting {
				return s, s.submitCmd()
			}
			var cmds []tea.Cmd
			cmds = append(cmds, s.activeInput().Init())
			if s.ctrl.Settings().Timed {
				cmds = append(cmds, tickCmd())
			}
			return s, tea.Batch(cmds...)
		case "d", "D":
			s.showingResume = false
			_ = s.ctrl.Discard()
			return s, tea.Batch(s.startCmd(), s.activeInput().Init())
		}
		return s, nil
	}

	if s.showingPause {
		switch key {
		case "enter", "esc":
			s.showingPause = false
			s.ctrl.Unpause()
			if s.ctrl.Settings().Timed {
				return s, tickCmd()
			}
			return s, nil
		case "q", "Q":
			// Progress is already persisted; just leave.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.submitFailed() {
		switch key {
		case "r", "R", "enter":
			return s, s.submitCmd()
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.starting || s.submitting {
		return s, nil
	}

	if s.ctrl.State() == sess.StateRunning {
		switch key {
		case "esc":
			s.ctrl.Pause()
			s.showingPause = true
			return s, nil
		case "ctrl+n":
			s.ctrl.Skip()
			s.resetInput()
			if s.ctrl.State() == sess.StateSubmitting {
				return s, s.submitCmd()
			}
			return s, nil
		case "enter":
			if s.ctrl.Settings().Kind != exercise.SituationReaction {
				return s.trySubmitItem()
			}
		case "ctrl+s":
			if s.ctrl.Settings().Kind == exercise.SituationReaction {
				return s.trySubmitItem()
			}
		}

		cmd := s.updateInput(msg)
		return s, cmd
	}

	return s, nil
}

// trySubmitItem submits the current response. Responses below the
// kind's minimum constraints are rejected by the controller and the
// input stays as typed.
func (s *PracticeScreen) trySubmitItem() (screen.Screen, tea.Cmd) {
	s.ctrl.SetInput(s.currentValue())
	if !s.ctrl.Submit() {
		return s, nil
	}
	s.resetInput()
	if s.ctrl.State() == sess.StateSubmitting {
		return s, s.submitCmd()
	}
	return s, nil
}

func (s *PracticeScreen) currentValue() string {
	if s.ctrl.Settings().Kind == exercise.SituationReaction {
		return s.area.Value()
	}
	return s.input.Value()
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
