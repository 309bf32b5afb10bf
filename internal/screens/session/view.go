package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/psyprep/psyprep/internal/exercise"
	sess "github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/ui/components"
	"github.com/psyprep/psyprep/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.showingResume:
		return s.renderResumeDialog(width)
	case s.showingPause:
		return renderPause(width)
	case s.starting:
		return renderLoading(width)
	case s.submitting:
		return renderSubmitting(width)
	case s.submitFailed():
		return s.renderSubmitFailed(width)
	}

	if s.ctrl.State() != sess.StateRunning {
		return renderLoading(width)
	}
	if s.ctrl.Settings().Kind == exercise.SituationReaction {
		return s.renderSituationView(width)
	}
	return s.renderWordView(width)
}

// renderWordView renders a timed word-association item.
func (s *PracticeScreen) renderWordView(width int) string {
	var b strings.Builder

	b.WriteString(s.renderInfoLine(width, "Word"))
	b.WriteString("\n\n\n")

	promptStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(promptStyle.Render(s.ctrl.CurrentPrompt()))
	b.WriteString("\n\n")

	if left, ok := s.ctrl.TimeLeft(); ok {
		bar := components.NewTimerBar(left, s.ctrl.Settings().BudgetSec, min(width-8, 48))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
	return b.String()
}

// renderSituationView renders an untimed situation-reaction item.
func (s *PracticeScreen) renderSituationView(width int) string {
	var b strings.Builder

	b.WriteString(s.renderInfoLine(width, "Situation"))
	b.WriteString("\n\n")

	situation := lipgloss.NewStyle().
		Width(min(width-8, 72)).
		Foreground(theme.Text).
		Render(s.ctrl.CurrentPrompt())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Card.Render(situation)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.area.View()))
	b.WriteString("\n")

	// No per-item clock here, so show how far through the session we are.
	done := components.NewProgressBar("", float64(s.ctrl.CurrentIndex())/float64(s.ctrl.PromptCount()), false, min(width-8, 48))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, done.View()))
	b.WriteString("\n")

	settings := s.ctrl.Settings()
	words := len(strings.Fields(s.area.Value()))
	hint := fmt.Sprintf("%d words (minimum %d words, %d characters)",
		words, settings.MinWords, settings.MinChars)
	hintStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if settings.AcceptsResponse(s.area.Value()) {
		hintStyle = lipgloss.NewStyle().Foreground(theme.Success)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hintStyle.Render(hint)))
	return b.String()
}

// renderInfoLine renders the "<noun> 3/10" progress line.
func (s *PracticeScreen) renderInfoLine(width int, noun string) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + s.ctrl.Settings().Kind.Title())

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d/%d", noun, s.ctrl.CurrentIndex()+1, s.ctrl.PromptCount()))

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		pad = 1
	}
	line := left + strings.Repeat(" ", pad) + right
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
	return line + "\n" + divider
}

func (s *PracticeScreen) renderResumeDialog(width int) string {
	snap := s.pendingSnap

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Body.Bold(true), "Unfinished session found"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Subtitle,
		fmt.Sprintf("%s — %d of %d answered, saved %s",
			snap.Exercise.Title(), len(snap.Responses), len(snap.Prompts),
			snap.SavedAt.Format("Jan 02 15:04"))))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[R] Resume where you left off"))
	b.WriteString("\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "[D] Discard and start over"))
	return b.String()
}

func (s *PracticeScreen) renderSubmitFailed(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Bad, "Submission failed"))
	b.WriteString("\n")
	if err := s.ctrl.SubmitErr(); err != nil {
		b.WriteString(centered(width, theme.Subtitle, err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(centered(width, theme.Subtitle, "Your responses are saved locally."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[R] Try again"))
	b.WriteString("\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "[Esc] Exit — you can submit later"))
	return b.String()
}

func renderPause(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Body.Bold(true), "Paused"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Subtitle, "The clock is stopped."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[Enter] Continue"))
	b.WriteString("\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.TextDim), "[Q] Save & exit"))
	return b.String()
}

func renderLoading(width int) string {
	return centered(width, theme.Hint, "\n\n\n  Fetching prompts...")
}

func renderSubmitting(width int) string {
	return centered(width, theme.Hint, "\n\n\n  Submitting your session...")
}

func renderError(width int, errMsg string) string {
	return centered(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
