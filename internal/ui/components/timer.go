package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/psyprep/psyprep/internal/ui/theme"
)

// urgentThreshold is the remaining fraction below which the bar turns red.
const urgentThreshold = 0.25

// TimerBar displays the remaining time of a countdown as a draining bar.
type TimerBar struct {
	Remaining int
	Budget    int
	Width     int
}

// NewTimerBar creates a timer bar for the given countdown state.
func NewTimerBar(remaining, budget, width int) TimerBar {
	return TimerBar{
		Remaining: remaining,
		Budget:    budget,
		Width:     width,
	}
}

// View renders the timer bar with the seconds left beside it.
func (t TimerBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("%2ds", t.Remaining))

	barWidth := t.Width - lipgloss.Width(label) - 2
	if barWidth < 4 {
		barWidth = 4
	}

	frac := 0.0
	if t.Budget > 0 {
		frac = float64(t.Remaining) / float64(t.Budget)
	}

	filled := int(float64(barWidth) * frac)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	fillStyle := theme.TimerCalm
	if frac < urgentThreshold {
		fillStyle = theme.TimerUrgent
	}

	bar := fillStyle.Render(strings.Repeat(" ", filled)) +
		theme.TimerEmpty.Render(strings.Repeat(" ", barWidth-filled))

	return label + "  " + bar
}
