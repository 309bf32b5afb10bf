// Package report renders the AI feedback for a submitted session. The
// analysis call is retried once automatically; beyond that the screen
// offers a manual retry so a flaky backend never strands the user.
package report

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/psyprep/psyprep/internal/api"
	"github.com/psyprep/psyprep/internal/exercise"
	rep "github.com/psyprep/psyprep/internal/report"
	"github.com/psyprep/psyprep/internal/router"
	"github.com/psyprep/psyprep/internal/screen"
	sess "github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/ui/layout"
	"github.com/psyprep/psyprep/internal/ui/theme"
)

// analysisMsg is sent when the analysis request completes.
type analysisMsg struct {
	Report *rep.Report
	Err    error
}

// ReportScreen shows the session summary and fetched analysis.
type ReportScreen struct {
	analyzer  api.Analyzer
	sessionID string
	kind      exercise.Kind
	responses []sess.Response

	report   *rep.Report
	fetching bool
	fetchErr error
	scroll   int
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)

// New creates a ReportScreen for a successfully submitted session.
func New(analyzer api.Analyzer, sessionID string, kind exercise.Kind, responses []sess.Response) *ReportScreen {
	return &ReportScreen{
		analyzer:  analyzer,
		sessionID: sessionID,
		kind:      kind,
		responses: responses,
	}
}

func (s *ReportScreen) Title() string {
	return "Report"
}

func (s *ReportScreen) Init() tea.Cmd {
	return s.fetchCmd()
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	if s.fetchErr != nil {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ReportScreen) fetchCmd() tea.Cmd {
	s.fetching = true
	s.fetchErr = nil
	analyzer := s.analyzer
	id := s.sessionID
	return func() tea.Msg {
		r, err := analyzer.AnalyzeSession(context.Background(), id)
		return analysisMsg{Report: r, Err: err}
	}
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analysisMsg:
		s.fetching = false
		if msg.Err != nil {
			s.fetchErr = msg.Err
			return s, nil
		}
		s.report = msg.Report
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			if s.fetchErr != nil {
				return s, s.fetchCmd()
			}
		case "up", "k":
			if s.scroll > 0 {
				s.scroll--
			}
		case "down", "j":
			s.scroll++
		}
	}
	return s, nil
}

func (s *ReportScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Title, fmt.Sprintf("%s — session complete", s.kind.Title())))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Subtitle, fmt.Sprintf("%d responses submitted", len(s.responses))))
	b.WriteString("\n\n")

	switch {
	case s.fetching:
		b.WriteString(centered(width, theme.Hint, "Analyzing your responses..."))
	case s.fetchErr != nil:
		b.WriteString(centered(width, theme.Bad, "Could not fetch the analysis"))
		b.WriteString("\n")
		b.WriteString(centered(width, theme.Subtitle, s.fetchErr.Error()))
		b.WriteString("\n\n")
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[R] Try again"))
	case s.report != nil:
		b.WriteString(s.renderReport(width, height))
	}

	return b.String()
}

func (s *ReportScreen) renderReport(width, height int) string {
	cw := min(width-8, 76)

	var lines []string
	summary := lipgloss.NewStyle().Width(cw).Foreground(theme.Text).Render(s.report.Summary)
	lines = append(lines, strings.Split(summary, "\n")...)
	lines = append(lines, "")

	for _, item := range s.report.Items {
		switch item.Kind {
		case rep.ItemRemark:
			remark := lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).
				Render("• " + item.Remark)
			lines = append(lines, strings.Split(remark, "\n")...)
		case rep.ItemTrait:
			head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
				Render("◆ " + item.Trait)
			lines = append(lines, head)
			obs := lipgloss.NewStyle().Width(cw).Foreground(theme.Text).
				Render("  " + item.Observation)
			lines = append(lines, strings.Split(obs, "\n")...)
			if item.Suggestion != "" {
				sug := lipgloss.NewStyle().Width(cw).Foreground(theme.Accent).
					Render("  → " + item.Suggestion)
				lines = append(lines, strings.Split(sug, "\n")...)
			}
		}
		lines = append(lines, "")
	}

	// Clamp scroll to keep at least one line visible.
	visible := height - 6
	if visible < 3 {
		visible = 3
	}
	maxScroll := len(lines) - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := s.scroll + visible
	if end > len(lines) {
		end = len(lines)
	}

	body := strings.Join(lines[s.scroll:end], "\n")
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
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
