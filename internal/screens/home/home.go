package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/psyprep/psyprep/internal/api"
	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/router"
	"github.com/psyprep/psyprep/internal/screen"
	"github.com/psyprep/psyprep/internal/screens/history"
	sessionscreen "github.com/psyprep/psyprep/internal/screens/session"
	sess "github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/store"
	"github.com/psyprep/psyprep/internal/ui/components"
	"github.com/psyprep/psyprep/internal/ui/theme"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	menu         components.Menu
	progress     sess.ProgressStore
	outcomes     store.OutcomeRepo
	sessionCount int
	inProgress   map[exercise.Kind]bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen. A nil outcomes repo means no database
// is available: history is disabled and no session count is shown.
func New(watSettings, srtSettings exercise.Settings, source sess.PromptSource, submitter sess.Submitter, progress sess.ProgressStore, analyzer api.Analyzer, outcomes store.OutcomeRepo) *HomeScreen {
	h := &HomeScreen{progress: progress, outcomes: outcomes}

	practiceItem := func(settings exercise.Settings) components.MenuItem {
		return components.MenuItem{Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: sessionscreen.New(settings, source, submitter, progress, analyzer, outcomes),
				}
			}
		}}
	}

	historyItem := components.MenuItem{Label: "History", Action: func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(outcomes)}
		}
	}}
	if outcomes == nil {
		historyItem = components.MenuItem{Label: "History  (no database)", Disabled: true}
	}

	items := []components.MenuItem{
		practiceItem(watSettings),
		practiceItem(srtSettings),
		historyItem,
		{Label: "Exit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

func menuLabel(kind exercise.Kind, inProgress map[exercise.Kind]bool) string {
	label := kind.Title()
	if inProgress[kind] {
		label += "  (in progress)"
	}
	return label
}

// refresh re-reads the saved-progress markers and the completed-session
// count. Both reads are local and cheap.
func (h *HomeScreen) refresh() {
	h.inProgress = make(map[exercise.Kind]bool)
	for _, kind := range []exercise.Kind{exercise.WordAssociation, exercise.SituationReaction} {
		if _, ok, _ := h.progress.Load(sess.ProgressKey(kind)); ok {
			h.inProgress[kind] = true
		}
	}

	h.sessionCount = 0
	if h.outcomes != nil {
		if past, err := h.outcomes.List(context.Background(), 0); err == nil {
			h.sessionCount = len(past)
		}
	}

	h.menu.Items[0].Label = menuLabel(exercise.WordAssociation, h.inProgress)
	h.menu.Items[1].Label = menuLabel(exercise.SituationReaction, h.inProgress)
}

// Init runs when the screen is created and again every time the router
// pops back to it, so markers and counts never go stale.
func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	title := theme.Title.Width(width).Render("PsyPrep")
	sections = append(sections, title)

	subtitle := theme.Subtitle.Width(width).
		Render("Psychometric practice for officer selection boards")
	sections = append(sections, subtitle)

	if h.sessionCount > 0 {
		stats := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("%d sessions completed", h.sessionCount))
		sections = append(sections, stats)
	}

	sections = append(sections, "")
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
