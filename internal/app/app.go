package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/psyprep/psyprep/internal/api"
	"github.com/psyprep/psyprep/internal/config"
	"github.com/psyprep/psyprep/internal/exercise"
	"github.com/psyprep/psyprep/internal/progress"
	"github.com/psyprep/psyprep/internal/router"
	"github.com/psyprep/psyprep/internal/screen"
	"github.com/psyprep/psyprep/internal/screens/home"
	"github.com/psyprep/psyprep/internal/screens/welcome"
	sess "github.com/psyprep/psyprep/internal/session"
	"github.com/psyprep/psyprep/internal/store"
	"github.com/psyprep/psyprep/internal/ui/layout"
)

// Options carries the wired dependencies for the TUI. A nil Store means
// no database could be opened: progress is held in memory for this run
// and the history screen is disabled.
type Options struct {
	Config config.Config
	Store  *store.Store
	Client *api.Client
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel showing the welcome splash.
func newAppModel(opts Options) AppModel {
	var (
		progressStore sess.ProgressStore
		outcomes      store.OutcomeRepo
	)
	if opts.Store != nil {
		progressStore = progress.NewSQLiteStore(opts.Store.DB())
		outcomes = opts.Store.OutcomeRepo()
	} else {
		progressStore = progress.NewMemoryStore()
	}

	submitter := api.WithRetry(opts.Client, api.SubmitRetryPolicy)
	analyzer := api.WithAnalysisRetry(opts.Client, api.AnalysisRetryPolicy)

	watSettings := exercise.DefaultSettings(exercise.WordAssociation)
	watSettings.BudgetSec = opts.Config.WordAssoc.BudgetSec
	srtSettings := exercise.DefaultSettings(exercise.SituationReaction)

	homeFactory := func() screen.Screen {
		return home.New(watSettings, srtSettings,
			opts.Client, submitter, progressStore, analyzer, outcomes)
	}

	return AppModel{
		router: router.New(welcome.New(homeFactory)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// The welcome splash renders without chrome.
	if title == "" {
		v.SetContent(active.View(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(title, "", m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); hints != nil {
			footerHints = hints
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
