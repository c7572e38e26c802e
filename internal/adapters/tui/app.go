package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"dasha/internal/adapters/tui/views"
	"dasha/internal/domain"
	"dasha/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewProfiles ViewState = iota
	ViewBrowser
	ViewHelp
)

// App is the main TUI application model
type App struct {
	state    ViewState
	previous ViewState
	profiles *views.ProfilesModel
	browser  *views.BrowserModel
	help     *views.HelpModel
	start    *domain.Profile

	width  int
	height int
}

// NewApp creates a new TUI application. With start set the app opens
// straight into that profile's timeline.
func NewApp(store ports.ProfileStore, cache ports.TimelineCache, logger *zap.Logger, settings views.BrowserSettings, start *domain.Profile) *App {
	return &App{
		state:    ViewProfiles,
		profiles: views.NewProfilesModel(store),
		browser:  views.NewBrowserModel(cache, logger, settings),
		help:     views.NewHelpModel(),
		start:    start,
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	if a.start != nil {
		a.state = ViewBrowser
		a.browser.SetProfile(*a.start)
		return a.browser.Init()
	}
	return a.profiles.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.profiles.SetSize(msg.Width, msg.Height)
		a.browser.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		a.browser.SetProfile(msg.Profile)
		return a, a.browser.Init()

	case views.SwitchToProfilesMsg:
		a.state = ViewProfiles
		return a, a.profiles.Init()

	case views.SwitchToHelpMsg:
		a.previous = a.state
		a.state = ViewHelp
		return a, nil

	case views.CloseHelpMsg:
		a.state = a.previous
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewProfiles:
		_, cmd = a.profiles.Update(msg)
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewBrowser:
		return a.browser.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.profiles.View()
	}
}
