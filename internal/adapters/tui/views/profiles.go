package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"dasha/internal/adapters/tui/styles"
	"dasha/internal/application"
	"dasha/internal/application/commands"
	"dasha/internal/domain"
	"dasha/internal/ports"
)

// ProfilesKeyMap defines key bindings for the profile list
type ProfilesKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var ProfilesKeys = ProfilesKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open timeline"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// ProfilesModel lists the stored birth profiles
type ProfilesModel struct {
	ViewState
	store    ports.ProfileStore
	profiles []domain.Profile
	pager    *Paginator
	loaded   bool
}

// NewProfilesModel creates a new profile list
func NewProfilesModel(store ports.ProfileStore) *ProfilesModel {
	return &ProfilesModel{store: store, pager: NewPaginator(20)}
}

type profilesLoadedMsg struct {
	profiles []domain.Profile
}

// Init loads the profiles
func (m *ProfilesModel) Init() tea.Cmd {
	return m.loadProfiles
}

func (m *ProfilesModel) loadProfiles() tea.Msg {
	profiles, err := commands.NewListProfilesCommand(m.store).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return profilesLoadedMsg{profiles}
}

// Update handles messages for the profile list
func (m *ProfilesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case profilesLoadedMsg:
		m.profiles = msg.profiles
		m.loaded = true
		m.pager.SetTotal(len(m.profiles))
		return m, nil

	case errMsg:
		m.loaded = true
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, ProfilesKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, ProfilesKeys.Up):
			m.pager.CursorUp()

		case key.Matches(msg, ProfilesKeys.Down):
			m.pager.CursorDown()

		case key.Matches(msg, ProfilesKeys.Open):
			if c := m.pager.Cursor(); c < len(m.profiles) {
				p := m.profiles[c]
				return m, func() tea.Msg { return SwitchToBrowserMsg{Profile: p} }
			}

		case key.Matches(msg, ProfilesKeys.Reload):
			return m, m.loadProfiles

		case key.Matches(msg, ProfilesKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	return m, nil
}

// SetSize updates the view dimensions
func (m *ProfilesModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.listHeight())
}

// View renders the profile list
func (m *ProfilesModel) View() string {
	if !m.loaded {
		return "Loading..."
	}

	v := NewViewBuilder().Title("Vimshottari Dasha", "Stored profiles")
	if len(m.profiles) == 0 {
		v.Muted("No profiles yet. Add one with: dasha-cli profile add <name> --moon <deg> --birth <date>")
	}

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		p := m.profiles[i]
		line := fmt.Sprintf("%-20s moon %8.4f  born %s", p.Name, p.MoonLongitude, application.FormatJD(p.BirthJD))
		if i == m.pager.Cursor() {
			v.Line(styles.NodeSelected.Render(line))
		} else {
			v.Line(line)
		}
	}

	return v.Message(m.Message, m.MessageErr).
		Help(ProfilesKeys.Up, ProfilesKeys.Open, ProfilesKeys.Reload, ProfilesKeys.Help, ProfilesKeys.Quit).
		String()
}
