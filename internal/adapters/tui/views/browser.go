package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"dasha/internal/adapters/tui/styles"
	"dasha/internal/application"
	"dasha/internal/application/commands"
	"dasha/internal/domain"
	"dasha/internal/logging"
	"dasha/internal/ports"
)

// clipboardWriteAll is swapped out in tests
var clipboardWriteAll = clipboard.WriteAll

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Now      key.Binding
	Copy     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Now: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "current"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "profiles"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BrowserSettings holds the timeline parameters used by the browser
type BrowserSettings struct {
	Years       float64
	Depth       int
	DaysPerYear float64
	// Now returns the current time; nil means time.Now
	Now func() time.Time
}

func (s BrowserSettings) nowJD() float64 {
	if s.Now != nil {
		return application.JDFromTime(s.Now())
	}
	return application.JDFromTime(time.Now())
}

// BrowserModel shows a profile's Dasha timeline as an expandable tree
type BrowserModel struct {
	ViewState
	cache    ports.TimelineCache
	logger   *zap.Logger
	settings BrowserSettings

	profile  domain.Profile
	timeline *domain.Timeline
	roots    []*PeriodNode
	flat     []*PeriodNode
	pager    *Paginator
	nowJD    float64
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(cache ports.TimelineCache, logger *zap.Logger, settings BrowserSettings) *BrowserModel {
	return &BrowserModel{
		cache:    cache,
		logger:   logging.OrNop(logger),
		settings: settings,
		pager:    NewPaginator(20),
	}
}

// SetProfile selects the profile to browse; Init loads its timeline
func (m *BrowserModel) SetProfile(p domain.Profile) {
	m.profile = p
	m.timeline = nil
	m.roots = nil
	m.flat = nil
	m.ClearMessage()
}

// Init loads the timeline
func (m *BrowserModel) Init() tea.Cmd {
	return m.loadTimeline
}

type timelineLoadedMsg struct {
	timeline *domain.Timeline
}

func (m *BrowserModel) loadTimeline() tea.Msg {
	cmd := commands.NewBuildTimelineCommand(m.cache, m.logger, m.profile.MoonLongitude, m.profile.BirthJD,
		m.settings.Years, m.settings.Depth, m.settings.DaysPerYear)
	res, err := cmd.Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return timelineLoadedMsg{res.Timeline}
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case timelineLoadedMsg:
		m.timeline = msg.timeline
		m.roots = NewPeriodTree(msg.timeline)
		m.jumpToNow()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, BrowserKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, BrowserKeys.Up):
			m.pager.CursorUp()

		case key.Matches(msg, BrowserKeys.Down):
			m.pager.CursorDown()

		case key.Matches(msg, BrowserKeys.PageUp):
			m.pager.PrevPage()

		case key.Matches(msg, BrowserKeys.PageDown):
			m.pager.NextPage()

		case key.Matches(msg, BrowserKeys.Left):
			if node := m.selectedNode(); node != nil {
				if node.Expanded {
					node.Expanded = false
					m.refreshFlat()
				} else if node.Parent != nil {
					m.selectNode(node.Parent)
				}
			}

		case key.Matches(msg, BrowserKeys.Right), key.Matches(msg, BrowserKeys.Enter):
			if node := m.selectedNode(); node != nil && node.HasChildren() {
				if !node.Expanded {
					node.Expanded = true
				} else if key.Matches(msg, BrowserKeys.Enter) {
					node.Expanded = false
				}
				m.refreshFlat()
			}

		case key.Matches(msg, BrowserKeys.Now):
			m.jumpToNow()

		case key.Matches(msg, BrowserKeys.Copy):
			if node := m.selectedNode(); node != nil {
				if err := clipboardWriteAll(node.String()); err != nil {
					m.SetMessage(fmt.Sprintf("Copy failed: %v", err), true)
				} else {
					m.SetMessage("Copied "+node.Path, false)
				}
			}

		case key.Matches(msg, BrowserKeys.Back):
			return m, func() tea.Msg { return SwitchToProfilesMsg{} }

		case key.Matches(msg, BrowserKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	return m, nil
}

// jumpToNow expands the periods running now and moves the cursor there
func (m *BrowserModel) jumpToNow() {
	m.nowJD = m.settings.nowJD()
	node := ExpandTo(m.roots, m.nowJD)
	m.refreshFlat()
	if node == nil {
		m.SetMessage("Now is outside the generated timeline", true)
		return
	}
	m.selectNode(node)
}

func (m *BrowserModel) selectNode(target *PeriodNode) {
	for i, n := range m.flat {
		if n == target {
			m.pager.SetCursor(i)
			return
		}
	}
}

func (m *BrowserModel) selectedNode() *PeriodNode {
	if c := m.pager.Cursor(); c >= 0 && c < len(m.flat) {
		return m.flat[c]
	}
	return nil
}

func (m *BrowserModel) refreshFlat() {
	m.flat = Flatten(m.roots)
	m.pager.SetTotal(len(m.flat))
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.pager.SetPageSize(m.listHeight())
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.timeline == nil {
		if m.Message != "" {
			return NewViewBuilder().Title("Vimshottari Dasha", m.profile.Name).Message(m.Message, true).String()
		}
		return "Loading..."
	}

	bal := m.timeline.Balance
	subtitle := fmt.Sprintf("%s · Moon in %s · born in %s with %.2f years left",
		m.profile.Name, bal.Position.Nakshatra.Name, bal.Lord, bal.BalanceYears)

	v := NewViewBuilder().Title("Vimshottari Dasha", subtitle)

	start, end := m.pager.VisibleRange()
	for i := start; i < end; i++ {
		v.Line(m.renderNode(m.flat[i], i == m.pager.Cursor()))
	}
	if m.pager.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", m.pager.CurrentPage(), m.pager.TotalPages()))
	}

	return v.Message(m.Message, m.MessageErr).
		Help(BrowserKeys.Up, BrowserKeys.Right, BrowserKeys.Now, BrowserKeys.Copy, BrowserKeys.Back, BrowserKeys.Help, BrowserKeys.Quit).
		String()
}

func (m *BrowserModel) renderNode(node *PeriodNode, selected bool) string {
	indent := strings.Repeat("  ", node.Depth())

	prefix := styles.TreeLeaf
	if node.HasChildren() {
		if node.Expanded {
			prefix = styles.TreeExpanded
		} else {
			prefix = styles.TreeCollapsed
		}
	}

	p := node.Period
	lord := p.Lord.String()
	dates := fmt.Sprintf("%s → %s", application.FormatJD(p.Start), application.FormatJD(p.End))
	if p.Partial {
		dates += " (partial)"
	}

	if selected {
		return indent + styles.TreeBranch.Render(prefix) + styles.NodeSelected.Render(lord+"  "+dates)
	}

	var lordStyle lipgloss.Style
	if p.Contains(m.nowJD) {
		lordStyle = styles.NodeCurrent
	} else {
		lordStyle = styles.NodeLord.Foreground(styles.LordColor(p.Lord))
	}
	dateStyle := styles.NodeDates
	if p.Partial {
		dateStyle = styles.NodePartial
	}

	return indent + styles.TreeBranch.Render(prefix) + lordStyle.Render(lord) + "  " + dateStyle.Render(dates)
}
