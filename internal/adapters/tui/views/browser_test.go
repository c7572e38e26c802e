package views

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dasha/internal/application"
	"dasha/internal/domain"
)

const j2000 = 2451545.0

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testTimeline(t *testing.T) *domain.Timeline {
	t.Helper()
	tl, err := domain.BuildTimeline(domain.TimelineRequest{MoonLongitude: 0, BirthJD: j2000, Years: 120, Depth: 3})
	if err != nil {
		t.Fatalf("BuildTimeline failed: %v", err)
	}
	return tl
}

// newLoadedBrowser returns a browser showing a Moon-at-0° timeline with
// "now" 10.5 years after birth, inside Venus/Sun/Mars
func newLoadedBrowser(t *testing.T) *BrowserModel {
	t.Helper()
	now := application.TimeFromJD(j2000 + 10.5*domain.DefaultDaysPerYear)
	m := NewBrowserModel(nil, nil, BrowserSettings{Years: 120, Depth: 3, Now: func() time.Time { return now }})
	m.SetProfile(domain.Profile{Name: "alice", BirthJD: j2000})
	m.Update(timelineLoadedMsg{testTimeline(t)})
	return m
}

func TestBrowser_OpensAtCurrentPeriod(t *testing.T) {
	m := newLoadedBrowser(t)

	node := m.selectedNode()
	if node == nil {
		t.Fatal("expected a selected node")
	}
	if node.Path != "Venus/Sun/Mars" {
		t.Errorf("expected Venus/Sun/Mars, got %s", node.Path)
	}
	// 9 Maha rows plus the 9 Venus Antars and the 9 Venus/Sun Pratyantars
	if len(m.flat) != 27 {
		t.Errorf("expected 27 visible rows, got %d", len(m.flat))
	}
}

func TestBrowser_Navigation(t *testing.T) {
	m := newLoadedBrowser(t)

	// h collapses nothing on a leaf, it moves to the parent
	m.Update(runes("h"))
	if got := m.selectedNode().Path; got != "Venus/Sun" {
		t.Fatalf("expected Venus/Sun, got %s", got)
	}

	m.Update(runes("h"))
	if m.selectedNode().Expanded {
		t.Error("expected Venus/Sun to collapse")
	}
	if len(m.flat) != 18 {
		t.Errorf("expected 18 rows after collapse, got %d", len(m.flat))
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.selectedNode().Expanded || len(m.flat) != 27 {
		t.Errorf("expected enter to expand again, got %d rows", len(m.flat))
	}

	m.Update(runes("j"))
	if got := m.selectedNode().Path; got != "Venus/Sun/Sun" {
		t.Errorf("expected the first child, got %s", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.selectedNode().Path; got != "Venus/Sun" {
		t.Errorf("expected to move back up, got %s", got)
	}
}

func TestBrowser_Copy(t *testing.T) {
	orig := clipboardWriteAll
	defer func() { clipboardWriteAll = orig }()

	var copied string
	clipboardWriteAll = func(s string) error {
		copied = s
		return nil
	}

	m := newLoadedBrowser(t)
	m.Update(runes("y"))
	if !strings.HasPrefix(copied, "Venus/Sun/Mars ") {
		t.Errorf("unexpected clipboard text %q", copied)
	}
	if m.MessageErr || m.Message != "Copied Venus/Sun/Mars" {
		t.Errorf("unexpected message %q", m.Message)
	}

	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	m.Update(runes("y"))
	if !m.MessageErr || !strings.Contains(m.Message, "no clipboard") {
		t.Errorf("expected a copy error, got %q", m.Message)
	}
}

func TestBrowser_SwitchMessages(t *testing.T) {
	m := newLoadedBrowser(t)

	tests := []struct {
		name string
		key  tea.KeyMsg
		want tea.Msg
	}{
		{"back", tea.KeyMsg{Type: tea.KeyEsc}, SwitchToProfilesMsg{}},
		{"help", runes("?"), SwitchToHelpMsg{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd := m.Update(tt.key)
			if cmd == nil {
				t.Fatal("expected a command")
			}
			if got := cmd(); got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBrowser_NowOutsideTimeline(t *testing.T) {
	m := NewBrowserModel(nil, nil, BrowserSettings{Now: func() time.Time { return time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC) }})
	m.Update(timelineLoadedMsg{testTimeline(t)})

	if !m.MessageErr || !strings.Contains(m.Message, "outside") {
		t.Errorf("expected an outside-timeline message, got %q", m.Message)
	}
	if len(m.flat) != 9 {
		t.Errorf("expected the 9 collapsed Maha rows, got %d", len(m.flat))
	}
}

func TestBrowser_View(t *testing.T) {
	m := NewBrowserModel(nil, nil, BrowserSettings{})
	if got := m.View(); got != "Loading..." {
		t.Errorf("expected loading view, got %q", got)
	}

	m = newLoadedBrowser(t)
	view := m.View()
	for _, want := range []string{"Vimshottari Dasha", "alice", "Ashwini", "Mercury"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
