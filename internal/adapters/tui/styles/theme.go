package styles

import (
	"github.com/charmbracelet/lipgloss"

	"dasha/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Lord colors, indexed by domain.Lord
	lordColors = [domain.LordCount]lipgloss.Color{
		"#9CA3AF", // Ketu
		"#F472B6", // Venus
		"#F97316", // Sun
		"#E5E7EB", // Moon
		"#EF4444", // Mars
		"#6366F1", // Rahu
		"#FACC15", // Jupiter
		"#60A5FA", // Saturn
		"#34D399", // Mercury
	}

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Period styles
	NodeLord = lipgloss.NewStyle().
			Bold(true)

	NodeDates = lipgloss.NewStyle().
			Foreground(Muted)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	// NodeCurrent marks periods running now
	NodeCurrent = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	NodePartial = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "

	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// LordColor returns the display color of a lord
func LordColor(l domain.Lord) lipgloss.Color {
	if !l.Valid() {
		return Muted
	}
	return lordColors[l]
}
