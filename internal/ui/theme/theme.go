package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/tally/internal/model"
)

// Theme defines the color scheme used when rendering tasks
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityA     lipgloss.Color
	PriorityB     lipgloss.Color
	PriorityC     lipgloss.Color
	PriorityOther lipgloss.Color

	// Tag colors
	Project lipgloss.Color
	Context lipgloss.Color
	Link    lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Theme Theme

	Header lipgloss.Style
	Footer lipgloss.Style
	Empty  lipgloss.Style

	// Task styles
	TaskID      lipgloss.Style
	TaskOpen    lipgloss.Style
	TaskDone    lipgloss.Style
	TaskOverdue lipgloss.Style

	// Subject spans
	Project lipgloss.Style
	Context lipgloss.Style
	Link    lipgloss.Style

	// Metadata
	Date      lipgloss.Style
	DueDate   lipgloss.Style
	Threshold lipgloss.Style
	Keyword   lipgloss.Style

	// Progress table
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
	TableBorder lipgloss.Style
	TagDone     lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Theme: t,

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Empty: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true),

		TaskID: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Width(4).
			Align(lipgloss.Right).
			MarginRight(1),

		TaskOpen: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error),

		Project: lipgloss.NewStyle().
			Foreground(t.Project).
			Bold(true),

		Context: lipgloss.NewStyle().
			Foreground(t.Context).
			Bold(true),

		Link: lipgloss.NewStyle().
			Foreground(t.Link).
			Underline(true),

		Date: lipgloss.NewStyle().
			Foreground(t.Subtle),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		Threshold: lipgloss.NewStyle().
			Foreground(t.Info),

		Keyword: lipgloss.NewStyle().
			Foreground(t.Secondary),

		TableHeader: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		TableCell: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TableBorder: lipgloss.NewStyle().
			Foreground(t.Border),

		TagDone: lipgloss.NewStyle().
			Foreground(t.Success).
			Padding(0, 1),
	}
}

// Priority returns the style for a priority badge
func (s Styles) Priority(p model.Priority) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch p {
	case model.PriorityA:
		return style.Foreground(s.Theme.PriorityA)
	case model.PriorityB:
		return style.Foreground(s.Theme.PriorityB)
	case model.PriorityC:
		return style.Foreground(s.Theme.PriorityC)
	default:
		return style.Foreground(s.Theme.PriorityOther)
	}
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
		Gruvbox,
		Catppuccin,
	}
}

// Names returns the names of all available themes
func Names() []string {
	themes := Available()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
