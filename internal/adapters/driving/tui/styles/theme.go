// Package styles holds the colours and lipgloss styles of the browse UI.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colours the browse UI draws with.
type Palette struct {
	Accent    lipgloss.Color // labels and the active tab
	Highlight lipgloss.Color // headings
	Surface   lipgloss.Color // text on highlighted backgrounds
	Text      lipgloss.Color
	Dim       lipgloss.Color // hints, previews and inactive tabs
	Alert     lipgloss.Color
	Frame     lipgloss.Color // input border
	Bar       lipgloss.Color // status bar background
}

// DefaultPalette returns the dark palette.
func DefaultPalette() Palette {
	return Palette{
		Accent:    lipgloss.Color("#7C3AED"),
		Highlight: lipgloss.Color("#06B6D4"),
		Surface:   lipgloss.Color("#1E1E2E"),
		Text:      lipgloss.Color("#CDD6F4"),
		Dim:       lipgloss.Color("#6C7086"),
		Alert:     lipgloss.Color("#F38BA8"),
		Frame:     lipgloss.Color("#45475A"),
		Bar:       lipgloss.Color("#181825"),
	}
}

// Styles are the rendered styles, one per element of the browse view.
type Styles struct {
	Palette Palette

	// Title renders the search input label.
	Title lipgloss.Style

	// Subtitle renders the result count heading.
	Subtitle lipgloss.Style

	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style

	// InputField frames the query input.
	InputField lipgloss.Style

	StatusBar lipgloss.Style

	// ActiveTab marks the index being searched; Tab renders the others.
	ActiveTab lipgloss.Style
	Tab       lipgloss.Style
}

// NewStyles builds the styles for a palette.
func NewStyles(p Palette) *Styles {
	return &Styles{
		Palette:  p,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(p.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(p.Text),
		Muted:    lipgloss.NewStyle().Foreground(p.Dim),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(p.Text).Background(p.Accent),
		Error:    lipgloss.NewStyle().Foreground(p.Alert),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(p.Dim).Background(p.Bar).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(p.Surface).Background(p.Highlight).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(p.Dim).Padding(0, 1),
	}
}

// DefaultStyles returns the styles of the default palette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}
