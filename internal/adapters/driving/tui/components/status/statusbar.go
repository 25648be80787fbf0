// Package status renders the one-line status bar of the browse UI.
package status

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/styles"
)

// State is what the bar reports on its left side.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
	StateDocument  State = "document"
)

// Bar shows the search state on the left and key hints on the right.
// It holds no tea model; the app sets its fields directly.
type Bar struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	state   State
	message string
	hits    int
	width   int
}

// NewBar creates a status bar. Nil arguments select the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keys: km, state: StateReady, width: 80}
}

// View renders the bar at its configured width.
func (s *Bar) View() string {
	left, right := s.summary(), s.hints()
	gap := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) summary() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateError:
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	case StateDocument:
		return s.styles.Normal.Render(cmp.Or(s.message, "Document"))
	}
	if s.hits > 0 {
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.hits))
	}
	return s.styles.Muted.Render("Ready")
}

func (s *Bar) hints() string {
	var bindings []key.Binding
	switch {
	case s.state == StateDocument:
		bindings = s.keys.DocumentHelp()
	case s.state == StateResults && s.hits > 0:
		bindings = s.keys.ResultsHelp()
	default:
		bindings = s.keys.ShortHelp()
	}

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Help().Key + ": " + b.Help().Desc
	}
	return s.styles.Muted.Render(strings.Join(parts, " | "))
}

// SetState sets the reported state.
func (s *Bar) SetState(state State) { s.state = state }

// State returns the reported state.
func (s *Bar) State() State { return s.state }

// SetMessage sets the error text or the open document title.
func (s *Bar) SetMessage(message string) { s.message = message }

// SetResultCount sets the number of hits shown.
func (s *Bar) SetResultCount(n int) { s.hits = n }

// SetWidth sets the rendered width.
func (s *Bar) SetWidth(width int) { s.width = width }

// Clear returns the bar to the ready state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.hits = 0
}
