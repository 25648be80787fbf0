// Package list provides list display components for the TUI.
package list

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// titleFields are tried in order to name a document in the list.
var titleFields = []string{
	domain.FieldMetric,
	domain.FieldProperty,
	domain.FieldDimension,
	domain.FieldMonitorType,
	domain.FieldObserverType,
}

// ResultList displays search hits in a navigable list.
type ResultList struct {
	hits     []domain.SearchHit
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.hits) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.hits)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.hits))), "")

	// Each hit takes two lines.
	visibleCount := (r.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(r.hits))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderHit(i, &r.hits[i]))
	}

	return strings.Join(lines, "\n")
}

// renderHit formats one hit as a title line and a JSON preview.
func (r *ResultList) renderHit(index int, hit *domain.SearchHit) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := truncate(Title(hit.Document.Body), max(r.width-24, 10))
	version := hit.Document.Body.String(domain.FieldReleaseTag)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(indicator + title + "  " + version)
	} else {
		titleLine = r.styles.Normal.Render(indicator+title+"  ") + r.styles.Muted.Render(version)
	}

	preview, err := json.Marshal(hit.Document.Body)
	if err != nil {
		preview = []byte(hit.Document.ID)
	}
	previewLine := r.styles.Muted.Render("    " + truncate(string(preview), max(r.width-6, 20)))

	return titleLine + "\n" + previewLine
}

// Title names a document by the most specific identifying field it has.
func Title(doc domain.FlatDocument) string {
	for _, f := range titleFields {
		if v := doc.String(f); v != "" {
			return v
		}
	}
	return "(unnamed)"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// SetHits replaces the listed hits and resets the selection.
func (r *ResultList) SetHits(hits []domain.SearchHit) {
	r.hits = hits
	r.selected = 0
}

// Hits returns the current hits.
func (r *ResultList) Hits() []domain.SearchHit {
	return r.hits
}

// Selected returns the index of the selected hit.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedHit returns the currently selected hit, or nil if none.
func (r *ResultList) SelectedHit() *domain.SearchHit {
	if len(r.hits) == 0 || r.selected < 0 || r.selected >= len(r.hits) {
		return nil
	}
	return &r.hits[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.hits)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of hits.
func (r *ResultList) Count() int {
	return len(r.hits)
}
