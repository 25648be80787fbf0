package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sdindex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sdindex/internal/core/domain"
)

// searchLimit caps the hits fetched per query.
const searchLimit = 50

// App is the index browser following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	input   *input.SearchInput
	results *list.ResultList
	status  *status.Bar
	doc     viewport.Model

	indices     []domain.IndexName
	activeIndex int
	currentView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        km,
		input:       input.NewSearchInput(s),
		results:     list.NewResultList(s),
		status:      status.NewBar(s, km),
		doc:         viewport.New(80, 20),
		indices:     domain.AllIndexNames(),
		currentView: messages.ViewSearch,
	}
	a.input.SetLabel(string(a.ActiveIndex()))
	return a, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sdindex"),
		a.input.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.setDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if keymap.Matches(msg.String(), a.keys.Quit) {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewDocument {
			return a.updateDocument(msg)
		}
		return a.updateSearch(msg)

	case messages.SearchCompleted:
		// Drop results of a query made against another index.
		if msg.Index != a.ActiveIndex() {
			return a, nil
		}
		a.err = msg.Err
		if msg.Err != nil {
			a.results.SetHits(nil)
			a.status.SetState(status.StateError)
			a.status.SetMessage(msg.Err.Error())
			return a, nil
		}
		a.results.SetHits(msg.Hits)
		a.status.SetState(status.StateResults)
		a.status.SetMessage("")
		a.status.SetResultCount(len(msg.Hits))
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, a.keys.Search):
		a.status.SetState(status.StateSearching)
		return a, a.search(a.ActiveIndex(), a.input.Value())

	case keymap.Matches(key, a.keys.NextIndex):
		return a, a.switchIndex(1)

	case keymap.Matches(key, a.keys.PrevIndex):
		return a, a.switchIndex(-1)

	case keymap.Matches(key, a.keys.Up), keymap.Matches(key, a.keys.Down):
		a.results, _ = a.results.Update(msg)
		return a, nil

	case keymap.Matches(key, a.keys.Open):
		hit := a.results.SelectedHit()
		if hit == nil {
			return a, nil
		}
		a.openDocument(hit)
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) updateDocument(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if keymap.Matches(msg.String(), a.keys.Back) {
		a.currentView = messages.ViewSearch
		a.status.SetState(status.StateResults)
		a.status.SetMessage("")
		return a, a.input.Focus()
	}

	var cmd tea.Cmd
	a.doc, cmd = a.doc.Update(msg)
	return a, cmd
}

// switchIndex moves the active index by delta and reruns the query.
func (a *App) switchIndex(delta int) tea.Cmd {
	n := len(a.indices)
	a.activeIndex = ((a.activeIndex+delta)%n + n) % n
	a.input.SetLabel(string(a.ActiveIndex()))
	a.results.SetHits(nil)
	a.status.Clear()

	if strings.TrimSpace(a.input.Value()) == "" {
		return nil
	}
	a.status.SetState(status.StateSearching)
	return a.search(a.ActiveIndex(), a.input.Value())
}

func (a *App) openDocument(hit *domain.SearchHit) {
	data, err := json.MarshalIndent(hit.Document.Body, "", "  ")
	if err != nil {
		data = []byte(err.Error())
	}
	a.doc.SetContent(string(data))
	a.doc.GotoTop()
	a.input.Blur()
	a.currentView = messages.ViewDocument
	a.status.SetState(status.StateDocument)
	a.status.SetMessage(list.Title(hit.Document.Body))
}

// search returns a command that queries one index.
func (a *App) search(index domain.IndexName, query string) tea.Cmd {
	ctx := a.ctx
	svc := a.ports.Search
	return func() tea.Msg {
		hits, err := svc.Search(ctx, index, query, searchLimit)
		return messages.SearchCompleted{Index: index, Query: query, Hits: hits, Err: err}
	}
}

func (a *App) setDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.status.SetWidth(width)
	// Tabs, input box and status bar take six lines.
	body := max(height-6, 1)
	a.results.SetDimensions(width, body)
	a.doc.Width = width
	a.doc.Height = body
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	if a.currentView == messages.ViewDocument {
		body = a.doc.View()
	} else {
		body = a.results.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.renderTabs(),
		a.input.View(),
		body,
		a.status.View(),
	)
}

func (a *App) renderTabs() string {
	tabs := make([]string, len(a.indices))
	for i, name := range a.indices {
		if i == a.activeIndex {
			tabs[i] = a.styles.ActiveTab.Render(string(name))
		} else {
			tabs[i] = a.styles.Tab.Render(string(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// ActiveIndex returns the index being searched.
func (a *App) ActiveIndex() domain.IndexName {
	return a.indices[a.activeIndex]
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Results returns the listed hits.
func (a *App) Results() []domain.SearchHit {
	return a.results.Hits()
}

// Err returns the last search error.
func (a *App) Err() error {
	return a.err
}

// Run starts the TUI application.
// It blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}
