// Package tui implements the interactive symptom search terminal UI.
// A query typed into the input is embedded and matched against the HPO
// vector index; the ranked candidates are browsable with vim-style keys.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/phenomap-cli/internal/core/domain"
	"github.com/custodia-labs/phenomap-cli/internal/core/ports/driving"
)

// searchCompleted carries retrieval results back into Update.
type searchCompleted struct {
	candidates []domain.OntologyCandidate
	err        error
}

// Model is the bubbletea model for interactive symptom search.
type Model struct {
	styles   *Styles
	input    textinput.Model
	pipeline driving.PipelineService
	ctx      context.Context

	candidates []domain.OntologyCandidate
	selected   int
	searched   bool
	searching  bool
	focusInput bool
	showDetail bool
	err        error

	width  int
	height int
	limit  int
}

// NewModel creates the search model. limit is the number of candidates
// retrieved per query; zero uses the standalone search default.
func NewModel(ctx context.Context, pipeline driving.PipelineService, limit int) *Model {
	ti := textinput.New()
	ti.Placeholder = "Describe a symptom, e.g. delayed milestones..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	if limit <= 0 {
		limit = domain.DefaultSearchK
	}

	return &Model{
		styles:     DefaultStyles(),
		input:      ti,
		pipeline:   pipeline,
		ctx:        ctx,
		focusInput: true,
		width:      80,
		height:     24,
		limit:      limit,
	}
}

// Init starts the input cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchCompleted:
		m.searching = false
		m.searched = true
		m.err = msg.err
		m.candidates = msg.candidates
		m.selected = 0
		m.showDetail = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if msg.Type == tea.KeyEsc {
		switch {
		case m.showDetail:
			m.showDetail = false
		case !m.focusInput:
			m.focusInput = true
			m.input.Focus()
		default:
			return m, tea.Quit
		}
		return m, nil
	}

	// Enter in input mode submits the query
	if msg.Type == tea.KeyEnter && m.focusInput {
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.searching = true
		m.err = nil
		m.focusInput = false
		m.input.Blur()
		return m, m.performSearch(query)
	}

	// Input mode: all other keys go to the input
	if m.focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	// Results mode
	if msg.Type == tea.KeyEnter {
		if len(m.candidates) > 0 {
			m.showDetail = !m.showDetail
		}
		return m, nil
	}

	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		m.moveUp()
		return m, nil
	case tea.KeyDown:
		m.moveDown()
		return m, nil
	}

	switch msg.String() {
	case "k":
		m.moveUp()
	case "j":
		m.moveDown()
	case "n":
		// New search: clear input and focus it
		m.focusInput = true
		m.showDetail = false
		m.input.Focus()
		m.input.SetValue("")
	case "q":
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) moveUp() {
	if m.selected > 0 {
		m.selected--
		m.showDetail = false
	}
}

func (m *Model) moveDown() {
	if m.selected < len(m.candidates)-1 {
		m.selected++
		m.showDetail = false
	}
}

// performSearch runs candidate retrieval off the Update loop.
func (m *Model) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		candidates, err := m.pipeline.SearchSymptom(m.ctx, query, m.limit)
		return searchCompleted{candidates: candidates, err: err}
	}
}

// View renders the model.
func (m *Model) View() string {
	sections := make([]string, 0, 8)

	sections = append(sections, m.styles.Title.Render("PhenoMap"), "")

	label := m.styles.Title.Render("Symptom: ")
	field := m.styles.InputField.Render(m.input.View())
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Center, label, field), "")

	switch {
	case m.err != nil:
		sections = append(sections, m.styles.Error.Render("Error: "+m.err.Error()))
	case m.searching:
		sections = append(sections, m.styles.Muted.Render("Searching..."))
	case m.searched && len(m.candidates) == 0:
		sections = append(sections, m.styles.Muted.Render("No candidates found."))
	case len(m.candidates) > 0:
		sections = append(sections, m.renderCandidates())
		if m.showDetail {
			sections = append(sections, "", m.renderDetail())
		}
	}

	sections = append(sections, "", m.styles.Help.Render(m.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderCandidates renders the ranked candidate list.
func (m *Model) renderCandidates() string {
	lines := make([]string, 0, len(m.candidates))
	for i, c := range m.candidates {
		line := fmt.Sprintf("[%d] %s  %s (%.3f)", i+1, c.TermID, c.TermLabel, c.Similarity)
		if i == m.selected && !m.focusInput {
			lines = append(lines, m.styles.Selected.Render("> "+line))
		} else {
			lines = append(lines, m.styles.Normal.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

// renderDetail renders the detail panel for the selected candidate.
func (m *Model) renderDetail() string {
	c := m.candidates[m.selected]

	lines := []string{
		m.styles.TermID.Render(c.TermID) + m.styles.Normal.Render("  "+c.TermLabel),
		m.styles.Muted.Render(fmt.Sprintf("similarity %.3f", c.Similarity)),
	}
	if c.Description != "" {
		lines = append(lines, "", m.styles.Normal.Render(c.Description))
	}

	return m.styles.Detail.Render(strings.Join(lines, "\n"))
}

// helpLine returns the key hints for the current mode.
func (m *Model) helpLine() string {
	if m.focusInput {
		return "enter search • esc quit"
	}
	if m.showDetail {
		return "esc close • j/k navigate • n new search • q quit"
	}
	return "j/k navigate • enter details • n new search • esc back • q quit"
}

// Selected returns the index of the highlighted candidate.
func (m *Model) Selected() int {
	return m.selected
}

// Candidates returns the current candidate list.
func (m *Model) Candidates() []domain.OntologyCandidate {
	return m.candidates
}

// InputFocused returns whether the query input has focus.
func (m *Model) InputFocused() bool {
	return m.focusInput
}

// Run starts the interactive search UI and blocks until it exits.
func Run(ctx context.Context, pipeline driving.PipelineService, limit int) error {
	model := NewModel(ctx, pipeline, limit)
	_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	return err
}
