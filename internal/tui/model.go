// Package tui is the terminal front end of the listing: a search bar, the
// selected filters and the narrowed job list.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/filter"
)

// Model holds the terminal listing. focus is -1 while the search bar has
// the cursor, otherwise an index into the visible tags.
type Model struct {
	jobs    []domain.Job
	engine  *filter.Engine
	input   textinput.Model
	focus   int
	status  string
	width   int
	styles  Styles
	visible []domain.Job
}

func New(jobs []domain.Job, engine *filter.Engine) Model {
	in := textinput.New()
	in.Placeholder = "Search by language or tool"
	in.CharLimit = 40
	in.Width = 40
	in.Focus()

	m := Model{
		jobs:   jobs,
		engine: engine,
		input:  in,
		focus:  -1,
		styles: DefaultStyles(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.focus >= 0 {
				tags := m.Tags()
				if m.focus < len(tags) {
					m.add(tags[m.focus])
				}
				m.focus = -1
				m.input.Focus()
				return m, nil
			}
			term := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if term != "" {
				m.add(term)
			}
			return m, nil

		case tea.KeyTab:
			m.cycle(1)
			return m, nil

		case tea.KeyShiftTab:
			m.cycle(-1)
			return m, nil

		case tea.KeyBackspace:
			if m.focus < 0 && m.input.Value() == "" {
				if terms := m.engine.SelectedTerms(); len(terms) > 0 {
					last := terms[len(terms)-1]
					m.engine.Remove(last)
					m.status = "removed " + last
					m.refresh()
				}
				return m, nil
			}

		case tea.KeyCtrlR:
			m.engine.Reset()
			m.status = "filters cleared"
			m.focus = -1
			m.input.Focus()
			m.refresh()
			return m, nil
		}
	}

	if m.focus >= 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) add(term string) {
	switch {
	case m.engine.Add(term):
		m.status = "added " + filter.Normalize(term)
	case m.engine.Classify(term) == filter.Unknown:
		m.status = fmt.Sprintf("no language or tool named %q", term)
	default:
		m.status = filter.Normalize(term) + " already selected"
	}
	m.refresh()
}

// cycle moves the focus through the search bar and the visible tags.
func (m *Model) cycle(step int) {
	n := len(m.Tags())
	if n == 0 {
		return
	}
	// positions: -1 (input), 0..n-1 (tags)
	pos := (m.focus + 1 + step + n + 1) % (n + 1)
	m.focus = pos - 1
	if m.focus < 0 {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) refresh() {
	m.visible = m.engine.Apply(m.jobs)
	if m.focus >= len(m.Tags()) {
		m.focus = -1
		m.input.Focus()
	}
}

// Visible returns the jobs matching the current selection.
func (m Model) Visible() []domain.Job { return m.visible }

// Focused returns the focused tag, or "" while the search bar has focus.
func (m Model) Focused() string {
	tags := m.Tags()
	if m.focus < 0 || m.focus >= len(tags) {
		return ""
	}
	return tags[m.focus]
}

// Tags lists the distinct tags of the visible jobs in display order.
func (m Model) Tags() []string {
	seen := make(map[string]bool)
	var out []string
	for _, j := range m.visible {
		for _, t := range j.Tags() {
			k := filter.Normalize(t)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, t)
		}
	}
	return out
}

func (m Model) Status() string { return m.status }

func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	b.WriteString(s.Title.Render("Job listings"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.engine.IsActive() {
		chips := make([]string, 0, 4)
		for _, t := range m.engine.SelectedTerms() {
			chips = append(chips, s.Chip.Render(t+" ×"))
		}
		b.WriteString(strings.Join(chips, " "))
		b.WriteString("\n")
	}

	b.WriteString(s.Meta.Render(fmt.Sprintf("Showing %d of %d jobs", len(m.visible), len(m.jobs))))
	b.WriteString("\n")

	focused := filter.Normalize(m.Focused())
	for _, j := range m.visible {
		b.WriteString(m.card(j, focused))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(s.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(s.Help.Render("enter add • tab next tag • backspace remove last • ctrl+r clear • esc quit"))
	return b.String()
}

func (m Model) card(j domain.Job, focused string) string {
	s := m.styles

	head := []string{s.Company.Render(j.Company)}
	if j.New {
		head = append(head, s.New.Render("NEW!"))
	}
	if j.Featured {
		head = append(head, s.Featured.Render("FEATURED"))
	}

	tags := make([]string, 0, len(j.Languages)+len(j.Tools))
	for _, t := range j.Tags() {
		st := s.Tag
		if focused != "" && filter.Normalize(t) == focused {
			st = s.TagFocus
		}
		tags = append(tags, st.Render(t))
	}

	body := strings.Join([]string{
		strings.Join(head, " "),
		s.Position.Render(j.Position),
		s.Meta.Render(strings.Join([]string{j.PostedAt, j.Contract, j.Location}, " • ")),
		strings.Join(tags, " "),
	}, "\n")

	card := s.Card
	if m.width > 4 {
		card = card.Width(m.width - 4)
	}
	return card.Render(body)
}
