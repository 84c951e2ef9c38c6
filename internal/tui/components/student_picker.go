package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

const pickerMaxRows = 8

// StudentFinder ranks students for a filter query
type StudentFinder func(query string) []search.StudentMatch

// StudentPicker is a fuzzy-filtered student chooser used when issuing a book
type StudentPicker struct {
	visible bool
	title   string
	input   textinput.Model
	find    StudentFinder
	matches []search.StudentMatch
	cursor  int
}

// NewStudentPicker creates a new student picker
func NewStudentPicker(find StudentFinder) StudentPicker {
	ti := textinput.New()
	ti.Placeholder = "Filter students..."
	ti.CharLimit = 50
	ti.Width = 40
	ti.Prompt = "/ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return StudentPicker{input: ti, find: find}
}

// Show displays the picker with a title
func (p *StudentPicker) Show(title string) {
	p.visible = true
	p.title = title
	p.input.SetValue("")
	p.input.Focus()
	p.refilter()
}

// Hide dismisses the picker
func (p *StudentPicker) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the picker is shown
func (p StudentPicker) IsVisible() bool { return p.visible }

// Selected returns the highlighted student
func (p StudentPicker) Selected() (domain.Student, bool) {
	if p.cursor < 0 || p.cursor >= len(p.matches) {
		return domain.Student{}, false
	}
	return p.matches[p.cursor].Student, true
}

func (p *StudentPicker) refilter() {
	p.matches = p.find(p.input.Value())
	p.cursor = 0
}

// Update handles input events, returns (picker, cmd, chosen)
func (p StudentPicker) Update(msg tea.Msg) (StudentPicker, tea.Cmd, bool) {
	if !p.visible {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			_, ok := p.Selected()
			return p, nil, ok
		case "esc":
			p.Hide()
			return p, nil, false
		case "up", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, false
		case "down", "ctrl+n":
			if p.cursor < len(p.matches)-1 {
				p.cursor++
			}
			return p, nil, false
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.refilter()
	}
	return p, cmd, false
}

// View renders the picker modal
func (p StudentPicker) View() string {
	if !p.visible {
		return ""
	}

	rows := []string{styles.ModalTitleStyle.Render(p.title), p.input.View(), ""}
	if len(p.matches) == 0 {
		rows = append(rows, styles.DimStyle.Render("No matching students"))
	}

	start := 0
	if p.cursor >= pickerMaxRows {
		start = p.cursor - pickerMaxRows + 1
	}
	end := min(start+pickerMaxRows, len(p.matches))
	for i := start; i < end; i++ {
		m := p.matches[i]
		rows = append(rows, styles.HighlightMatches(m.Label, m.MatchedIndexes, i == p.cursor))
	}

	rows = append(rows, "", styles.DimStyle.Render("↑/↓ move · enter issue · esc cancel"))
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
