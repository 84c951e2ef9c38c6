package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Form field order
const (
	fieldTitle = iota
	fieldAuthor
	fieldISBN
	fieldCategory
	fieldCopies
	fieldYear
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Author", "ISBN", "Category", "Copies", "Year"}

// BookForm is the add/edit book modal
type BookForm struct {
	visible   bool
	editingID string // empty when adding
	inputs    [fieldCount]textinput.Model
	focus     int
	err       string
}

// NewBookForm creates a new book form
func NewBookForm() BookForm {
	var f BookForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 36
		ti.CharLimit = 120
		ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
		ti.PlaceholderStyle = styles.DimStyle
		f.inputs[i] = ti
	}
	f.inputs[fieldISBN].Placeholder = "978-..."
	f.inputs[fieldCopies].Placeholder = "1"
	f.inputs[fieldCopies].CharLimit = 4
	f.inputs[fieldYear].Placeholder = "2024"
	f.inputs[fieldYear].CharLimit = 4
	return f
}

// ShowAdd opens an empty form
func (f *BookForm) ShowAdd() {
	f.reset()
	f.editingID = ""
	f.visible = true
}

// ShowEdit opens the form prefilled from b
func (f *BookForm) ShowEdit(b domain.Book) {
	f.reset()
	f.editingID = b.ID
	f.inputs[fieldTitle].SetValue(b.Title)
	f.inputs[fieldAuthor].SetValue(b.Author)
	f.inputs[fieldISBN].SetValue(b.ISBN)
	f.inputs[fieldCategory].SetValue(b.Category)
	f.inputs[fieldCopies].SetValue(strconv.Itoa(b.TotalCopies))
	if b.PublishedYear > 0 {
		f.inputs[fieldYear].SetValue(strconv.Itoa(b.PublishedYear))
	}
	f.visible = true
}

func (f *BookForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focus = fieldTitle
	f.inputs[f.focus].Focus()
	f.err = ""
}

// Hide dismisses the form
func (f *BookForm) Hide() {
	f.visible = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

// IsVisible returns whether the form is shown
func (f BookForm) IsVisible() bool { return f.visible }

// EditingID returns the id of the book being edited, or "" when adding
func (f BookForm) EditingID() string { return f.editingID }

// SetError shows a validation message under the fields
func (f *BookForm) SetError(msg string) { f.err = msg }

// NewBook parses the fields for an add
func (f BookForm) NewBook() (domain.NewBook, error) {
	copies, year, err := f.numbers()
	if err != nil {
		return domain.NewBook{}, err
	}
	return domain.NewBook{
		Title:         f.value(fieldTitle),
		Author:        f.value(fieldAuthor),
		ISBN:          f.value(fieldISBN),
		Category:      f.value(fieldCategory),
		TotalCopies:   copies,
		PublishedYear: year,
	}, nil
}

// Patch parses the fields for an edit. Every field is set.
func (f BookForm) Patch() (domain.BookPatch, error) {
	copies, year, err := f.numbers()
	if err != nil {
		return domain.BookPatch{}, err
	}
	title := f.value(fieldTitle)
	if title == "" {
		return domain.BookPatch{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	author, isbn, category := f.value(fieldAuthor), f.value(fieldISBN), f.value(fieldCategory)
	return domain.BookPatch{
		Title:         &title,
		Author:        &author,
		ISBN:          &isbn,
		Category:      &category,
		TotalCopies:   &copies,
		PublishedYear: &year,
	}, nil
}

func (f BookForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

func (f BookForm) numbers() (copies, year int, err error) {
	if s := f.value(fieldCopies); s != "" {
		if copies, err = strconv.Atoi(s); err != nil || copies < 0 {
			return 0, 0, fmt.Errorf("%w: copies must be a whole number", domain.ErrValidation)
		}
	}
	if s := f.value(fieldYear); s != "" {
		if year, err = strconv.Atoi(s); err != nil {
			return 0, 0, fmt.Errorf("%w: year must be a number", domain.ErrValidation)
		}
	}
	return copies, year, nil
}

// Update handles input events, returns (form, cmd, submitted)
func (f BookForm) Update(msg tea.Msg) (BookForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.Hide()
			return f, nil, false
		case "ctrl+s":
			return f, nil, true
		case "enter":
			if f.focus == fieldCount-1 {
				return f, nil, true
			}
			return f, f.move(1), false
		case "tab", "down":
			return f, f.move(1), false
		case "shift+tab", "up":
			return f, f.move(-1), false
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *BookForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// View renders the form modal
func (f BookForm) View() string {
	if !f.visible {
		return ""
	}

	title := "Add Book"
	if f.editingID != "" {
		title = "Edit Book"
	}

	rows := []string{styles.ModalTitleStyle.Render(title)}
	for i := range f.inputs {
		label := styles.LabelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = styles.FocusedLabelStyle.Render(fieldLabels[i])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, f.inputs[i].View()))
	}
	if f.err != "" {
		rows = append(rows, "", styles.ErrorStyle.Render(f.err))
	}
	rows = append(rows, "", styles.DimStyle.Render("tab next · ctrl+s save · esc cancel"))

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
