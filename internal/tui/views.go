package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if m.screen == ScreenLogin {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			m.login.view(m.Width),
			"",
			m.renderStatus(),
		)
	}

	var body string
	switch {
	case m.bookForm.IsVisible():
		body = m.centered(m.bookForm.View())
	case m.picker.IsVisible():
		body = m.centered(m.picker.View())
	case m.confirmDelete != nil:
		body = m.centered(m.renderConfirmDelete())
	default:
		body = m.renderScreen()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) centered(s string) string {
	h := max(m.Height-chromeHeight, lipgloss.Height(s))
	return lipgloss.Place(m.Width, h, lipgloss.Center, lipgloss.Center, s)
}

func (m Model) renderHeader() string {
	who := "Admin"
	if m.session.IsStudent() {
		who = fmt.Sprintf("%s (%s)", m.session.Student.Name, m.session.Student.RollNo)
	}
	title := styles.TitleStyle.Render("shelf") + "  " + styles.SubtitleStyle.Render(who)

	var tabs []string
	for _, s := range m.tabs() {
		if s == m.screen {
			tabs = append(tabs, styles.ActiveTabStyle.Render(s.String()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(s.String()))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	)
}

func (m Model) renderScreen() string {
	switch m.screen {
	case ScreenCatalog:
		return m.renderCatalog()
	case ScreenAdminBooks:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderStats(), m.renderCatalog())
	case ScreenMyLoans, ScreenAdminLoans:
		return m.renderLoans()
	case ScreenAdminStudents:
		if len(m.students) == 0 {
			return styles.DimStyle.Render("No registered students")
		}
		return m.studentsTable.View()
	}
	return ""
}

func (m Model) renderStats() string {
	st := m.Queries.Stats(m.Queries.Now())
	card := func(label string, value int) string {
		return styles.StatCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.StatValueStyle.Render(fmt.Sprint(value)),
			styles.DimStyle.Render(label),
		))
	}
	overdue := card("overdue", st.Overdue)
	if st.Overdue > 0 {
		overdue = styles.StatCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			styles.ErrorStyle.Bold(true).Render(fmt.Sprint(st.Overdue)),
			styles.DimStyle.Render("overdue"),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("titles", st.Titles),
		card("copies", st.TotalCopies),
		card("available", st.AvailableCopies),
		card("issued", st.ActiveLoans),
		overdue,
		card("students", st.Students),
	)
}

func (m Model) renderCatalog() string {
	query := m.searchInput.View()
	if !m.searching && m.searchInput.Value() == "" {
		query = styles.DimStyle.Render("/ search")
	}
	filters := styles.DimStyle.Render(fmt.Sprintf("  category: %s  sort: %s  %d titles",
		m.category(), m.sortField, len(m.books)))
	bar := query + filters

	if len(m.books) == 0 {
		lines := []string{bar, "", styles.DimStyle.Render("No books match")}
		if len(m.suggestions) > 0 {
			lines = append(lines, styles.SubtitleStyle.Render("Did you mean: ")+
				styles.AccentStyle.Render(strings.Join(m.suggestions, ", ")))
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	detail := ""
	if b, ok := m.selectedBook(); ok {
		avail := styles.SuccessStyle.Render(fmt.Sprintf("%d of %d available", b.AvailableCopies, b.TotalCopies))
		if !b.IsAvailable() {
			avail = styles.ErrorStyle.Render("all copies issued")
		}
		detail = styles.DimStyle.Render(fmt.Sprintf("ISBN %s · %s · ", b.ISBN, b.GetDescription())) + avail
	}

	return lipgloss.JoinVertical(lipgloss.Left, bar, m.booksTable.View(), detail)
}

func (m Model) renderLoans() string {
	var heading string
	switch {
	case m.session.IsStudent() && m.showHistory:
		heading = "Returned books"
	case m.session.IsStudent():
		heading = "Books you have issued"
	case m.overdueOnly:
		heading = "Overdue loans"
	default:
		heading = "All loans"
	}
	heading = styles.SubtitleStyle.Render(heading)

	if len(m.loans) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, "", styles.DimStyle.Render("Nothing here"))
	}

	detail := ""
	if v, ok := m.selectedLoan(); ok {
		detail = DueBadge(v.Loan, m.Queries.Now())
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, m.loansTable.View(), detail)
}

func (m Model) renderConfirmDelete() string {
	b := m.confirmDelete
	lines := []string{
		styles.ModalTitleStyle.Render("Delete book"),
		fmt.Sprintf("Delete %q by %s?", styles.Truncate(b.Title, 40), b.Author),
	}
	if n := b.IssuedCopies(); n > 0 {
		lines = append(lines, styles.ErrorStyle.Render(fmt.Sprintf("%s still issued", plural(n, "copy"))))
	}
	lines = append(lines, "", helpLine(Keys.Confirm, Keys.Deny))
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderFooter() string {
	if m.StatusMsg != "" {
		return m.renderStatus()
	}
	return helpLine(m.helpBindings()...)
}

func (m Model) renderStatus() string {
	if m.StatusMsg == "" {
		return ""
	}
	if m.StatusIsErr {
		return styles.ErrorStyle.Render(m.StatusMsg)
	}
	return styles.SuccessStyle.Render(m.StatusMsg)
}

func (m Model) helpBindings() []key.Binding {
	var b []key.Binding
	switch m.screen {
	case ScreenCatalog:
		b = []key.Binding{Keys.Search, Keys.Category, Keys.Sort, Keys.Borrow}
	case ScreenAdminBooks:
		b = []key.Binding{Keys.Search, Keys.Category, Keys.Sort, Keys.Add, Keys.Edit, Keys.Delete, Keys.Issue}
	case ScreenMyLoans:
		b = []key.Binding{Keys.Return, Keys.History}
	case ScreenAdminLoans:
		b = []key.Binding{Keys.Return, Keys.OverdueOnly}
	}
	return append(b, Keys.NextTab, Keys.Logout, Keys.Quit)
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, styles.DimStyle.Render(" · "))
}
