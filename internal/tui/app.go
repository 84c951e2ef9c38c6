package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/mmcdole/shelf/internal/tui/components"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// Screen is the top-level view being shown
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenCatalog
	ScreenMyLoans
	ScreenAdminBooks
	ScreenAdminLoans
	ScreenAdminStudents
)

// String returns the tab label for the screen
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Login"
	case ScreenCatalog:
		return "Catalog"
	case ScreenMyLoans:
		return "My Books"
	case ScreenAdminBooks:
		return "Books"
	case ScreenAdminLoans:
		return "Issued"
	case ScreenAdminStudents:
		return "Students"
	default:
		return "Unknown"
	}
}

const (
	statusTimeout = 4 * time.Second

	// header (title + tabs + gap) and footer lines around the body
	chromeHeight = 5
	statsHeight  = 4
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Services
	Queries  domain.LibraryQueries
	Commands domain.LibraryCommands
	Search   *search.Service
	logger   *slog.Logger

	session domain.Session
	screen  Screen
	login   loginForm

	// Catalog browsing
	searchInput textinput.Model
	searching   bool
	categoryIdx int
	sortField   search.SortField
	books       []domain.Book
	suggestions []string
	booksTable  table.Model

	// Loans
	loans       []domain.LoanView
	showHistory bool // student: returned loans instead of active
	overdueOnly bool // admin: only overdue loans
	loansTable  table.Model

	students      []domain.Student
	studentsTable table.Model

	// Modals
	bookForm      components.BookForm
	picker        components.StudentPicker
	confirmDelete *domain.Book

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
	statusSeq   int
}

// NewModel creates a new application model. An already logged-in session
// in queries is restored.
func NewModel(
	queries domain.LibraryQueries,
	commands domain.LibraryCommands,
	searchSvc *search.Service,
	defaultSort search.SortField,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}

	si := textinput.New()
	si.Placeholder = "title, author, category or ISBN"
	si.Prompt = "/ "
	si.PromptStyle = styles.AccentStyle
	si.CharLimit = 80
	si.Width = 40

	m := Model{
		Queries:       queries,
		Commands:      commands,
		Search:        searchSvc,
		logger:        logger,
		login:         newLoginForm(LoginStudent),
		searchInput:   si,
		sortField:     defaultSort,
		booksTable:    newTable(),
		loansTable:    newTable(),
		studentsTable: newTable(),
		bookForm:      components.NewBookForm(),
		picker:        components.NewStudentPicker(searchSvc.FindStudents),
		Width:         100,
		Height:        30,
	}
	m.picker.Hide()

	m.enterSession(queries.Session())
	return m
}

func newTable() table.Model {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.DimGray).
		BorderBottom(true).
		Foreground(styles.Amber).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.White).
		Background(styles.SlateLight).
		Bold(false)

	return table.New(
		table.WithFocused(true),
		table.WithStyles(s),
		table.WithHeight(10),
	)
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case LoggedInMsg:
		m.enterSession(msg.Session)
		name := "admin"
		if msg.Session.IsStudent() {
			name = msg.Session.Student.Name
		}
		return m, m.setStatus("Welcome, "+name, false)

	case LoggedOutMsg:
		m.enterSession(domain.NoSession())
		return m, m.setStatus("Logged out", false)

	case BookIssuedMsg:
		m.refresh()
		due := msg.Loan.DueDate.Format("Jan 2, 2006")
		return m, m.setStatus(fmt.Sprintf("Issued %q, due %s", msg.Title, due), false)

	case BookReturnedMsg:
		m.refresh()
		return m, m.setStatus(fmt.Sprintf("Returned %q", msg.Title), false)

	case BookSavedMsg:
		m.bookForm.Hide()
		m.refresh()
		verb := "Updated"
		if msg.Added {
			verb = "Added"
		}
		return m, m.setStatus(fmt.Sprintf("%s %q", verb, msg.Book.Title), false)

	case BookDeletedMsg:
		m.refresh()
		return m, m.setStatus(fmt.Sprintf("Deleted %q", msg.Title), false)

	case ErrMsg:
		m.logger.Debug("operation failed", "context", msg.Context, "error", msg.Err)
		if m.bookForm.IsVisible() && errors.Is(msg.Err, domain.ErrValidation) {
			m.bookForm.SetError(msg.Err.Error())
			return m, nil
		}
		return m, m.setStatus(userMessage(msg), true)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

// userMessage turns an operation failure into status line text
func userMessage(e ErrMsg) string {
	switch {
	case errors.Is(e.Err, domain.ErrNoCopiesAvailable):
		return "No copies available"
	case errors.Is(e.Err, domain.ErrAlreadyIssued):
		return "You already have this book issued!"
	case errors.Is(e.Err, domain.ErrAlreadyReturned):
		return "That book was already returned"
	case errors.Is(e.Err, domain.ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(e.Err, domain.ErrDuplicateUsername):
		return "Username already exists"
	case errors.Is(e.Err, domain.ErrDuplicateRollNo):
		return "Roll number already exists"
	default:
		return e.Error()
	}
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusTimeout)
}

// enterSession switches to the first screen the session may see
func (m *Model) enterSession(sess domain.Session) {
	m.session = sess
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.showHistory = false
	m.overdueOnly = false
	m.confirmDelete = nil
	m.bookForm.Hide()
	m.picker.Hide()

	switch {
	case sess.IsAdmin():
		m.screen = ScreenAdminBooks
	case sess.IsStudent():
		m.screen = ScreenCatalog
	default:
		m.screen = ScreenLogin
		m.login = newLoginForm(LoginStudent)
	}
	m.layout()
	m.refresh()
}

// tabs returns the screens available to the current session
func (m Model) tabs() []Screen {
	switch {
	case m.session.IsAdmin():
		return []Screen{ScreenAdminBooks, ScreenAdminLoans, ScreenAdminStudents}
	case m.session.IsStudent():
		return []Screen{ScreenCatalog, ScreenMyLoans}
	default:
		return []Screen{ScreenLogin}
	}
}

func (m *Model) switchTab(delta int) {
	tabs := m.tabs()
	idx := 0
	for i, s := range tabs {
		if s == m.screen {
			idx = i
		}
	}
	m.screen = tabs[(idx+delta+len(tabs))%len(tabs)]
	m.layout()
	m.refresh()
}

// --- Data ---

func (m Model) category() string {
	opts := m.Search.CategoryOptions()
	if m.categoryIdx < 0 || m.categoryIdx >= len(opts) {
		return search.AllCategories
	}
	return opts[m.categoryIdx]
}

// refresh re-reads library state into every table
func (m *Model) refresh() {
	if m.session.IsLoggedIn() {
		m.session = m.Queries.Session()
	}
	m.refreshBooks()
	m.refreshLoans()
	m.refreshStudents()
}

func (m *Model) refreshBooks() {
	query := m.searchInput.Value()
	m.books = m.Search.Browse(search.Options{
		Query:    query,
		Category: m.category(),
		Sort:     m.sortField,
	})

	m.suggestions = nil
	if len(m.books) == 0 && query != "" {
		m.suggestions = m.Search.Suggest(query, 3)
	}

	rows := make([]table.Row, len(m.books))
	for i, b := range m.books {
		year := ""
		if b.PublishedYear > 0 {
			year = fmt.Sprint(b.PublishedYear)
		}
		rows[i] = table.Row{
			b.Title,
			b.Author,
			b.Category,
			year,
			fmt.Sprintf("%d/%d", b.AvailableCopies, b.TotalCopies),
		}
	}
	setRows(&m.booksTable, rows)
}

func (m *Model) refreshLoans() {
	now := m.Queries.Now()

	switch {
	case m.session.IsStudent() && m.showHistory:
		m.loans = m.Queries.LoanHistory(m.session.StudentID())
	case m.session.IsStudent():
		m.loans = m.Queries.ActiveLoans(m.session.StudentID())
	case m.overdueOnly:
		m.loans = m.Queries.OverdueLoans(now)
	default:
		m.loans = m.Queries.AllLoans()
	}

	rows := make([]table.Row, len(m.loans))
	for i, v := range m.loans {
		row := table.Row{v.BookTitle()}
		if m.session.IsAdmin() {
			row = append(row, v.StudentName())
		}
		row = append(row,
			v.Loan.IssueDate.Format("2006-01-02"),
			v.Loan.DueDate.Format("2006-01-02"),
			DueBadgeText(v.Loan, now),
		)
		rows[i] = row
	}
	setRows(&m.loansTable, rows)
}

func (m *Model) refreshStudents() {
	m.students = m.Queries.Students()
	rows := make([]table.Row, len(m.students))
	for i, s := range m.students {
		rows[i] = table.Row{s.Name, s.Username, s.RollNo, fmt.Sprint(m.Queries.ActiveLoanCount(s.ID))}
	}
	setRows(&m.studentsTable, rows)
}

func setRows(t *table.Model, rows []table.Row) {
	t.SetRows(rows)
	// An emptied table parks the cursor at -1
	if c := t.Cursor(); c < 0 || c >= len(rows) {
		t.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selectedBook() (domain.Book, bool) {
	i := m.booksTable.Cursor()
	if i < 0 || i >= len(m.books) {
		return domain.Book{}, false
	}
	return m.books[i], true
}

func (m Model) selectedLoan() (domain.LoanView, bool) {
	i := m.loansTable.Cursor()
	if i < 0 || i >= len(m.loans) {
		return domain.LoanView{}, false
	}
	return m.loans[i], true
}

// --- Layout ---

// layout sizes the tables for the current window and screen
func (m *Model) layout() {
	w := max(m.Width-4, 40)
	h := max(m.Height-chromeHeight, 5)
	if m.session.IsAdmin() && m.screen == ScreenAdminBooks {
		h = max(h-statsHeight, 5)
	}
	// search line and detail line
	m.booksTable.SetHeight(max(h-3, 3))
	m.loansTable.SetHeight(max(h-2, 3))
	m.studentsTable.SetHeight(h)

	m.booksTable.SetColumns(scaleColumns(w, []table.Column{
		{Title: "Title", Width: 34},
		{Title: "Author", Width: 22},
		{Title: "Category", Width: 18},
		{Title: "Year", Width: 6},
		{Title: "Avail", Width: 7},
	}))

	loanCols := []table.Column{{Title: "Book", Width: 34}}
	if m.session.IsAdmin() {
		loanCols = append(loanCols, table.Column{Title: "Student", Width: 18})
	}
	loanCols = append(loanCols,
		table.Column{Title: "Issued", Width: 10},
		table.Column{Title: "Due", Width: 10},
		table.Column{Title: "Status", Width: 20},
	)
	// Rows are rebuilt in refresh to match the column count
	m.loansTable.SetRows(nil)
	m.loansTable.SetColumns(scaleColumns(w, loanCols))

	m.studentsTable.SetColumns(scaleColumns(w, []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Username", Width: 16},
		{Title: "Roll No", Width: 14},
		{Title: "Active", Width: 7},
	}))
}

// scaleColumns shrinks the first column so the table fits width
func scaleColumns(width int, cols []table.Column) []table.Column {
	total := 0
	for _, c := range cols {
		total += c.Width + 2 // cell padding
	}
	if over := total - width; over > 0 {
		cols[0].Width = max(cols[0].Width-over, 10)
	}
	return cols
}

// --- Keys ---

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Modals capture all input
	switch {
	case m.bookForm.IsVisible():
		return m.handleBookForm(msg)
	case m.picker.IsVisible():
		return m.handlePicker(msg)
	case m.confirmDelete != nil:
		return m.handleConfirmDelete(msg)
	case m.screen == ScreenLogin:
		return m.handleLogin(msg)
	case m.searching:
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Logout):
		return m, LogoutCmd(m.Commands)
	case key.Matches(msg, Keys.NextTab):
		m.switchTab(1)
		return m, nil
	case key.Matches(msg, Keys.PrevTab):
		m.switchTab(-1)
		return m, nil
	}

	switch m.screen {
	case ScreenCatalog, ScreenAdminBooks:
		return m.handleCatalogKeys(msg)
	case ScreenMyLoans, ScreenAdminLoans:
		return m.handleLoanKeys(msg)
	case ScreenAdminStudents:
		var cmd tea.Cmd
		m.studentsTable, cmd = m.studentsTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+t" {
		m.login = m.login.nextMode()
		return m, nil
	}
	var cmd tea.Cmd
	var problem string
	m.login, cmd, problem = m.login.update(msg, m.Commands)
	if problem != "" {
		return m, m.setStatus(problem, true)
	}
	return m, cmd
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.refreshBooks()
		return m, nil
	case "enter", "down":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refreshBooks()
	return m, cmd
}

func (m Model) handleCatalogKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()
	case key.Matches(msg, Keys.Escape):
		m.searchInput.SetValue("")
		m.categoryIdx = 0
		m.refreshBooks()
		return m, nil
	case key.Matches(msg, Keys.Category):
		m.categoryIdx = (m.categoryIdx + 1) % len(m.Search.CategoryOptions())
		m.refreshBooks()
		return m, nil
	case key.Matches(msg, Keys.Sort):
		m.sortField = m.sortField.Next()
		m.refreshBooks()
		return m, nil
	}

	if m.session.IsStudent() && key.Matches(msg, Keys.Borrow) {
		book, ok := m.selectedBook()
		if !ok {
			return m, nil
		}
		if !book.IsAvailable() {
			return m, m.setStatus("No copies available", true)
		}
		return m, IssueBookCmd(m.Commands, book, m.session.StudentID())
	}

	if m.session.IsAdmin() {
		switch {
		case key.Matches(msg, Keys.Add):
			m.bookForm.ShowAdd()
			return m, nil
		case key.Matches(msg, Keys.Edit):
			if book, ok := m.selectedBook(); ok {
				m.bookForm.ShowEdit(book)
			}
			return m, nil
		case key.Matches(msg, Keys.Delete):
			if book, ok := m.selectedBook(); ok {
				m.confirmDelete = &book
			}
			return m, nil
		case key.Matches(msg, Keys.Issue):
			book, ok := m.selectedBook()
			if !ok {
				return m, nil
			}
			if !book.IsAvailable() {
				return m, m.setStatus("No copies available", true)
			}
			m.picker.Show(fmt.Sprintf("Issue %q to…", styles.Truncate(book.Title, 30)))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.booksTable, cmd = m.booksTable.Update(msg)
	return m, cmd
}

func (m Model) handleLoanKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Return):
		view, ok := m.selectedLoan()
		if !ok || !view.Loan.IsActive() {
			return m, nil
		}
		return m, ReturnBookCmd(m.Commands, view)
	case m.session.IsStudent() && key.Matches(msg, Keys.History):
		m.showHistory = !m.showHistory
		m.refreshLoans()
		return m, nil
	case m.session.IsAdmin() && key.Matches(msg, Keys.OverdueOnly):
		m.overdueOnly = !m.overdueOnly
		m.refreshLoans()
		return m, nil
	}

	var cmd tea.Cmd
	m.loansTable, cmd = m.loansTable.Update(msg)
	return m, cmd
}

func (m Model) handleBookForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var submitted bool
	m.bookForm, cmd, submitted = m.bookForm.Update(msg)
	if !submitted {
		return m, cmd
	}

	if id := m.bookForm.EditingID(); id != "" {
		patch, err := m.bookForm.Patch()
		if err != nil {
			m.bookForm.SetError(err.Error())
			return m, nil
		}
		return m, UpdateBookCmd(m.Commands, id, patch)
	}

	nb, err := m.bookForm.NewBook()
	if err != nil {
		m.bookForm.SetError(err.Error())
		return m, nil
	}
	return m, AddBookCmd(m.Commands, nb)
}

func (m Model) handlePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var chosen bool
	m.picker, cmd, chosen = m.picker.Update(msg)
	if !chosen {
		return m, cmd
	}

	student, ok := m.picker.Selected()
	m.picker.Hide()
	book, hasBook := m.selectedBook()
	if !ok || !hasBook {
		return m, nil
	}
	return m, IssueBookCmd(m.Commands, book, student.ID)
}

func (m Model) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	book := *m.confirmDelete
	switch {
	case key.Matches(msg, Keys.Confirm):
		m.confirmDelete = nil
		return m, DeleteBookCmd(m.Commands, book)
	case key.Matches(msg, Keys.Deny):
		m.confirmDelete = nil
	}
	return m, nil
}
