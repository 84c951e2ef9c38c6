package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

// LoginMode selects which form the login screen shows
type LoginMode int

const (
	LoginStudent LoginMode = iota
	LoginRegister
	LoginAdmin
)

// String returns the tab label for the mode
func (m LoginMode) String() string {
	switch m {
	case LoginStudent:
		return "Student Login"
	case LoginRegister:
		return "Register"
	case LoginAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

type loginField struct {
	label string
	input textinput.Model
}

// loginForm holds the transient credential inputs
type loginForm struct {
	mode   LoginMode
	fields []loginField
	focus  int
}

func newLoginForm(mode LoginMode) loginForm {
	f := loginForm{mode: mode}
	switch mode {
	case LoginRegister:
		f.fields = []loginField{
			newLoginField("Name", false),
			newLoginField("Username", false),
			newLoginField("Roll No", false),
			newLoginField("Password", true),
			newLoginField("Confirm", true),
		}
	default:
		f.fields = []loginField{
			newLoginField("Username", false),
			newLoginField("Password", true),
		}
	}
	f.fields[0].input.Focus()
	return f
}

func newLoginField(label string, secret bool) loginField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Width = 30
	ti.CharLimit = 64
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return loginField{label: label, input: ti}
}

func (f loginForm) value(label string) string {
	for _, fld := range f.fields {
		if fld.label == label {
			return fld.input.Value()
		}
	}
	return ""
}

// nextMode cycles through the login tabs
func (f loginForm) nextMode() loginForm {
	return newLoginForm((f.mode + 1) % 3)
}

func (f *loginForm) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

// update returns the command to run on submit, or nil while editing.
// A non-empty problem is a client-side validation message.
func (f loginForm) update(msg tea.KeyMsg, cmds domain.LibraryCommands) (loginForm, tea.Cmd, string) {
	switch msg.String() {
	case "tab", "down":
		return f, f.move(1), ""
	case "shift+tab", "up":
		return f, f.move(-1), ""
	case "enter":
		if f.focus < len(f.fields)-1 {
			return f, f.move(1), ""
		}
		cmd, problem := f.submit(cmds)
		return f, cmd, problem
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd, ""
}

func (f loginForm) submit(cmds domain.LibraryCommands) (tea.Cmd, string) {
	for _, fld := range f.fields {
		if strings.TrimSpace(fld.input.Value()) == "" {
			return nil, fld.label + " is required"
		}
	}

	username := strings.TrimSpace(f.value("Username"))
	switch f.mode {
	case LoginAdmin:
		return AdminLoginCmd(cmds, username, f.value("Password")), ""
	case LoginRegister:
		if f.value("Password") != f.value("Confirm") {
			return nil, "Passwords do not match"
		}
		return RegisterCmd(cmds, domain.Student{
			Name:     f.value("Name"),
			Username: username,
			RollNo:   f.value("Roll No"),
			Password: f.value("Password"),
		}), ""
	default:
		return StudentLoginCmd(cmds, username, f.value("Password")), ""
	}
}

func (f loginForm) view(width int) string {
	var tabs []string
	for _, mode := range []LoginMode{LoginStudent, LoginRegister, LoginAdmin} {
		if mode == f.mode {
			tabs = append(tabs, styles.ActiveTabStyle.Render(mode.String()))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(mode.String()))
		}
	}

	rows := []string{
		styles.TitleStyle.Render("shelf · library desk"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	}
	for i, fld := range f.fields {
		label := styles.LabelStyle.Render(fld.label)
		if i == f.focus {
			label = styles.FocusedLabelStyle.Render(fld.label)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, fld.input.View()))
	}
	rows = append(rows, "", styles.DimStyle.Render("tab next field · enter submit · ctrl+t switch form · ctrl+c quit"))

	box := styles.ActiveBorder.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
