// ABOUTME: Sign-in screen as a bubbletea model
// ABOUTME: Collects email and a masked password with huh and reports errors inline

package signin

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
)

// SubmitMsg is sent when the user completes the form
type SubmitMsg struct {
	Username string
	Password string
}

// Model is the sign-in screen
type Model struct {
	form     *huh.Form
	spinner  spinner.Model
	username string
	password string
	err      string
	busy     bool
	width    int
}

// New creates the screen, prefilled with the last username
func New(username string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := &Model{username: username, spinner: sp}
	m.form = m.newForm()
	return m
}

func (m *Model) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.username).
				Validate(required("email is required")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(required("password is required")),
		).Title("Sign in").
			Description("Use your document management account"),
	).WithShowHelp(false).WithTheme(styles.FormTheme())
}

func required(msg string) func(string) error {
	err := errors.New(msg)
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return err
		}
		return nil
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Busy reports whether a sign-in request is in flight
func (m *Model) Busy() bool {
	return m.busy
}

// SetError shows a failed attempt and reopens the form with the password cleared
func (m *Model) SetError(msg string) tea.Cmd {
	m.err = msg
	m.busy = false
	m.password = ""
	m.form = m.newForm()
	return m.form.Init()
}

// SetWidth sets the rendering width
func (m *Model) SetWidth(width int) {
	m.width = width
	m.form = m.form.WithWidth(min(width, 60))
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.busy {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		m.err = ""
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		submit := SubmitMsg{Username: strings.TrimSpace(m.username), Password: m.password}
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg { return submit })
	}

	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("IMO Works Document Management"))
	sb.WriteString("\n")

	if m.busy {
		sb.WriteString(m.spinner.View() + " Signing in...")
		return sb.String()
	}

	sb.WriteString(m.form.View())

	if m.err != "" {
		sb.WriteString("\n")
		sb.WriteString(styles.ErrorText.Render("Error: " + m.err))
	}

	return sb.String()
}
