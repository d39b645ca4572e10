// ABOUTME: Mode chooser shown when the creation modal opens
// ABOUTME: Lets the user pick new project, upload document or reply to document

package menu

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

// ChosenMsg is sent when the user picks a mode
type ChosenMsg struct {
	Kind workflow.Kind
}

// CancelledMsg is sent when the user closes the modal from the chooser
type CancelledMsg struct{}

type option struct {
	label string
	value workflow.Kind
}

// Menu is the creation mode chooser
type Menu struct {
	options  []option
	selected workflow.Kind
	form     *huh.Form
}

// New creates a chooser with the first option focused
func New() *Menu {
	m := &Menu{
		options: []option{
			{label: "New Project", value: workflow.KindNewProject},
			{label: "Upload Document", value: workflow.KindUploadDocument},
			{label: "Reply to Document", value: workflow.KindReplyDocument},
		},
		selected: workflow.KindNewProject,
	}
	m.form = m.newForm()
	return m
}

func (m *Menu) newForm() *huh.Form {
	options := make([]huh.Option[workflow.Kind], 0, len(m.options))
	for _, opt := range m.options {
		options = append(options, huh.NewOption(opt.label, opt.value))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[workflow.Kind]().
				Title("What would you like to create?").
				Options(options...).
				Value(&m.selected),
		),
	).WithShowHelp(false).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		kind := m.selected
		return m, func() tea.Msg { return ChosenMsg{Kind: kind} }
	}

	return m, cmd
}

// View implements tea.Model
func (m *Menu) View() string {
	return m.form.View()
}
