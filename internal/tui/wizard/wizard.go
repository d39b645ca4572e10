// ABOUTME: Creation wizard as a bubbletea model bound to the workflow controller
// ABOUTME: Walks through project, upload and reply steps with a progress indicator

package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/filepick"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/filepicker"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/icons"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui/styles"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/workflow"
)

// CompleteMsg is sent after a successful submission. Files lists what was
// attached so the caller can remember them.
type CompleteMsg struct {
	Kind  workflow.Kind
	Files []client.File
}

// CancelledMsg is sent when the user backs out of the first step
type CancelledMsg struct{}

type step int

const (
	stepProjectDetails step = iota
	stepDocumentDetails
	stepProject
	stepDocument
	stepReplyDetails
	stepFiles
	stepReview
)

func (s step) name() string {
	switch s {
	case stepProject:
		return "Project"
	case stepDocument:
		return "Document"
	case stepFiles:
		return "Files"
	case stepReview:
		return "Review"
	default:
		return "Details"
	}
}

var flows = map[workflow.Kind][]step{
	workflow.KindNewProject:     {stepProjectDetails, stepReview},
	workflow.KindUploadDocument: {stepDocumentDetails, stepProject, stepFiles, stepReview},
	workflow.KindReplyDocument:  {stepDocument, stepReplyDetails, stepFiles, stepReview},
}

var titles = map[workflow.Kind]string{
	workflow.KindNewProject:     "New Project",
	workflow.KindUploadDocument: "Upload Document",
	workflow.KindReplyDocument:  "Reply to Document",
}

// pickerLoadedMsg is sent when a project or document fetch finishes
type pickerLoadedMsg struct {
	err error
}

// filesPickedMsg is sent when the controller has taken the chosen files
type filesPickedMsg struct {
	err error
}

// submittedMsg is sent when a submission finishes
type submittedMsg struct {
	files []client.File
	err   error
}

// Wizard manages one creation flow as a bubbletea model
type Wizard struct {
	ctx     context.Context
	ctrl    *workflow.Controller
	kind    workflow.Kind
	steps   []step
	index   int
	form    *huh.Form
	picker  *filepicker.FilePicker
	recent  []string
	query   textinput.Model
	spinner spinner.Model
	cursor  int
	loading bool
	err     string
	width   int

	// Form field values (strings for huh)
	name        string
	description string
	title       string
	reference   string
	docType     string
}

// New creates a wizard for the controller's active mode. recent lists
// previously attached paths offered by the file step.
func New(ctx context.Context, ctrl *workflow.Controller, recent []string) *Wizard {
	kind := ctrl.Mode().Kind()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	q := textinput.New()
	q.Placeholder = "Search documents"
	q.CharLimit = 100
	q.Width = 40

	return &Wizard{
		ctx:     ctx,
		ctrl:    ctrl,
		kind:    kind,
		steps:   flows[kind],
		recent:  recent,
		query:   q,
		spinner: sp,
	}
}

// Kind returns the flow this wizard runs
func (w *Wizard) Kind() workflow.Kind {
	return w.kind
}

// Loading reports whether the wizard is waiting on the backend
func (w *Wizard) Loading() bool {
	return w.loading || w.ctrl.Loading()
}

func (w *Wizard) current() step {
	if len(w.steps) == 0 {
		return stepReview
	}
	return w.steps[w.index]
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	if len(w.steps) == 0 {
		return func() tea.Msg { return CancelledMsg{} }
	}
	return w.enter()
}

// enter prepares the current step
func (w *Wizard) enter() tea.Cmd {
	w.err = ""
	w.cursor = 0

	switch w.current() {
	case stepProjectDetails:
		f := w.ctrl.ProjectForm()
		w.name, w.description = f.Name, f.Description
		w.form = w.createProjectForm()
		return w.form.Init()

	case stepDocumentDetails:
		f := w.ctrl.DocumentForm()
		w.title, w.reference, w.docType, w.description = f.Title, f.ReferenceNumber, f.DocumentType, f.Description
		w.form = w.createDocumentForm()
		return w.form.Init()

	case stepReplyDetails:
		w.title = w.ctrl.ReplyForm().Title
		w.form = w.createReplyForm()
		return w.form.Init()

	case stepProject:
		return w.load(w.ctrl.OpenProjectPicker)

	case stepDocument:
		w.query.SetValue(w.ctrl.Query())
		w.query.Focus()
		return tea.Batch(textinput.Blink, w.load(w.ctrl.OpenDocumentPicker))

	case stepFiles:
		w.picker = filepicker.New(w.recent)
		if w.width > 0 {
			w.picker.Update(tea.WindowSizeMsg{Width: w.width})
		}
		return w.picker.Init()
	}

	return nil
}

// load runs a picker fetch in the background
func (w *Wizard) load(open func(context.Context) error) tea.Cmd {
	w.loading = true
	ctx := w.ctx
	return tea.Batch(w.spinner.Tick, func() tea.Msg {
		return pickerLoadedMsg{err: open(ctx)}
	})
}

func (w *Wizard) createProjectForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Placeholder("e.g., Roads Rehabilitation").
				Value(&w.name),
			huh.NewText().
				Title("Description").
				CharLimit(500).
				Lines(3).
				Value(&w.description),
		).Title("Project Details").
			Description("Name the project and describe it"),
	).WithShowHelp(false).WithTheme(styles.FormTheme())
}

func (w *Wizard) createDocumentForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("e.g., Invoice Q1").
				Value(&w.title),
			huh.NewInput().
				Title("Reference number").
				Value(&w.reference),
			huh.NewInput().
				Title("Document type").
				Placeholder("e.g., Invoice").
				Value(&w.docType),
			huh.NewText().
				Title("Description").
				CharLimit(500).
				Lines(3).
				Value(&w.description),
		).Title("Document Details").
			Description("Describe the document you are uploading"),
	).WithShowHelp(false).WithTheme(styles.FormTheme())
}

func (w *Wizard) createReplyForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reply title").
				Placeholder("e.g., Signed copy").
				Value(&w.title),
		).Title("Reply Details").
			Description("Replying to " + w.ctrl.ReplyForm().DocumentTitle),
	).WithShowHelp(false).WithTheme(styles.FormTheme())
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		if w.picker != nil {
			w.picker.Update(msg)
		}
		if w.form != nil {
			form, cmd := w.form.Update(msg)
			if f, ok := form.(*huh.Form); ok {
				w.form = f
			}
			return w, cmd
		}
		return w, nil

	case spinner.TickMsg:
		if !w.Loading() {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case pickerLoadedMsg:
		w.loading = false
		if msg.err != nil {
			w.err = msg.err.Error()
		}
		return w, nil

	case filesPickedMsg:
		w.loading = false
		if msg.err != nil {
			w.err = msg.err.Error()
			return w, nil
		}
		return w, w.advance()

	case submittedMsg:
		return w.handleSubmitted(msg)

	case filepicker.FilesSelectedMsg:
		return w, w.pickFiles(msg.Files)

	case filepicker.CancelledMsg:
		return w, w.back()

	case tea.KeyMsg:
		if w.Loading() {
			return w, nil
		}
		if msg.String() == "esc" && w.current() != stepFiles {
			return w, w.back()
		}
	}

	switch w.current() {
	case stepProjectDetails, stepDocumentDetails, stepReplyDetails:
		return w.updateForm(msg)
	case stepProject:
		return w.updateProject(msg)
	case stepDocument:
		return w.updateDocument(msg)
	case stepFiles:
		if w.picker != nil && !w.Loading() {
			model, cmd := w.picker.Update(msg)
			w.picker = model.(*filepicker.FilePicker)
			return w, cmd
		}
	case stepReview:
		return w.updateReview(msg)
	}

	return w, nil
}

func (w *Wizard) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if w.form == nil {
		return w, nil
	}
	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State != huh.StateCompleted {
		return w, cmd
	}

	if err := w.applyForm(); err != nil {
		w.err = err.Error()
		return w, nil
	}
	return w, w.advance()
}

// applyForm copies the huh values into the controller's form
func (w *Wizard) applyForm() error {
	switch w.current() {
	case stepProjectDetails:
		return w.ctrl.EditProject(func(f *workflow.ProjectForm) {
			f.Name = w.name
			f.Description = w.description
		})
	case stepDocumentDetails:
		return w.ctrl.EditDocument(func(f *workflow.DocumentForm) {
			f.Title = w.title
			f.ReferenceNumber = w.reference
			f.DocumentType = w.docType
			f.Description = w.description
		})
	case stepReplyDetails:
		return w.ctrl.EditReply(func(f *workflow.ReplyForm) {
			f.Title = w.title
		})
	}
	return nil
}

func (w *Wizard) updateProject(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	projects := w.ctrl.Projects()
	switch key.String() {
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(projects)-1 {
			w.cursor++
		}
	case "r":
		w.ctrl.CloseProjectPicker()
		return w, w.load(w.ctrl.OpenProjectPicker)
	case "enter":
		if len(projects) == 0 {
			return w, nil
		}
		if err := w.ctrl.SelectProject(projects[w.cursor]); err != nil {
			w.err = err.Error()
			return w, nil
		}
		return w, w.advance()
	}
	return w, nil
}

func (w *Wizard) updateDocument(msg tea.Msg) (tea.Model, tea.Cmd) {
	docs := w.ctrl.FilteredDocuments()

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up":
			if w.cursor > 0 {
				w.cursor--
			}
			return w, nil
		case "down":
			if w.cursor < len(docs)-1 {
				w.cursor++
			}
			return w, nil
		case "ctrl+r":
			w.ctrl.CloseDocumentPicker()
			return w, w.load(w.ctrl.OpenDocumentPicker)
		case "enter":
			if len(docs) == 0 {
				return w, nil
			}
			if err := w.ctrl.SelectDocument(docs[w.cursor]); err != nil {
				w.err = err.Error()
				return w, nil
			}
			w.query.Blur()
			return w, w.advance()
		}
	}

	var cmd tea.Cmd
	w.query, cmd = w.query.Update(msg)
	if w.query.Value() != w.ctrl.Query() {
		w.ctrl.SetQuery(w.query.Value())
		w.cursor = 0
	}
	return w, cmd
}

func (w *Wizard) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	files := w.files()
	switch key.String() {
	case "up", "k":
		if w.cursor > 0 {
			w.cursor--
		}
	case "down", "j":
		if w.cursor < len(files)-1 {
			w.cursor++
		}
	case "x", "delete":
		if len(files) == 0 {
			return w, nil
		}
		if err := w.ctrl.RemoveFile(w.kind, w.cursor); err != nil {
			w.err = err.Error()
			return w, nil
		}
		if w.cursor > 0 && w.cursor >= len(files)-1 {
			w.cursor--
		}
	case "a":
		if w.kind != workflow.KindNewProject {
			return w, w.jumpTo(stepFiles)
		}
	case "enter":
		return w, w.submit()
	}
	return w, nil
}

// pickFiles hands the picked files to the controller
func (w *Wizard) pickFiles(files []client.File) tea.Cmd {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	w.loading = true
	ctx, ctrl, kind := w.ctx, w.ctrl, w.kind
	return tea.Batch(w.spinner.Tick, func() tea.Msg {
		return filesPickedMsg{err: ctrl.PickFiles(ctx, kind, filepick.Static(paths))}
	})
}

// submit sends the active form
func (w *Wizard) submit() tea.Cmd {
	w.err = ""
	w.loading = true
	files := w.files()
	ctx, ctrl, kind := w.ctx, w.ctrl, w.kind
	return tea.Batch(w.spinner.Tick, func() tea.Msg {
		var err error
		switch kind {
		case workflow.KindNewProject:
			_, err = ctrl.SubmitNewProject(ctx)
		case workflow.KindUploadDocument:
			_, err = ctrl.SubmitDocumentUpload(ctx)
		case workflow.KindReplyDocument:
			_, err = ctrl.SubmitReply(ctx)
		}
		return submittedMsg{files: files, err: err}
	})
}

func (w *Wizard) handleSubmitted(msg submittedMsg) (tea.Model, tea.Cmd) {
	w.loading = false
	if msg.err == nil {
		kind, files := w.kind, msg.files
		return w, func() tea.Msg { return CompleteMsg{Kind: kind, Files: files} }
	}

	var verrs validation.Errors
	switch {
	case errors.As(msg.err, &verrs):
		w.err = verrs.Error()
	case errors.Is(msg.err, workflow.ErrBusy):
	default:
		// already reported through the notifier; the form is kept
		w.err = "Submission failed. Press enter to try again."
	}
	return w, nil
}

// files returns the attachments of the active form
func (w *Wizard) files() []client.File {
	switch w.kind {
	case workflow.KindUploadDocument:
		return w.ctrl.DocumentForm().Files
	case workflow.KindReplyDocument:
		return w.ctrl.ReplyForm().Files
	}
	return nil
}

func (w *Wizard) advance() tea.Cmd {
	if w.index < len(w.steps)-1 {
		w.index++
	}
	return w.enter()
}

func (w *Wizard) back() tea.Cmd {
	switch w.current() {
	case stepProject:
		w.ctrl.CloseProjectPicker()
	case stepDocument:
		w.ctrl.CloseDocumentPicker()
		w.query.Blur()
	}
	if w.index == 0 {
		return func() tea.Msg { return CancelledMsg{} }
	}
	w.index--
	return w.enter()
}

func (w *Wizard) jumpTo(s step) tea.Cmd {
	for i, st := range w.steps {
		if st == s {
			w.index = i
			return w.enter()
		}
	}
	return nil
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(titles[w.kind]))
	sb.WriteString("\n")
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")

	switch w.current() {
	case stepProjectDetails, stepDocumentDetails, stepReplyDetails:
		if w.form != nil {
			sb.WriteString(w.form.View())
		}
	case stepProject:
		sb.WriteString(w.viewProjects())
	case stepDocument:
		sb.WriteString(w.viewDocuments())
	case stepFiles:
		if w.Loading() {
			sb.WriteString(w.spinner.View() + " Attaching files...")
		} else if w.picker != nil {
			sb.WriteString(w.picker.View())
		}
	case stepReview:
		sb.WriteString(w.viewReview())
	}

	if w.err != "" {
		sb.WriteString("\n\n")
		sb.WriteString(styles.ErrorText.Render("Error: " + w.err))
	}

	return sb.String()
}

func (w *Wizard) viewProjects() string {
	if w.loading {
		return w.spinner.View() + " Loading projects..."
	}

	var sb strings.Builder
	sb.WriteString(styles.KeyStyle.Render("Select a project"))
	sb.WriteString("\n")

	projects := w.ctrl.Projects()
	if len(projects) == 0 {
		sb.WriteString(styles.Dim.Render("No projects available. Press r to retry."))
		return sb.String()
	}

	current := w.ctrl.DocumentForm().ProjectID
	for i, p := range projects {
		label := icons.Project.String() + " " + p.ProjectName
		if p.ID == current {
			label += " " + icons.CheckOK.String()
		}
		sb.WriteString(styles.Row(label, i == w.cursor) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (w *Wizard) viewDocuments() string {
	var sb strings.Builder
	sb.WriteString(styles.KeyStyle.Render("Select a document"))
	sb.WriteString("\n")
	sb.WriteString(w.query.View())
	sb.WriteString("\n\n")

	if w.loading {
		sb.WriteString(w.spinner.View() + " Loading documents...")
		return sb.String()
	}

	docs := w.ctrl.FilteredDocuments()
	if len(docs) == 0 {
		sb.WriteString(styles.Dim.Render("No matching documents"))
		return sb.String()
	}

	for i, d := range docs {
		sb.WriteString(styles.Row(icons.Document.String()+" "+d.Title, i == w.cursor) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (w *Wizard) viewReview() string {
	var sb strings.Builder

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = styles.Dim.Render("-")
		} else {
			value = styles.ValueStyle.Render(value)
		}
		sb.WriteString(fmt.Sprintf("%-18s %s\n", label, value))
	}

	switch w.kind {
	case workflow.KindNewProject:
		f := w.ctrl.ProjectForm()
		field("Project name", f.Name)
		field("Description", f.Description)
	case workflow.KindUploadDocument:
		f := w.ctrl.DocumentForm()
		field("Title", f.Title)
		field("Project", f.ProjectName)
		field("Reference number", f.ReferenceNumber)
		field("Document type", f.DocumentType)
		field("Description", f.Description)
	case workflow.KindReplyDocument:
		f := w.ctrl.ReplyForm()
		field("Document", f.DocumentTitle)
		field("Title", f.Title)
	}

	if w.kind != workflow.KindNewProject {
		files := w.files()
		sb.WriteString("\n")
		sb.WriteString(styles.KeyStyle.Render(fmt.Sprintf("Files (%d)", len(files))))
		sb.WriteString("\n")
		if len(files) == 0 {
			sb.WriteString(styles.Dim.Render("No files attached. Press a to add files."))
			sb.WriteString("\n")
		}
		for i, f := range files {
			sb.WriteString(styles.Row(icons.File.String()+" "+f.Name, i == w.cursor) + "\n")
		}
	}

	sb.WriteString("\n")
	switch {
	case w.Loading():
		sb.WriteString(w.spinner.View() + " Submitting...")
	case w.ctrl.CanSubmit():
		sb.WriteString(styles.StatusOK.Render("Ready to submit. Press enter."))
	default:
		sb.WriteString(styles.StatusWarning.Render("Some required fields are missing."))
	}

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var parts []string
	for i, s := range w.steps {
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case i < w.index:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case i == w.index:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		parts = append(parts, fmt.Sprintf("%s %s", indicator, nameStyle.Render(s.name())))
	}
	stepsLine := strings.Join(parts, "    ")

	// "│  " + bar + " │" = 5 chars overhead
	barWidth := width - 5
	total := max(1, len(w.steps))
	filledWidth := ((w.index + 1) * barWidth) / total
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	styledTitle := titleStyle.Render("Progress")
	titleWidth := lipgloss.Width("Progress")

	// "┌─ " + title + " " + fill + "┐"
	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + filledBar + emptyBar + " │"

	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}
