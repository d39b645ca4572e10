// ABOUTME: Creation workflow controller for projects, documents and replies
// ABOUTME: Owns mode, form state, pickers, the loading guard and submissions

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
)

var (
	// ErrBusy is returned while a submission is in flight
	ErrBusy = errors.New("a submission is already in progress")
	// ErrWrongMode is returned when an operation does not apply to the active mode
	ErrWrongMode = errors.New("operation not available in the current mode")
	// ErrNoDocument is returned when reply files are picked before choosing a document
	ErrNoDocument = errors.New("select a document first")
)

// API is the subset of the backend the controller submits to. An
// authenticated *client.Client satisfies it.
type API interface {
	ListProjects(ctx context.Context) ([]client.Project, error)
	ListDocuments(ctx context.Context) ([]client.Document, error)
	CreateProject(ctx context.Context, input client.ProjectInput) (*client.Project, error)
	UploadDocument(ctx context.Context, input client.DocumentInput) (*client.Document, error)
	ReplyToDocument(ctx context.Context, documentID string, input client.ReplyInput) (*client.Reply, error)
}

// FilePicker selects local files. An empty result with a nil error means
// the user canceled.
type FilePicker interface {
	Pick(ctx context.Context) ([]client.File, error)
}

// FilePickerFunc adapts a function to FilePicker
type FilePickerFunc func(ctx context.Context) ([]client.File, error)

// Pick calls f(ctx)
func (f FilePickerFunc) Pick(ctx context.Context) ([]client.File, error) {
	return f(ctx)
}

// Option configures a Controller
type Option func(*Controller)

// WithOnSuccess sets a callback run after every successful submission,
// typically to refresh the screen behind the modal
func WithOnSuccess(fn func(ctx context.Context) error) Option {
	return func(c *Controller) {
		c.onSuccess = fn
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// Controller drives the creation modal. It is safe for concurrent use.
type Controller struct {
	api       API
	notifier  Notifier
	onSuccess func(ctx context.Context) error
	logger    *slog.Logger

	mu      sync.Mutex
	mode    Mode
	loading bool
	// gen increments on every reset; async work started in an older
	// generation discards its result
	gen uint64

	projects         []client.Project
	projectsLoaded   bool
	projectsFetching bool

	documents         []client.Document
	documentsLoaded   bool
	documentsFetching bool
}

// New creates a controller in the select mode
func New(api API, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		api:      api,
		notifier: notifier,
		logger:   slog.Default(),
		mode:     Select{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(Notification) {})
	}
	return c
}

// Mode returns a copy of the active mode
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneMode(c.mode)
}

// Loading reports whether a submission is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ProjectForm returns the new-project form, or the zero form in other modes
func (c *Controller) ProjectForm() ProjectForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(NewProject); ok {
		return m.Form
	}
	return ProjectForm{}
}

// DocumentForm returns the upload form, or the zero form in other modes
func (c *Controller) DocumentForm() DocumentForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(UploadDocument); ok {
		f := m.Form
		f.Files = cloneFiles(f.Files)
		return f
	}
	return DocumentForm{}
}

// ReplyForm returns the reply form, or the zero form in other modes
func (c *Controller) ReplyForm() ReplyForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(ReplyDocument); ok {
		f := m.Form
		f.Files = cloneFiles(f.Files)
		return f
	}
	return ReplyForm{}
}

// ProjectPickerOpen reports whether the inline project picker is showing
func (c *Controller) ProjectPickerOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.mode.(UploadDocument)
	return ok && m.PickerOpen
}

// DocumentPickerOpen reports whether the inline document picker is showing
func (c *Controller) DocumentPickerOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.mode.(ReplyDocument)
	return ok && m.PickerOpen
}

// Query returns the document search text
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(ReplyDocument); ok {
		return m.Query
	}
	return ""
}

// Choose leaves the select mode for the chosen action
func (c *Controller) Choose(k Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	if c.mode.Kind() != KindSelect {
		return ErrWrongMode
	}
	if k == KindSelect {
		return nil
	}
	m, err := newMode(k)
	if err != nil {
		return err
	}
	c.mode = m
	return nil
}

// Back returns to the select mode and discards the active form. Fetched
// picker lists are kept for the rest of the modal lifetime.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	c.mode = Select{}
	return nil
}

// Dismiss closes the modal from any state and resets everything, including
// the loading flag and the fetched lists
func (c *Controller) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.gen++
	c.mode = Select{}
	c.loading = false
	c.projects = nil
	c.projectsLoaded = false
	c.projectsFetching = false
	c.documents = nil
	c.documentsLoaded = false
	c.documentsFetching = false
}

// OpenProjectPicker shows the project picker in upload mode and fetches the
// project list once per modal lifetime. A fetch failure is reported through
// the notifier and leaves the picker open and empty.
func (c *Controller) OpenProjectPicker(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	m, ok := c.mode.(UploadDocument)
	if !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}
	m.PickerOpen = true
	c.mode = m
	if c.projectsLoaded || c.projectsFetching {
		c.mu.Unlock()
		return nil
	}
	c.projectsFetching = true
	gen := c.gen
	c.mu.Unlock()

	projects, err := c.api.ListProjects(ctx)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	c.projectsFetching = false
	if err == nil {
		c.projects = projects
		c.projectsLoaded = true
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("fetching projects failed", "error", err)
		c.notifier.Notify(Notification{Level: LevelError, Message: MsgProjectsFailed, Err: err})
	}
	return nil
}

// CloseProjectPicker hides the project picker
func (c *Controller) CloseProjectPicker() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(UploadDocument); ok {
		m.PickerOpen = false
		c.mode = m
	}
}

// OpenDocumentPicker shows the document picker in reply mode and fetches the
// document list once per modal lifetime. A fetch failure is reported through
// the notifier and leaves the picker open and empty.
func (c *Controller) OpenDocumentPicker(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	m, ok := c.mode.(ReplyDocument)
	if !ok {
		c.mu.Unlock()
		return ErrWrongMode
	}
	m.PickerOpen = true
	c.mode = m
	if c.documentsLoaded || c.documentsFetching {
		c.mu.Unlock()
		return nil
	}
	c.documentsFetching = true
	gen := c.gen
	c.mu.Unlock()

	docs, err := c.api.ListDocuments(ctx)

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	c.documentsFetching = false
	if err == nil {
		c.documents = docs
		c.documentsLoaded = true
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("fetching documents failed", "error", err)
		c.notifier.Notify(Notification{Level: LevelError, Message: MsgDocumentsFailed, Err: err})
	}
	return nil
}

// CloseDocumentPicker hides the document picker
func (c *Controller) CloseDocumentPicker() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(ReplyDocument); ok {
		m.PickerOpen = false
		c.mode = m
	}
}

// SelectProject records the project on the upload form and closes the picker
func (c *Controller) SelectProject(p client.Project) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	m, ok := c.mode.(UploadDocument)
	if !ok {
		return ErrWrongMode
	}
	m.Form.ProjectID = p.ID
	m.Form.ProjectName = p.ProjectName
	// the project picker has no search text to clear
	m.PickerOpen = false
	c.mode = m
	return nil
}

// SelectDocument records the document on the reply form, closes the picker
// and clears the search text
func (c *Controller) SelectDocument(d client.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	m, ok := c.mode.(ReplyDocument)
	if !ok {
		return ErrWrongMode
	}
	m.Form.DocumentID = d.ID
	m.Form.DocumentTitle = d.Title
	m.PickerOpen = false
	m.Query = ""
	c.mode = m
	return nil
}

// SetQuery updates the document search text. It is ignored outside reply mode.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.mode.(ReplyDocument); ok {
		m.Query = q
		c.mode = m
	}
}

// FilteredDocuments returns the fetched documents whose title contains the
// query, ignoring case. The fetched list itself is never modified.
func (c *Controller) FilteredDocuments() []client.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	q := ""
	if m, ok := c.mode.(ReplyDocument); ok {
		q = strings.ToLower(m.Query)
	}
	out := make([]client.Document, 0, len(c.documents))
	for _, d := range c.documents {
		if strings.Contains(strings.ToLower(d.Title), q) {
			out = append(out, d)
		}
	}
	return out
}

// Projects returns a copy of the fetched project list
func (c *Controller) Projects() []client.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]client.Project(nil), c.projects...)
}

// ProjectsLoaded reports whether the project listing was fetched in this
// lifetime. An empty Projects with ProjectsLoaded false means the fetch failed.
func (c *Controller) ProjectsLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectsLoaded
}

// EditProject applies fn to the new-project form
func (c *Controller) EditProject(fn func(*ProjectForm)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	m, ok := c.mode.(NewProject)
	if !ok {
		return ErrWrongMode
	}
	fn(&m.Form)
	c.mode = m
	return nil
}

// EditDocument applies fn to the upload form. The project and the file list
// are owned by SelectProject and PickFiles and are restored after fn.
func (c *Controller) EditDocument(fn func(*DocumentForm)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	m, ok := c.mode.(UploadDocument)
	if !ok {
		return ErrWrongMode
	}
	form := m.Form
	form.Files = cloneFiles(m.Form.Files)
	fn(&form)
	form.ProjectID, form.ProjectName = m.Form.ProjectID, m.Form.ProjectName
	form.Files = m.Form.Files
	m.Form = form
	c.mode = m
	return nil
}

// EditReply applies fn to the reply form. The document and the file list
// are owned by SelectDocument and PickFiles and are restored after fn.
func (c *Controller) EditReply(fn func(*ReplyForm)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	m, ok := c.mode.(ReplyDocument)
	if !ok {
		return ErrWrongMode
	}
	form := m.Form
	form.Files = cloneFiles(m.Form.Files)
	fn(&form)
	form.DocumentID, form.DocumentTitle = m.Form.DocumentID, m.Form.DocumentTitle
	form.Files = m.Form.Files
	m.Form = form
	c.mode = m
	return nil
}

// PickFiles runs the picker and appends its result to the target form's
// files. A picker failure is reported through the notifier and leaves the
// current selection untouched.
func (c *Controller) PickFiles(ctx context.Context, target Kind, picker FilePicker) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.mode.Kind() != target || (target != KindUploadDocument && target != KindReplyDocument) {
		c.mu.Unlock()
		return ErrWrongMode
	}
	if m, ok := c.mode.(ReplyDocument); ok && m.Form.DocumentID == "" {
		c.mu.Unlock()
		return ErrNoDocument
	}
	gen := c.gen
	c.mu.Unlock()

	files, err := picker.Pick(ctx)
	if err != nil {
		c.logger.Warn("selecting files failed", "error", err)
		c.notifier.Notify(Notification{Level: LevelError, Message: MsgPickFailed, Err: err})
		return nil
	}
	if len(files) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.mode.Kind() != target {
		return nil
	}
	switch m := c.mode.(type) {
	case UploadDocument:
		m.Form.Files = append(cloneFiles(m.Form.Files), files...)
		c.mode = m
	case ReplyDocument:
		m.Form.Files = append(cloneFiles(m.Form.Files), files...)
		c.mode = m
	}
	return nil
}

// RemoveFile drops the file at index from the target form
func (c *Controller) RemoveFile(target Kind, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return ErrBusy
	}
	if c.mode.Kind() != target {
		return ErrWrongMode
	}

	switch m := c.mode.(type) {
	case UploadDocument:
		files, err := removeAt(m.Form.Files, index)
		if err != nil {
			return err
		}
		m.Form.Files = files
		c.mode = m
	case ReplyDocument:
		files, err := removeAt(m.Form.Files, index)
		if err != nil {
			return err
		}
		m.Form.Files = files
		c.mode = m
	default:
		return ErrWrongMode
	}
	return nil
}

func removeAt(files []client.File, index int) ([]client.File, error) {
	if index < 0 || index >= len(files) {
		return nil, fmt.Errorf("file index %d out of range", index)
	}
	out := make([]client.File, 0, len(files)-1)
	out = append(out, files[:index]...)
	return append(out, files[index+1:]...), nil
}

// CanSubmit reports whether the active mode's submit action is enabled
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading {
		return false
	}
	switch m := c.mode.(type) {
	case NewProject:
		return m.Form.Validate() == nil
	case UploadDocument:
		return m.Form.Validate() == nil
	case ReplyDocument:
		return m.Form.Validate() == nil
	default:
		return false
	}
}

// SubmitNewProject creates the project described by the new-project form
func (c *Controller) SubmitNewProject(ctx context.Context) (*client.Project, error) {
	var input client.ProjectInput
	return runSubmit(ctx, c, submission[*client.Project]{
		kind: KindNewProject,
		prepare: func(m Mode) error {
			form := m.(NewProject).Form
			if err := form.Validate(); err != nil {
				return err
			}
			input = form.input()
			return nil
		},
		send: func(ctx context.Context) (*client.Project, error) {
			return c.api.CreateProject(ctx, input)
		},
		okMsg:   MsgProjectCreated,
		failMsg: MsgProjectFailed,
	})
}

// SubmitDocumentUpload uploads the document described by the upload form
func (c *Controller) SubmitDocumentUpload(ctx context.Context) (*client.Document, error) {
	var input client.DocumentInput
	return runSubmit(ctx, c, submission[*client.Document]{
		kind: KindUploadDocument,
		prepare: func(m Mode) error {
			form := m.(UploadDocument).Form
			if err := form.Validate(); err != nil {
				return err
			}
			input = form.input()
			return nil
		},
		send: func(ctx context.Context) (*client.Document, error) {
			return c.api.UploadDocument(ctx, input)
		},
		okMsg:   MsgDocumentUploaded,
		failMsg: MsgDocumentFailed,
	})
}

// SubmitReply posts the reply described by the reply form
func (c *Controller) SubmitReply(ctx context.Context) (*client.Reply, error) {
	var (
		documentID string
		input      client.ReplyInput
	)
	return runSubmit(ctx, c, submission[*client.Reply]{
		kind: KindReplyDocument,
		prepare: func(m Mode) error {
			form := m.(ReplyDocument).Form
			if err := form.Validate(); err != nil {
				return err
			}
			documentID = form.DocumentID
			input = form.input()
			return nil
		},
		send: func(ctx context.Context) (*client.Reply, error) {
			return c.api.ReplyToDocument(ctx, documentID, input)
		},
		okMsg:   MsgReplyAdded,
		failMsg: MsgReplyFailed,
	})
}

type submission[T any] struct {
	kind Kind
	// prepare runs under the lock with the active mode and captures the request
	prepare func(Mode) error
	send    func(ctx context.Context) (T, error)
	okMsg   string
	failMsg string
}

// runSubmit holds the loading flag across the request. The outcome is
// notified after the response and before the reset.
func runSubmit[T any](ctx context.Context, c *Controller, s submission[T]) (T, error) {
	var zero T

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return zero, ErrBusy
	}
	if c.mode.Kind() != s.kind {
		c.mu.Unlock()
		return zero, ErrWrongMode
	}
	if err := s.prepare(c.mode); err != nil {
		c.mu.Unlock()
		return zero, err
	}
	c.loading = true
	gen := c.gen
	c.mu.Unlock()

	defer c.release(gen)

	result, err := s.send(ctx)
	if err != nil {
		c.logger.Warn("submission failed", "mode", s.kind, "error", err)
		c.notifier.Notify(Notification{Level: LevelError, Message: s.failMsg, Err: err})
		return zero, fmt.Errorf("%s: %w", strings.ToLower(s.failMsg), err)
	}

	c.logger.Info("submission succeeded", "mode", s.kind)
	c.notifier.Notify(Notification{Level: LevelSuccess, Message: s.okMsg})

	if c.onSuccess != nil {
		// The resource exists at this point, so a refresh failure is not a submit failure
		if err := c.onSuccess(ctx); err != nil {
			c.logger.Warn("refresh after submission failed", "mode", s.kind, "error", err)
		}
	}

	c.mu.Lock()
	if c.gen == gen {
		c.resetLocked()
	}
	c.mu.Unlock()
	return result, nil
}

// release clears the loading flag unless the modal was reset meanwhile
func (c *Controller) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen == gen {
		c.loading = false
	}
}
