// ABOUTME: Tests for the creation workflow controller
// ABOUTME: Covers transitions, pickers, filtering, validation, the loading guard and resets

package workflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
)

type fakeAPI struct {
	projects    []client.Project
	projectsErr error
	documents   []client.Document
	docsErr     error
	submitErr   error
	// gate, when set, blocks submissions until closed
	gate chan struct{}

	listProjectsCalls  atomic.Int32
	listDocumentsCalls atomic.Int32
	submitCalls        atomic.Int32

	mu           sync.Mutex
	lastProject  client.ProjectInput
	lastDocument client.DocumentInput
	lastReplyID  string
	lastReply    client.ReplyInput
}

func (f *fakeAPI) ListProjects(ctx context.Context) ([]client.Project, error) {
	f.listProjectsCalls.Add(1)
	return f.projects, f.projectsErr
}

func (f *fakeAPI) ListDocuments(ctx context.Context) ([]client.Document, error) {
	f.listDocumentsCalls.Add(1)
	return f.documents, f.docsErr
}

func (f *fakeAPI) wait() {
	f.submitCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAPI) CreateProject(ctx context.Context, in client.ProjectInput) (*client.Project, error) {
	f.wait()
	f.mu.Lock()
	f.lastProject = in
	f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &client.Project{ID: "p-new", ProjectName: in.ProjectName}, nil
}

func (f *fakeAPI) UploadDocument(ctx context.Context, in client.DocumentInput) (*client.Document, error) {
	f.wait()
	f.mu.Lock()
	f.lastDocument = in
	f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &client.Document{ID: "d-new", Title: in.Title, ProjectID: in.ProjectID}, nil
}

func (f *fakeAPI) ReplyToDocument(ctx context.Context, id string, in client.ReplyInput) (*client.Reply, error) {
	f.wait()
	f.mu.Lock()
	f.lastReplyID = id
	f.lastReply = in
	f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &client.Reply{ID: "r-new", Title: in.Title, DocumentID: id}, nil
}

type recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

func pickerOf(files ...client.File) FilePicker {
	return FilePickerFunc(func(context.Context) ([]client.File, error) {
		return files, nil
	})
}

var pdf = client.File{Path: "/tmp/a.pdf", Name: "a.pdf", MIMEType: "application/pdf"}

func TestChooseAndBack(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	assert.Equal(t, KindSelect, c.Mode().Kind())

	require.NoError(t, c.Choose(KindNewProject))
	assert.Equal(t, KindNewProject, c.Mode().Kind())

	// choosing again outside select is rejected
	assert.ErrorIs(t, c.Choose(KindUploadDocument), ErrWrongMode)

	require.NoError(t, c.EditProject(func(f *ProjectForm) { f.Name = "Roads" }))
	require.NoError(t, c.Back())
	assert.Equal(t, KindSelect, c.Mode().Kind())

	// the discarded form does not leak into the next visit
	require.NoError(t, c.Choose(KindNewProject))
	assert.Equal(t, ProjectForm{}, c.ProjectForm())
}

func TestChoose_UnknownKind(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	assert.Error(t, c.Choose(Kind(42)))
	assert.Equal(t, KindSelect, c.Mode().Kind())
}

func TestEditRejectedInOtherModes(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	require.NoError(t, c.Choose(KindUploadDocument))

	assert.ErrorIs(t, c.EditProject(func(f *ProjectForm) {}), ErrWrongMode)
	assert.ErrorIs(t, c.EditReply(func(f *ReplyForm) {}), ErrWrongMode)
	assert.ErrorIs(t, c.SelectDocument(client.Document{ID: "d1"}), ErrWrongMode)
	assert.Equal(t, ReplyForm{}, c.ReplyForm())
}

func TestEditDocument_CannotChangeOwnedFields(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	require.NoError(t, c.Choose(KindUploadDocument))
	require.NoError(t, c.SelectProject(client.Project{ID: "p1", ProjectName: "Roads"}))
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(pdf)))

	require.NoError(t, c.EditDocument(func(f *DocumentForm) {
		f.Title = "Invoice Q1"
		f.ProjectID = "hijack"
		f.Files = nil
	}))

	form := c.DocumentForm()
	assert.Equal(t, "Invoice Q1", form.Title)
	assert.Equal(t, "p1", form.ProjectID)
	assert.Len(t, form.Files, 1)
}

func TestSelectProjectAfterPicker(t *testing.T) {
	api := &fakeAPI{projects: []client.Project{{ID: "p1", ProjectName: "Roads"}, {ID: "p2", ProjectName: "Bridges"}}}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindUploadDocument))

	require.NoError(t, c.OpenProjectPicker(context.Background()))
	assert.True(t, c.ProjectPickerOpen())
	require.Len(t, c.Projects(), 2)

	require.NoError(t, c.SelectProject(c.Projects()[1]))
	form := c.DocumentForm()
	assert.Equal(t, "p2", form.ProjectID)
	assert.Equal(t, "Bridges", form.ProjectName)
	assert.False(t, c.ProjectPickerOpen())
}

func TestOpenProjectPicker_FetchesOncePerLifetime(t *testing.T) {
	api := &fakeAPI{projects: []client.Project{{ID: "p1"}}}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindUploadDocument))

	require.NoError(t, c.OpenProjectPicker(context.Background()))
	c.CloseProjectPicker()
	require.NoError(t, c.OpenProjectPicker(context.Background()))
	assert.Equal(t, int32(1), api.listProjectsCalls.Load())

	// Back keeps the modal open, so the list is still cached
	require.NoError(t, c.Back())
	require.NoError(t, c.Choose(KindUploadDocument))
	require.NoError(t, c.OpenProjectPicker(context.Background()))
	assert.Equal(t, int32(1), api.listProjectsCalls.Load())

	// Dismiss ends the lifetime
	c.Dismiss()
	require.NoError(t, c.Choose(KindUploadDocument))
	assert.Empty(t, c.Projects())
	require.NoError(t, c.OpenProjectPicker(context.Background()))
	assert.Equal(t, int32(2), api.listProjectsCalls.Load())
}

func TestOpenProjectPicker_FetchFailureIsNonFatal(t *testing.T) {
	api := &fakeAPI{projectsErr: errors.New("boom")}
	rec := &recorder{}
	c := New(api, rec)
	require.NoError(t, c.Choose(KindUploadDocument))

	require.NoError(t, c.OpenProjectPicker(context.Background()))
	assert.True(t, c.ProjectPickerOpen())
	assert.Empty(t, c.Projects())
	assert.False(t, c.ProjectsLoaded())

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Equal(t, MsgProjectsFailed, notes[0].Message)

	// a failed fetch is retried on the next open
	api.projectsErr = nil
	api.projects = []client.Project{{ID: "p1"}}
	require.NoError(t, c.OpenProjectPicker(context.Background()))
	assert.Len(t, c.Projects(), 1)
	assert.True(t, c.ProjectsLoaded())
}

func TestOpenDocumentPicker_FetchFailure(t *testing.T) {
	rec := &recorder{}
	c := New(&fakeAPI{docsErr: errors.New("boom")}, rec)
	require.NoError(t, c.Choose(KindReplyDocument))

	require.NoError(t, c.OpenDocumentPicker(context.Background()))
	assert.True(t, c.DocumentPickerOpen())
	assert.Empty(t, c.FilteredDocuments())
	require.Len(t, rec.all(), 1)
	assert.Equal(t, MsgDocumentsFailed, rec.all()[0].Message)
}

func TestPickersRequireTheirMode(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	assert.ErrorIs(t, c.OpenProjectPicker(context.Background()), ErrWrongMode)
	assert.ErrorIs(t, c.OpenDocumentPicker(context.Background()), ErrWrongMode)

	require.NoError(t, c.Choose(KindReplyDocument))
	assert.ErrorIs(t, c.OpenProjectPicker(context.Background()), ErrWrongMode)
}

func TestFilteredDocuments(t *testing.T) {
	docs := []client.Document{
		{ID: "d1", Title: "Contract"},
		{ID: "d2", Title: "Site photos"},
		{ID: "d3", Title: "Subcontractor list"},
	}
	api := &fakeAPI{documents: docs}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindReplyDocument))
	require.NoError(t, c.OpenDocumentPicker(context.Background()))

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"d1", "d2", "d3"}},
		{"CONTRACT", []string{"d1", "d3"}},
		{"photo", []string{"d2"}},
		{"zzz", nil},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			c.SetQuery(tc.query)
			var got []string
			for _, d := range c.FilteredDocuments() {
				got = append(got, d.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}

	// the fetched list is untouched
	assert.Equal(t, []client.Document{
		{ID: "d1", Title: "Contract"},
		{ID: "d2", Title: "Site photos"},
		{ID: "d3", Title: "Subcontractor list"},
	}, api.documents)
	c.SetQuery("")
	assert.Len(t, c.FilteredDocuments(), 3)
}

func TestReplyFlow_SearchSelectsContract(t *testing.T) {
	api := &fakeAPI{documents: []client.Document{{ID: "d1", Title: "Contract"}}}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindReplyDocument))
	require.NoError(t, c.OpenDocumentPicker(context.Background()))

	c.SetQuery("con")
	filtered := c.FilteredDocuments()
	require.Len(t, filtered, 1)
	assert.Equal(t, "d1", filtered[0].ID)

	require.NoError(t, c.SelectDocument(filtered[0]))
	assert.Equal(t, "", c.Query())
	assert.False(t, c.DocumentPickerOpen())
	assert.Equal(t, "Contract", c.ReplyForm().DocumentTitle)
}

func TestPickFiles(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	require.NoError(t, c.Choose(KindUploadDocument))

	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(pdf)))
	second := client.File{Path: "/tmp/b.png", Name: "b.png"}
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(second)))
	assert.Equal(t, []client.File{pdf, second}, c.DocumentForm().Files)

	// canceled pick leaves the selection alone
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf()))
	assert.Len(t, c.DocumentForm().Files, 2)

	require.NoError(t, c.RemoveFile(KindUploadDocument, 0))
	assert.Equal(t, []client.File{second}, c.DocumentForm().Files)
	assert.Error(t, c.RemoveFile(KindUploadDocument, 5))
	assert.ErrorIs(t, c.RemoveFile(KindReplyDocument, 0), ErrWrongMode)
}

func TestPickFiles_FailureKeepsSelection(t *testing.T) {
	rec := &recorder{}
	c := New(&fakeAPI{}, rec)
	require.NoError(t, c.Choose(KindUploadDocument))
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(pdf)))

	failing := FilePickerFunc(func(context.Context) ([]client.File, error) {
		return nil, errors.New("permission denied")
	})
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, failing))

	assert.Equal(t, []client.File{pdf}, c.DocumentForm().Files)
	require.Len(t, rec.all(), 1)
	assert.Equal(t, MsgPickFailed, rec.all()[0].Message)
}

func TestPickFiles_ReplyNeedsDocument(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	require.NoError(t, c.Choose(KindReplyDocument))

	assert.ErrorIs(t, c.PickFiles(context.Background(), KindReplyDocument, pickerOf(pdf)), ErrNoDocument)

	require.NoError(t, c.SelectDocument(client.Document{ID: "d1", Title: "Contract"}))
	require.NoError(t, c.PickFiles(context.Background(), KindReplyDocument, pickerOf(pdf)))
	assert.Len(t, c.ReplyForm().Files, 1)
}

func TestPickFiles_WrongTarget(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	require.NoError(t, c.Choose(KindNewProject))
	assert.ErrorIs(t, c.PickFiles(context.Background(), KindNewProject, pickerOf(pdf)), ErrWrongMode)
	assert.ErrorIs(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(pdf)), ErrWrongMode)
}

func TestSubmitDocumentUpload_RejectedLocally(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		project *client.Project
		files   []client.File
		field   string
	}{
		{"empty title", "", &client.Project{ID: "p1"}, []client.File{pdf}, "title"},
		{"no project", "Invoice Q1", nil, []client.File{pdf}, "project_id"},
		{"no files", "Invoice Q1", &client.Project{ID: "p1"}, nil, "files"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			rec := &recorder{}
			c := New(api, rec)
			require.NoError(t, c.Choose(KindUploadDocument))
			require.NoError(t, c.EditDocument(func(f *DocumentForm) { f.Title = tc.title }))
			if tc.project != nil {
				require.NoError(t, c.SelectProject(*tc.project))
			}
			if len(tc.files) > 0 {
				require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(tc.files...)))
			}

			assert.False(t, c.CanSubmit())
			_, err := c.SubmitDocumentUpload(context.Background())

			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tc.field)
			assert.Equal(t, int32(0), api.submitCalls.Load())
			assert.Empty(t, rec.all())
			assert.False(t, c.Loading())
		})
	}
}

func TestSubmitReply_RejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindReplyDocument))
	require.NoError(t, c.EditReply(func(f *ReplyForm) { f.Title = "Signed" }))

	_, err := c.SubmitReply(context.Background())
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "document_id")
	assert.Contains(t, verrs, "files")
	assert.Equal(t, int32(0), api.submitCalls.Load())
}

func TestSubmitNewProject(t *testing.T) {
	api := &fakeAPI{}
	rec := &recorder{}
	var refreshed atomic.Int32
	c := New(api, rec, WithOnSuccess(func(context.Context) error {
		refreshed.Add(1)
		return nil
	}))

	require.NoError(t, c.Choose(KindNewProject))
	_, err := c.SubmitNewProject(context.Background())
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, int32(0), api.submitCalls.Load())

	require.NoError(t, c.EditProject(func(f *ProjectForm) {
		f.Name = "Roads"
		f.Description = "Resurfacing"
	}))
	assert.True(t, c.CanSubmit())

	p, err := c.SubmitNewProject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "p-new", p.ID)
	assert.Equal(t, client.ProjectInput{ProjectName: "Roads", Description: "Resurfacing"}, api.lastProject)
	assert.Equal(t, int32(1), refreshed.Load())

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelSuccess, notes[0].Level)
	assert.Equal(t, MsgProjectCreated, notes[0].Message)
	assertReset(t, c)
}

func TestSubmitWrongMode(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	_, err := c.SubmitNewProject(context.Background())
	assert.ErrorIs(t, err, ErrWrongMode)
	_, err = c.SubmitDocumentUpload(context.Background())
	assert.ErrorIs(t, err, ErrWrongMode)
	_, err = c.SubmitReply(context.Background())
	assert.ErrorIs(t, err, ErrWrongMode)
}

func TestSubmitReply_Success(t *testing.T) {
	api := &fakeAPI{documents: []client.Document{{ID: "d1", Title: "Contract"}}}
	rec := &recorder{}
	c := New(api, rec)

	require.NoError(t, c.Choose(KindReplyDocument))
	require.NoError(t, c.OpenDocumentPicker(context.Background()))
	require.NoError(t, c.SelectDocument(c.FilteredDocuments()[0]))
	require.NoError(t, c.EditReply(func(f *ReplyForm) { f.Title = "Signed copy" }))
	require.NoError(t, c.PickFiles(context.Background(), KindReplyDocument, pickerOf(pdf)))

	r, err := c.SubmitReply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "d1", r.DocumentID)
	assert.Equal(t, "d1", api.lastReplyID)
	assert.Equal(t, "Signed copy", api.lastReply.Title)
	assert.Equal(t, MsgReplyAdded, rec.all()[0].Message)
	assertReset(t, c)
}

func TestSubmit_OnSuccessFailureIsLogged(t *testing.T) {
	c := New(&fakeAPI{}, nil, WithOnSuccess(func(context.Context) error {
		return errors.New("refresh failed")
	}))
	require.NoError(t, c.Choose(KindNewProject))
	require.NoError(t, c.EditProject(func(f *ProjectForm) { f.Name = "Roads" }))

	_, err := c.SubmitNewProject(context.Background())
	assert.NoError(t, err)
	assertReset(t, c)
}

func TestSubmit_LoadingGuard(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindNewProject))
	require.NoError(t, c.EditProject(func(f *ProjectForm) { f.Name = "Roads" }))

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitNewProject(context.Background())
		done <- err
	}()

	require.Eventually(t, c.Loading, time.Second, time.Millisecond)

	for i := 0; i < 5; i++ {
		_, err := c.SubmitNewProject(context.Background())
		assert.ErrorIs(t, err, ErrBusy)
	}
	assert.ErrorIs(t, c.Back(), ErrBusy)
	assert.ErrorIs(t, c.EditProject(func(f *ProjectForm) { f.Name = "x" }), ErrBusy)
	assert.False(t, c.CanSubmit())

	close(api.gate)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), api.submitCalls.Load())
	assert.False(t, c.Loading())
}

func TestSubmit_ConcurrentCallsSendOnce(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindNewProject))
	require.NoError(t, c.EditProject(func(f *ProjectForm) { f.Name = "Roads" }))

	var wg sync.WaitGroup
	var busy atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.SubmitNewProject(context.Background()); errors.Is(err, ErrBusy) {
				busy.Add(1)
			}
		}()
	}

	require.Eventually(t, func() bool { return busy.Load() == 9 }, time.Second, time.Millisecond)
	close(api.gate)
	wg.Wait()
	assert.Equal(t, int32(1), api.submitCalls.Load())
}

func TestSubmit_FailurePreservesForm(t *testing.T) {
	api := &fakeAPI{submitErr: &client.APIError{StatusCode: 500, Message: "Internal Server Error"}}
	rec := &recorder{}
	c := New(api, rec)

	require.NoError(t, c.Choose(KindUploadDocument))
	require.NoError(t, c.EditDocument(func(f *DocumentForm) { f.Title = "Invoice Q1" }))
	require.NoError(t, c.SelectProject(client.Project{ID: "p1", ProjectName: "Roads"}))
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(pdf)))

	_, err := c.SubmitDocumentUpload(context.Background())
	require.Error(t, err)
	var apiErr *client.APIError
	assert.ErrorAs(t, err, &apiErr)

	assert.Equal(t, KindUploadDocument, c.Mode().Kind())
	form := c.DocumentForm()
	assert.Equal(t, "Invoice Q1", form.Title)
	assert.Equal(t, "p1", form.ProjectID)
	assert.Equal(t, []client.File{pdf}, form.Files)
	assert.False(t, c.Loading())

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Equal(t, MsgDocumentFailed, notes[0].Message)

	// retry succeeds once the backend recovers
	api.submitErr = nil
	_, err = c.SubmitDocumentUpload(context.Background())
	require.NoError(t, err)
	assertReset(t, c)
}

func TestDismiss_ResetsEverything(t *testing.T) {
	api := &fakeAPI{documents: []client.Document{{ID: "d1", Title: "Contract"}}}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindReplyDocument))
	require.NoError(t, c.OpenDocumentPicker(context.Background()))
	c.SetQuery("con")

	c.Dismiss()
	assertReset(t, c)
	assert.Empty(t, c.FilteredDocuments())
	assert.False(t, c.DocumentPickerOpen())
}

func TestDismiss_DuringSubmitReleasesGuard(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	c := New(api, nil)
	require.NoError(t, c.Choose(KindNewProject))
	require.NoError(t, c.EditProject(func(f *ProjectForm) { f.Name = "Roads" }))

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.SubmitNewProject(context.Background())
	}()
	require.Eventually(t, c.Loading, time.Second, time.Millisecond)

	c.Dismiss()
	assert.False(t, c.Loading())
	require.NoError(t, c.Choose(KindNewProject))

	close(api.gate)
	<-done
	// the stale submission does not disturb the new modal lifetime
	assert.Equal(t, KindNewProject, c.Mode().Kind())
}

func TestModeCopiesDoNotAlias(t *testing.T) {
	c := New(&fakeAPI{}, nil)
	require.NoError(t, c.Choose(KindUploadDocument))
	require.NoError(t, c.PickFiles(context.Background(), KindUploadDocument, pickerOf(pdf)))

	m := c.Mode().(UploadDocument)
	m.Form.Files[0].Name = "mutated"
	assert.Equal(t, "a.pdf", c.DocumentForm().Files[0].Name)
}

func assertReset(t *testing.T, c *Controller) {
	t.Helper()
	assert.Equal(t, Select{}, c.Mode())
	assert.Equal(t, ProjectForm{}, c.ProjectForm())
	assert.Equal(t, DocumentForm{}, c.DocumentForm())
	assert.Equal(t, ReplyForm{}, c.ReplyForm())
	assert.False(t, c.ProjectPickerOpen())
	assert.False(t, c.DocumentPickerOpen())
	assert.Empty(t, c.Query())
	assert.False(t, c.Loading())
}
