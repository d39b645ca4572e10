// ABOUTME: Modes of the creation workflow and the form each mode owns
// ABOUTME: Mode is a closed set of variants so no field leaks across modes

package workflow

import (
	"fmt"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
)

// Kind identifies a Mode variant
type Kind int

const (
	KindSelect Kind = iota
	KindNewProject
	KindUploadDocument
	KindReplyDocument
)

func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindNewProject:
		return "new_project"
	case KindUploadDocument:
		return "upload_document"
	case KindReplyDocument:
		return "reply_document"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Mode is one of Select, NewProject, UploadDocument or ReplyDocument
type Mode interface {
	Kind() Kind
	isMode()
}

// Select is the initial mode where the user picks an action
type Select struct{}

// NewProject collects the fields of a project to create
type NewProject struct {
	Form ProjectForm
}

// UploadDocument collects a document and its files. PickerOpen is the
// inline project picker.
type UploadDocument struct {
	Form       DocumentForm
	PickerOpen bool
}

// ReplyDocument collects a reply to an existing document. PickerOpen is the
// inline document picker and Query filters it by title.
type ReplyDocument struct {
	Form       ReplyForm
	PickerOpen bool
	Query      string
}

func (Select) Kind() Kind         { return KindSelect }
func (NewProject) Kind() Kind     { return KindNewProject }
func (UploadDocument) Kind() Kind { return KindUploadDocument }
func (ReplyDocument) Kind() Kind  { return KindReplyDocument }

func (Select) isMode()         {}
func (NewProject) isMode()     {}
func (UploadDocument) isMode() {}
func (ReplyDocument) isMode()  {}

// ProjectForm holds the new-project fields
type ProjectForm struct {
	Name        string `json:"project_name"`
	Description string `json:"description"`
}

// DocumentForm holds the upload fields. ProjectName is display-only.
type DocumentForm struct {
	Title           string        `json:"title"`
	ProjectID       string        `json:"project_id"`
	ProjectName     string        `json:"-"`
	ReferenceNumber string        `json:"reference_number"`
	DocumentType    string        `json:"document_type"`
	Description     string        `json:"description"`
	Files           []client.File `json:"files"`
}

// ReplyForm holds the reply fields. DocumentTitle is display-only.
type ReplyForm struct {
	Title         string        `json:"title"`
	DocumentID    string        `json:"document_id"`
	DocumentTitle string        `json:"-"`
	Files         []client.File `json:"files"`
}

func (f ProjectForm) input() client.ProjectInput {
	return client.ProjectInput{ProjectName: f.Name, Description: f.Description}
}

func (f DocumentForm) input() client.DocumentInput {
	return client.DocumentInput{
		Title:           f.Title,
		ProjectID:       f.ProjectID,
		ReferenceNumber: f.ReferenceNumber,
		DocumentType:    f.DocumentType,
		Description:     f.Description,
		Files:           cloneFiles(f.Files),
	}
}

func (f ReplyForm) input() client.ReplyInput {
	return client.ReplyInput{Title: f.Title, Files: cloneFiles(f.Files)}
}

func newMode(k Kind) (Mode, error) {
	switch k {
	case KindSelect:
		return Select{}, nil
	case KindNewProject:
		return NewProject{}, nil
	case KindUploadDocument:
		return UploadDocument{}, nil
	case KindReplyDocument:
		return ReplyDocument{}, nil
	default:
		return nil, fmt.Errorf("unknown workflow mode %v", k)
	}
}

// cloneMode copies file slices so callers never share backing arrays with the controller
func cloneMode(m Mode) Mode {
	switch v := m.(type) {
	case UploadDocument:
		v.Form.Files = cloneFiles(v.Form.Files)
		return v
	case ReplyDocument:
		v.Form.Files = cloneFiles(v.Form.Files)
		return v
	default:
		return m
	}
}

func cloneFiles(files []client.File) []client.File {
	if files == nil {
		return nil
	}
	return append([]client.File(nil), files...)
}
