// ABOUTME: Submit preconditions for each workflow form
// ABOUTME: Failures are ozzo validation.Errors keyed by the API field name

package workflow

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the new-project preconditions
func (f ProjectForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required.Error("project name is required")),
	)
}

// Validate checks the upload preconditions
func (f DocumentForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Title, validation.Required.Error("title is required")),
		validation.Field(&f.ProjectID, validation.Required.Error("select a project")),
		validation.Field(&f.Files, validation.Required.Error("attach at least one file")),
	)
}

// Validate checks the reply preconditions
func (f ReplyForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.DocumentID, validation.Required.Error("select a document")),
		validation.Field(&f.Title, validation.Required.Error("title is required")),
		validation.Field(&f.Files, validation.Required.Error("attach at least one file")),
	)
}
