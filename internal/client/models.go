// ABOUTME: Wire types exchanged with the document-management API
// ABOUTME: Projects, documents, file items, replies and the flexible timestamp/size codecs

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// TokenResponse is returned by POST /api/auth/token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// User is the profile returned by GET /api/auth/me
type User struct {
	ID       string `json:"id,omitempty"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"full_name,omitempty"`
}

// DisplayName picks the friendliest non-empty name
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return ""
	case u.FullName != "":
		return u.FullName
	case u.Username != "":
		return u.Username
	default:
		return u.Email
	}
}

// Project is a top-level grouping of documents
type Project struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Document is a titled record with attached files, belonging to a project
type Document struct {
	ID              string     `json:"_id"`
	Title           string     `json:"title"`
	ProjectID       string     `json:"project_id,omitempty"`
	ReferenceNumber string     `json:"reference_number,omitempty"`
	DocumentType    string     `json:"document_type,omitempty"`
	Description     string     `json:"description,omitempty"`
	FileItems       []FileItem `json:"file_items,omitempty"`
	CreatedAt       Timestamp  `json:"created_at"`
}

// Reply is a follow-up submission against a document
type Reply struct {
	ID         string     `json:"_id,omitempty"`
	Title      string     `json:"title"`
	DocumentID string     `json:"document_id,omitempty"`
	FileItems  []FileItem `json:"file_items,omitempty"`
	CreatedAt  Timestamp  `json:"created_at"`
}

// FileItem is a stored file attached to a document or reply
type FileItem struct {
	Name string   `json:"name"`
	URL  string   `json:"url"`
	Size FileSize `json:"size,omitempty"`
}

// Extension returns the upper-cased file extension without the dot
func (f FileItem) Extension() string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

// File is a local file selected for upload
type File struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
}

// ProjectInput is the body of a project creation
type ProjectInput struct {
	ProjectName string
	Description string
}

// DocumentInput is the body of a document upload
type DocumentInput struct {
	Title           string
	ProjectID       string
	ReferenceNumber string
	DocumentType    string
	Description     string
	Files           []File
}

// ReplyInput is the body of a reply to a document
type ReplyInput struct {
	Title string
	Files []File
}

// FileSize is a display size. The backend sends either a byte count or a
// preformatted string.
type FileSize string

// UnmarshalJSON accepts numbers and strings
func (s *FileSize) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FileSize(str)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("file size: %w", err)
	}
	if n < 0 {
		n = 0
	}
	*s = FileSize(humanize.Bytes(uint64(n)))
	return nil
}

// String returns the size or "Unknown size"
func (s FileSize) String() string {
	if s == "" {
		return "Unknown size"
	}
	return string(s)
}

// Timestamp parses the backend's created_at values, which may lack a zone
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// UnmarshalJSON accepts RFC 3339 and zone-less ISO-8601 strings; zone-less values are UTC
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
			t.Time = time.Time{}
			return nil
		}
		return fmt.Errorf("timestamp: %w", err)
	}
	if str == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, str); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", str)
}

// MarshalJSON writes RFC 3339, or null for the zero time
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Short renders MM/DD/YY, or N/A when unset
func (t Timestamp) Short() string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Time.Format("01/02/06")
}

// Long renders a date such as "Jan 2, 2006", or N/A when unset
func (t Timestamp) Long() string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Time.Format("Jan 2, 2006")
}
