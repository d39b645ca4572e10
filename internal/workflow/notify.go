// ABOUTME: Outcome notifications emitted by the workflow controller
// ABOUTME: Defines the user-facing messages and the Notifier interface

package workflow

// Level is the severity of a notification
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "Error"
	}
	return "Success"
}

// Notification is a transient, dismissible message for the user
type Notification struct {
	Level   Level
	Message string
	// Err is the underlying failure for LevelError notifications
	Err error
}

// Notifier receives notifications. Implementations must be safe for
// concurrent use; the controller never holds its lock while notifying.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

const (
	MsgProjectCreated   = "Project created successfully"
	MsgProjectFailed    = "Error creating project"
	MsgDocumentUploaded = "Document uploaded successfully"
	MsgDocumentFailed   = "Error uploading document"
	MsgReplyAdded       = "Reply added successfully"
	MsgReplyFailed      = "Error sending reply"
	MsgProjectsFailed   = "Error fetching projects"
	MsgDocumentsFailed  = "Error fetching documents"
	MsgPickFailed       = "Error selecting files"
)
