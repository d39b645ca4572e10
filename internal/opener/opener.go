// ABOUTME: Opens remote file URLs in the system browser
// ABOUTME: Rejects anything that is not an absolute http(s) URL

package opener

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

var (
	// ErrInvalidURL is returned for empty or non-http(s) URLs
	ErrInvalidURL = errors.New("invalid file URL")
	// ErrOpenFailed wraps failures of the system browser
	ErrOpenFailed = errors.New("could not open the file")
)

// Alert texts shown to the user
const (
	MsgInvalidURL = "Invalid file URL"
	MsgOpenFailed = "Could not open the file. Please try again."
)

// openURL is swapped out in tests
var openURL = browser.OpenURL

// SetOutput sends the browser helper's stdout and stderr to w and returns
// a func that restores the previous writers
func SetOutput(w io.Writer) (restore func()) {
	stdout, stderr := browser.Stdout, browser.Stderr
	browser.Stdout, browser.Stderr = w, w
	return func() {
		browser.Stdout, browser.Stderr = stdout, stderr
	}
}

// Validate checks that raw is an absolute http or https URL
func Validate(raw string) error {
	if raw == "" {
		return ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidURL
	}
	return nil
}

// Open hands the URL to the system browser
func Open(raw string) error {
	if err := Validate(raw); err != nil {
		return err
	}
	if err := openURL(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrOpenFailed, err)
	}
	return nil
}

// Message maps an Open error to the alert shown to the user
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return MsgInvalidURL
	default:
		return MsgOpenFailed
	}
}
