// ABOUTME: Tests for the open command
// ABOUTME: Verifies URL validation exit codes without launching a browser

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestOpen_InvalidURL(t *testing.T) {
	var buf bytes.Buffer
	if exitCode := runOpen(&buf, "not a url"); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Invalid file URL") {
		t.Errorf("expected invalid URL alert, got %q", buf.String())
	}
}
