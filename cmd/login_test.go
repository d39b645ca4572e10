// ABOUTME: Tests for the login, logout and whoami commands
// ABOUTME: Verifies session persistence, prompts and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/session"
)

func stubTerminal(t *testing.T, terminal bool, password string) {
	t.Helper()
	origRead, origIs := readPassword, isTerminal
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		readPassword, isTerminal = origRead, origIs
		loginUsername = ""
		loginPasswordStdin = false
	})
}

func authServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/token":
			r.ParseForm()
			if r.PostForm.Get("username") != "ada@example.com" || r.PostForm.Get("password") != "pw" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"Incorrect username or password"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1", "token_type": "bearer"})
		case "/api/auth/me":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"id":"u1","email":"ada@example.com","full_name":"Ada Obi"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestLogin_PasswordStdin(t *testing.T) {
	server := authServer(t)
	defer server.Close()
	dir := setupCLI(t, server.URL)
	stubTerminal(t, false, "")
	loginUsername = "ada@example.com"
	loginPasswordStdin = true

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), strings.NewReader("pw\n"), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Signed in as Ada Obi") {
		t.Errorf("expected greeting, got %q", buf.String())
	}

	s, err := session.NewStore(dir).Load()
	if err != nil {
		t.Fatalf("expected saved session: %v", err)
	}
	if s.Token != "tok-1" || s.UserName != "ada@example.com" {
		t.Errorf("unexpected session %+v", s)
	}
}

func TestLogin_PromptsForEmailAndUsesTerminal(t *testing.T) {
	server := authServer(t)
	defer server.Close()
	setupCLI(t, server.URL)
	stubTerminal(t, true, "pw")

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), strings.NewReader("ada@example.com\n"), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Email: ") || !strings.Contains(buf.String(), "Password: ") {
		t.Errorf("expected prompts, got %q", buf.String())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	server := authServer(t)
	defer server.Close()
	dir := setupCLI(t, server.URL)
	stubTerminal(t, false, "")
	loginUsername = "ada@example.com"

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), strings.NewReader("wrong\n"), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Incorrect username or password") {
		t.Errorf("expected backend detail, got %q", buf.String())
	}
	if _, err := session.NewStore(dir).Load(); !errors.Is(err, session.ErrNotFound) {
		t.Error("expected no session after failed login")
	}
}

func TestLogin_MissingPassword(t *testing.T) {
	setupCLI(t, "http://localhost:99999")
	stubTerminal(t, false, "")
	loginUsername = "ada@example.com"

	var buf bytes.Buffer
	if exitCode := runLogin(context.Background(), strings.NewReader(""), &buf); exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
}

func TestLogout(t *testing.T) {
	dir := setupCLI(t, "")
	signIn(t, dir)

	var buf bytes.Buffer
	if exitCode := runLogout(&buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if _, err := session.NewStore(dir).Load(); !errors.Is(err, session.ErrNotFound) {
		t.Error("expected session to be cleared")
	}

	// signing out twice is fine
	if exitCode := runLogout(&buf); exitCode != 0 {
		t.Errorf("expected exit code 0 on second logout, got %d", exitCode)
	}
}

func TestWhoami_NotSignedIn(t *testing.T) {
	setupCLI(t, "http://localhost:99999")

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "not signed in") {
		t.Errorf("expected not signed in message, got %q", buf.String())
	}
}

func TestWhoami_JSON(t *testing.T) {
	server := authServer(t)
	defer server.Close()
	dir := setupCLI(t, server.URL)
	if err := session.NewStore(dir).Save(&session.Session{Token: "tok-1"}); err != nil {
		t.Fatal(err)
	}
	jsonOutput = true

	var buf bytes.Buffer
	if exitCode := runWhoami(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["email"] != "ada@example.com" {
		t.Errorf("expected email in JSON, got %v", parsed["email"])
	}
}

func TestWhoami_RejectedToken(t *testing.T) {
	server := authServer(t)
	defer server.Close()
	dir := setupCLI(t, server.URL)
	signIn(t, dir) // token "tok" is unknown to the server

	var buf bytes.Buffer
	if exitCode := runWhoami(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "imo-dms login") {
		t.Errorf("expected login hint, got %q", buf.String())
	}
}
