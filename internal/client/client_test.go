// ABOUTME: Tests for the document-management API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestSignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/token" {
			t.Errorf("expected POST /api/auth/token, got %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %s", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("sign in must not send an Authorization header")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "password" {
			t.Errorf("expected grant_type=password, got %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("username") != "ada@example.com" || r.PostForm.Get("password") != "s3cret&x" {
			t.Errorf("unexpected credentials %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok-123", TokenType: "bearer"})
	}))
	defer server.Close()

	c := New(server.URL).WithToken("stale")
	tok, err := c.SignIn(context.Background(), "ada@example.com", "s3cret&x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "tok-123" {
		t.Errorf("expected access token tok-123, got %s", tok.AccessToken)
	}
}

func TestSignIn_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer server.Close()

	_, err := New(server.URL).SignIn(context.Background(), "ada", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), "Incorrect username or password") {
		t.Errorf("expected detail in error, got %q", err.Error())
	}
}

func TestSignIn_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}))
	defer server.Close()

	if _, err := New(server.URL).SignIn(context.Background(), "ada", "pw"); err == nil {
		t.Error("expected error when access_token is missing")
	}
}

func TestMe_RequiresToken(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	_, err := New(server.URL).Me(context.Background())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("expected no request without a session")
	}
}

func TestMe_SendsBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/me" {
			t.Errorf("expected path /api/auth/me, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		json.NewEncoder(w).Encode(User{ID: "u1", Email: "ada@example.com", FullName: "Ada Obi"})
	}))
	defer server.Close()

	user, err := New(server.URL).WithToken("tok-123").Me(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.DisplayName() != "Ada Obi" {
		t.Errorf("expected display name Ada Obi, got %s", user.DisplayName())
	}
}

func TestWithToken_DoesNotMutateOriginal(t *testing.T) {
	base := New("http://example.com")
	authed := base.WithToken("tok")
	if base.HasToken() {
		t.Error("expected original client to stay unauthenticated")
	}
	if !authed.HasToken() {
		t.Error("expected copy to carry the token")
	}
}

func TestListProjects(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		wantHeader string
	}{
		{"anonymous", "", ""},
		{"authenticated", "tok", "Bearer tok"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/projects/" {
					t.Errorf("expected path /api/projects/, got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != tc.wantHeader {
					t.Errorf("expected Authorization %q, got %q", tc.wantHeader, got)
				}
				w.Write([]byte(`[{"id":"p1","project_name":"Roads","description":"Road works","created_at":"2024-03-05T10:20:30.123456"}]`))
			}))
			defer server.Close()

			c := New(server.URL)
			if tc.token != "" {
				c = c.WithToken(tc.token)
			}
			projects, err := c.ListProjects(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(projects) != 1 || projects[0].ProjectName != "Roads" {
				t.Fatalf("unexpected projects %+v", projects)
			}
			if projects[0].CreatedAt.Short() != "03/05/24" {
				t.Errorf("expected created date 03/05/24, got %s", projects[0].CreatedAt.Short())
			}
		})
	}
}

func TestRecentEndpoints_Limit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit=5, got %q", r.URL.RawQuery)
		}
		switch r.URL.Path {
		case "/api/projects/recent":
			w.Write([]byte(`[{"id":"p1","project_name":"Roads"}]`))
		case "/api/documents/recent":
			w.Write([]byte(`[{"_id":"d1","title":"Contract"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := New(server.URL).WithToken("tok")
	projects, err := c.RecentProjects(context.Background(), 5)
	if err != nil || len(projects) != 1 {
		t.Fatalf("recent projects: %v %+v", err, projects)
	}
	docs, err := c.RecentDocuments(context.Background(), 5)
	if err != nil || len(docs) != 1 || docs[0].ID != "d1" {
		t.Fatalf("recent documents: %v %+v", err, docs)
	}
}

func TestCreateProject_FormEncoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/projects/" {
			t.Errorf("expected POST /api/projects/, got %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Error("expected bearer token")
		}
		r.ParseForm()
		if r.PostForm.Get("project_name") != "Bridges" || r.PostForm.Get("description") != "Span repairs" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"p9","project_name":"Bridges","description":"Span repairs"}`))
	}))
	defer server.Close()

	p, err := New(server.URL).WithToken("tok").CreateProject(context.Background(), ProjectInput{
		ProjectName: "Bridges",
		Description: "Span repairs",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != "p9" {
		t.Errorf("expected id p9, got %s", p.ID)
	}
}

func TestProjectDocuments_NoAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/p1/documents" {
			t.Errorf("expected project documents path, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("project documents endpoint must not receive the token")
		}
		w.Write([]byte(`[{"_id":"d1","title":"Contract","file_items":[{"name":"a.pdf","url":"https://files/a.pdf","size":2048}]}]`))
	}))
	defer server.Close()

	docs, err := New(server.URL).WithToken("tok").ProjectDocuments(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 1 || len(docs[0].FileItems) != 1 {
		t.Fatalf("unexpected documents %+v", docs)
	}
	if docs[0].FileItems[0].Size.String() != "2.0 kB" {
		t.Errorf("expected humanized size, got %s", docs[0].FileItems[0].Size)
	}
}

func TestUploadDocument_Multipart(t *testing.T) {
	path := writeTempFile(t, "a.pdf", "%PDF-1.4 test")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/documents/" {
			t.Errorf("expected POST /api/documents/, got %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		want := map[string]string{
			"title":            "Invoice Q1",
			"project_id":       "p1",
			"reference_number": "REF-7",
			"document_type":    "invoice",
			"description":      "first quarter",
		}
		for k, v := range want {
			if got := r.FormValue(k); got != v {
				t.Errorf("field %s: expected %q, got %q", k, v, got)
			}
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(files))
		}
		if files[0].Filename != "a.pdf" {
			t.Errorf("expected filename a.pdf, got %s", files[0].Filename)
		}
		if ct := files[0].Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("expected part content type application/pdf, got %s", ct)
		}
		f, _ := files[0].Open()
		data, _ := io.ReadAll(f)
		if string(data) != "%PDF-1.4 test" {
			t.Errorf("unexpected file content %q", data)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"d1","title":"Invoice Q1","project_id":"p1"}`))
	}))
	defer server.Close()

	doc, err := New(server.URL).WithToken("tok").UploadDocument(context.Background(), DocumentInput{
		Title:           "Invoice Q1",
		ProjectID:       "p1",
		ReferenceNumber: "REF-7",
		DocumentType:    "invoice",
		Description:     "first quarter",
		Files:           []File{{Path: path, Name: "a.pdf", MIMEType: "application/pdf"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "d1" {
		t.Errorf("expected document id d1, got %s", doc.ID)
	}
}

func TestUploadDocument_MissingFileSkipsRequest(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	_, err := New(server.URL).WithToken("tok").UploadDocument(context.Background(), DocumentInput{
		Title: "x", ProjectID: "p1",
		Files: []File{{Path: filepath.Join(t.TempDir(), "missing.pdf")}},
	})
	if err == nil {
		t.Fatal("expected error for missing attachment")
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("expected no request when an attachment is unreadable")
	}
}

func TestReplyToDocument(t *testing.T) {
	p1 := writeTempFile(t, "one.txt", "one")
	p2 := writeTempFile(t, "two.txt", "two")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/documents/d1/reply" {
			t.Errorf("expected reply path, got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("title") != "Signed copy" {
			t.Errorf("unexpected title %q", r.FormValue("title"))
		}
		if n := len(r.MultipartForm.File["files"]); n != 2 {
			t.Errorf("expected 2 files, got %d", n)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"_id":"r1","title":"Signed copy","document_id":"d1"}`))
	}))
	defer server.Close()

	reply, err := New(server.URL).WithToken("tok").ReplyToDocument(context.Background(), "d1", ReplyInput{
		Title: "Signed copy",
		Files: []File{{Path: p1}, {Path: p2}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.DocumentID != "d1" {
		t.Errorf("expected reply for d1, got %s", reply.DocumentID)
	}
}

func TestDeleteDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/documents/d1" {
			t.Errorf("expected DELETE /api/documents/d1, got %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := New(server.URL).WithToken("tok").DeleteDocument(context.Background(), "d1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteDocument_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Document not found"}`))
	}))
	defer server.Close()

	err := New(server.URL).WithToken("tok").DeleteDocument(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", 400, `{"detail":"Project not found"}`, "Project not found"},
		{"validation list", 422, `{"detail":[{"msg":"field required"},{"msg":"value is not a valid uuid"}]}`, "field required; value is not a valid uuid"},
		{"message field", 400, `{"message":"bad input"}`, "bad input"},
		{"error field", 500, `{"error":"internal error"}`, "internal error"},
		{"plain text", 502, `upstream down`, "Bad Gateway"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := New(server.URL).WithToken("tok").ListDocuments(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, apiErr.StatusCode)
			}
			if apiErr.Message != tc.wantMsg {
				t.Errorf("expected message %q, got %q", tc.wantMsg, apiErr.Message)
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	c := New("http://localhost:99999").WithToken("tok")
	_, err := c.ListDocuments(context.Background())
	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := New(server.URL).ListProjects(ctx)
	if !errors.Is(err, ErrCanceled) {
		t.Errorf("expected ErrCanceled, got %v", err)
	}
}

func TestContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := New(server.URL).ListProjects(ctx)
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := New(server.URL).ListProjects(context.Background())
	if err == nil || !strings.Contains(err.Error(), "invalid response") {
		t.Errorf("expected invalid response error, got %v", err)
	}
}
