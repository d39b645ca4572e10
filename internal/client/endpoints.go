// ABOUTME: Endpoint methods for auth, projects, documents and replies
// ABOUTME: One method per remote operation the client consumes

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SignIn exchanges credentials for a bearer token (OAuth2 password grant)
func (c *Client) SignIn(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)

	var tok TokenResponse
	err := c.do(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/api/auth/token",
		auth:        authNone,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &tok)
	if err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("invalid response from backend: no access token")
	}
	return &tok, nil
}

// Me calls GET /api/auth/me
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, apiRequest{method: http.MethodGet, path: "/api/auth/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListProjects calls GET /api/projects/
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, apiRequest{method: http.MethodGet, path: "/api/projects/", auth: authOptional}, &projects)
	return projects, err
}

// RecentProjects calls GET /api/projects/recent?limit=N
func (c *Client) RecentProjects(ctx context.Context, limit int) ([]Project, error) {
	var projects []Project
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/projects/recent",
		query:  limitQuery(limit),
	}, &projects)
	return projects, err
}

// CreateProject calls POST /api/projects/ with a form-encoded body
func (c *Client) CreateProject(ctx context.Context, input ProjectInput) (*Project, error) {
	form := url.Values{}
	form.Set("project_name", input.ProjectName)
	form.Set("description", input.Description)

	var project Project
	err := c.do(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/api/projects/",
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &project)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectDocuments calls GET /api/projects/{id}/documents, which needs no auth
func (c *Client) ProjectDocuments(ctx context.Context, projectID string) ([]Document, error) {
	if projectID == "" {
		return nil, fmt.Errorf("project id is required")
	}
	var docs []Document
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/projects/" + url.PathEscape(projectID) + "/documents",
		auth:   authNone,
	}, &docs)
	return docs, err
}

// ListDocuments calls GET /api/documents/
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	var docs []Document
	err := c.do(ctx, apiRequest{method: http.MethodGet, path: "/api/documents/"}, &docs)
	return docs, err
}

// RecentDocuments calls GET /api/documents/recent?limit=N
func (c *Client) RecentDocuments(ctx context.Context, limit int) ([]Document, error) {
	var docs []Document
	err := c.do(ctx, apiRequest{
		method: http.MethodGet,
		path:   "/api/documents/recent",
		query:  limitQuery(limit),
	}, &docs)
	return docs, err
}

// UploadDocument calls POST /api/documents/ with a multipart body
func (c *Client) UploadDocument(ctx context.Context, input DocumentInput) (*Document, error) {
	if err := checkFiles(input.Files); err != nil {
		return nil, err
	}
	body, contentType := multipartBody([]formField{
		{"title", input.Title},
		{"project_id", input.ProjectID},
		{"reference_number", input.ReferenceNumber},
		{"document_type", input.DocumentType},
		{"description", input.Description},
	}, input.Files)

	var doc Document
	err := c.do(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/api/documents/",
		body:        body,
		contentType: contentType,
	}, &doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument calls DELETE /api/documents/{id}
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("document id is required")
	}
	return c.do(ctx, apiRequest{
		method: http.MethodDelete,
		path:   "/api/documents/" + url.PathEscape(documentID),
	}, nil)
}

// ReplyToDocument calls POST /api/documents/{id}/reply with a multipart body
func (c *Client) ReplyToDocument(ctx context.Context, documentID string, input ReplyInput) (*Reply, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id is required")
	}
	if err := checkFiles(input.Files); err != nil {
		return nil, err
	}
	body, contentType := multipartBody([]formField{{"title", input.Title}}, input.Files)

	var reply Reply
	err := c.do(ctx, apiRequest{
		method:      http.MethodPost,
		path:        "/api/documents/" + url.PathEscape(documentID) + "/reply",
		body:        body,
		contentType: contentType,
	}, &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
