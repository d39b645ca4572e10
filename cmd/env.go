// ABOUTME: Shared command plumbing: config, logging, sessions and API clients
// ABOUTME: Maps errors to exit codes and renders JSON output

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/client"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/config"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/logger"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/session"
)

var errSessionExpired = errors.New("session expired")

// env is what every command needs after configuration is loaded
type env struct {
	cfg      *config.Config
	sessions *session.Store
	log      *slog.Logger
}

// newEnv loads configuration and sets up stderr logging for CLI commands
func newEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	return &env{
		cfg:      cfg,
		sessions: session.NewStore(cfg.ConfigDir),
		log:      slog.Default(),
	}, nil
}

// client returns an unauthenticated API client
func (e *env) client() *client.Client {
	return client.New(e.cfg.APIURL,
		client.WithTimeout(time.Duration(e.cfg.RequestTimeout)*time.Second),
		client.WithLogger(e.log),
	)
}

// authedClient returns a client carrying the saved session token
func (e *env) authedClient() (*client.Client, *session.Session, error) {
	s, err := e.sessions.Load()
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil, client.ErrNoSession
	}
	if err != nil {
		return nil, nil, err
	}
	if s.Expired(time.Now()) {
		return nil, nil, errSessionExpired
	}
	return e.client().WithToken(s.Token), s, nil
}

// reportError prints err and returns the matching exit code
func reportError(w io.Writer, err error) int {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		fmt.Fprintf(w, "Error: %v\n", verrs)
		return exitInvalid
	case errors.Is(err, client.ErrNoSession):
		fmt.Fprintln(w, "Error: not signed in. Run 'imo-dms login' first.")
	case errors.Is(err, errSessionExpired), errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintf(w, "Error: %v. Run 'imo-dms login' again.\n", err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return exitError
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) int {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintln(w, string(data))
	return exitOK
}
