// ABOUTME: Launches the interactive terminal UI
// ABOUTME: Logs go to a file in the config directory while the UI owns the terminal

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/filepick"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/logger"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/opener"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/session"
	"github.com/Ah-ugo/imo-works-dms-mobile/internal/tui"
)

// runTUI starts the full-screen interface and blocks until it exits
func runTUI(ctx context.Context) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitInvalid
	}

	closer, err := logger.InitFile(cfg.ConfigDir, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	defer closer.Close()

	// browser helpers must not write over the alternate screen
	defer opener.SetOutput(io.Discard)()

	app := tui.New(tui.Options{
		Context:  ctx,
		Config:   cfg,
		Sessions: session.NewStore(cfg.ConfigDir),
		Recent:   filepick.NewRecent(cfg.ConfigDir),
		Logger:   slog.Default(),
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
