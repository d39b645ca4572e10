// ABOUTME: Root command for the imo-dms CLI
// ABOUTME: Handles global flags, configuration and launching the TUI

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/config"
)

var (
	apiURL     string
	configDir  string
	jsonOutput bool
)

// Exit codes shared by every command
const (
	exitOK      = 0
	exitInvalid = 1 // validation or usage failure
	exitError   = 2 // API, transport or session failure
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "imo-dms",
	Short: "Terminal client for the IMO Works document-management system",
	Long: `imo-dms browses projects and documents, uploads files and replies to documents.

Run without a subcommand to open the interactive interface.

Exit codes:
  0 - Success
  1 - Invalid input
  2 - Error (connectivity, API failure, not signed in)

Environment Variables:
  IMO_DMS_API_URL             Backend API URL (default: ` + config.DefaultAPIURL + `)
  IMO_DMS_CONFIG_DIR          Directory for config.yaml, the session and logs
  IMO_DMS_REQUEST_TIMEOUT     Request timeout in seconds (default: 30)
  IMO_DMS_RECENT_LIMIT        Items in the home screen recent lists (default: 5)
  IMO_DMS_RECENT_FILES_LIMIT  Items fetched by the recent files screen (default: 500)
  LOG_LEVEL                   debug, info, warn or error (default: info)
  LOG_FORMAT                  text or json (default: text)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(func(ctx context.Context) int {
			return runTUI(ctx)
		})
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides IMO_DMS_API_URL)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config directory (overrides IMO_DMS_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the configuration and applies the global flags, which win over everything
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = config.NormalizeURL(apiURL)
	}
	return cfg, nil
}

// runWithSignals cancels the context on SIGINT/SIGTERM and exits with fn's code
func runWithSignals(fn func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := fn(ctx)
	cancel()
	if exitCode != exitOK {
		os.Exit(exitCode)
	}
}
