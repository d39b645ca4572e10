// ABOUTME: Open command for imo-dms CLI
// ABOUTME: Hands a file URL to the system browser

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ah-ugo/imo-works-dms-mobile/internal/opener"
)

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Open a file URL in the system browser",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runOpen(os.Stdout, args[0]); exitCode != exitOK {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// runOpen opens the URL and reports failures with the same alert as the file screens
func runOpen(w io.Writer, url string) int {
	if err := opener.Open(url); err != nil {
		fmt.Fprintf(w, "Error: %s\n", opener.Message(err))
		if errors.Is(err, opener.ErrInvalidURL) {
			return exitInvalid
		}
		return exitError
	}
	return exitOK
}
