// ABOUTME: Entry point for the imo-dms client
// ABOUTME: Terminal UI and scriptable CLI for the IMO Works document-management API

package main

import (
	"fmt"
	"os"

	"github.com/Ah-ugo/imo-works-dms-mobile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
