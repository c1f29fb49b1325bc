// Command spotify-history-reconciler reads a Spotify extended streaming
// history export and reconciles its plays into cross-platform track
// aggregates.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
