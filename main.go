// Package main is the entry point for jtui.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/jtui/cmd"
	"github.com/danielolaszy/jtui/internal/logging"
)

// main executes the root command and exits non-zero when it fails.
func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
