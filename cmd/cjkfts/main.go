// Package main provides the entry point for the cjkfts CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/cjkfts/cmd/cjkfts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
