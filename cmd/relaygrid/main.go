package main

import (
	"os"

	cmd "github.com/relaygrid/relaygrid/cmd/relaygrid/commands"
)

func main() {
	rootCmd := cmd.RootCmd

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
