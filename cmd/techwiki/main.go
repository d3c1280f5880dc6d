package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/techwiki/internal/cli"
	"github.com/cloo-solutions/techwiki/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "techwiki",
		Short: "Techwiki CLI - search and edit the technical knowledge base",
		Long: `Techwiki CLI talks to a techwiki server over HTTP.

Environment variables:
  TECHWIKI_API_URL   API base URL (default: http://localhost:8080)
  TECHWIKI_EDITOR    Name recorded as author and editor`,
		Version:      version,
		SilenceUsage: true,
	}

	client.AddGlobalFlags(rootCmd)
	client.AddCommands(rootCmd)

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
