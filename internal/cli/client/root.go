package client

import (
	"github.com/cloo-solutions/techwiki/internal/cli"
	"github.com/spf13/cobra"
)

// AddGlobalFlags registers the flags every client command reads.
func AddGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().Bool("output", false, "Output as JSON")
	root.PersistentFlags().String("api-url", "", "API base URL (overrides "+envAPIURL+" and config)")
	cli.AddHelpJSONFlag(root)
}

// AddCommands registers every client command on root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(
		ListCmd(),
		PopularCmd(),
		GetCmd(),
		VersionsCmd(),
		SearchCmd(),
		SuggestCmd(),
		TagsCmd(),
		ApplicationsCmd(),
		ErrorCodesCmd(),
		CreateCmd(),
		EditCmd(),
		HelpfulCmd(),
		DeleteCmd(),
		CategoriesCmd(),
		ConfigCmd(),
	)
}
