package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ConfigCmd creates the config command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage client settings",
		Long:  "Store the API URL and editor name used when no flag or environment variable is set.",
	}

	cmd.AddCommand(configSetCmd())
	cmd.AddCommand(configShowCmd())
	cmd.AddCommand(configClearCmd())

	return cmd
}

func configSetCmd() *cobra.Command {
	var apiURL, editor string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save settings to the user config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("url") && !cmd.Flags().Changed("editor") {
				return fmt.Errorf("nothing to set: pass --url and/or --editor")
			}

			config, err := LoadGlobalConfig()
			if err != nil {
				return err
			}
			if config == nil {
				config = &GlobalConfig{}
			}
			if cmd.Flags().Changed("url") {
				config.APIURL = apiURL
			}
			if cmd.Flags().Changed("editor") {
				config.Editor = editor
			}

			if err := SaveGlobalConfig(config); err != nil {
				return err
			}
			path, _ := GetConfigPath()
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "url", "", "API base URL")
	cmd.Flags().StringVar(&editor, "editor", "", "Name recorded as author and editor")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective settings and where they come from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flagURL, _ := cmd.Flags().GetString("api-url")
			apiURL, source, err := ResolveAPIURL(flagURL)
			if err != nil {
				return err
			}
			editor, err := ResolveEditor("")
			if err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"apiUrl":       apiURL,
					"apiUrlSource": string(source),
					"editor":       editor,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "API URL: %s (%s)\n", apiURL, source)
			if editor == "" {
				editor = "(not set)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Editor:  %s\n", editor)
			return nil
		},
	}
}

func configClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the user config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteGlobalConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Settings cleared")
			return nil
		},
	}
}
