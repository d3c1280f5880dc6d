package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// SearchCmd creates the search command. Only published articles are searched.
func SearchCmd() *cobra.Command {
	var (
		application string
		errorCode   string
		tags        []string
		page        int
		limit       int
	)
	category := categoryFlag()
	severity := severityFlag()

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search published articles",
		Long: `Full-text search over title, content and tags of published articles.
Results are ranked by relevance; without a query they are newest first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q string
			if len(args) == 1 {
				q = args[0]
			}

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/api/search", url.Values{
				"q":           {q},
				"application": {application},
				"errorCode":   {errorCode},
				"category":    {category.String()},
				"severity":    {severity.String()},
				"tags":        {strings.Join(tags, ",")},
				"page":        {intString(page)},
				"limit":       {intString(limit)},
			})
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			var results SearchResults
			if err := resp.Decode(&results); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(w, results)
			}
			if len(results.Results) == 0 {
				fmt.Fprintln(w, "No results found.")
				return nil
			}
			fmt.Fprintf(w, "Found %d results:\n\n", results.Total)
			for i, a := range results.Results {
				printArticleLine(w, i+1, a)
			}
			printPage(w, results.Count, results.Total, results.Page, results.Pages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&application, "application", "a", "", "Filter by application")
	cmd.Flags().StringVar(&errorCode, "error-code", "", "Filter by error code")
	cmd.Flags().Var(category, "category", "Filter by category")
	cmd.Flags().Var(severity, "severity", "Filter by severity")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Filter by tag (repeatable, any match)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (default 1)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (default 20, max 100)")

	return cmd
}

// SuggestCmd creates the suggest command.
func SuggestCmd() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "suggest <fragment>",
		Short: "Autocomplete a title, application, error code or tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/api/search/suggestions", url.Values{
				"q":     {args[0]},
				"field": {field},
			})
			if err != nil {
				return fmt.Errorf("suggest failed: %w", err)
			}
			return writeValues(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&field, "field", "title", "Field to complete: title, application, errorCode or tags")
	return cmd
}

// ValuesCmd creates a command printing one of the distinct value lists.
func ValuesCmd(use, short, path string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), path, nil)
			if err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}
			return writeValues(cmd, resp)
		},
	}
}

// TagsCmd lists every tag used by a published article.
func TagsCmd() *cobra.Command {
	return ValuesCmd("tags", "List tags of published articles", "/api/search/tags/list")
}

// ApplicationsCmd lists every application with a published article.
func ApplicationsCmd() *cobra.Command {
	return ValuesCmd("applications", "List applications of published articles", "/api/search/applications/list")
}

// ErrorCodesCmd lists every non-empty error code of published articles.
func ErrorCodesCmd() *cobra.Command {
	return ValuesCmd("errorcodes", "List error codes of published articles", "/api/search/errorcodes/list")
}

func writeValues(cmd *cobra.Command, resp *APIResponse) error {
	var values []string
	if err := resp.Decode(&values); err != nil {
		return err
	}
	if wantJSON(cmd) {
		return printJSON(cmd.OutOrStdout(), values)
	}
	printStrings(cmd.OutOrStdout(), values)
	return nil
}
