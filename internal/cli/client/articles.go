package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ListCmd creates the list command.
func ListCmd() *cobra.Command {
	var (
		application string
		errorCode   string
		tags        []string
		text        string
		sort        string
		page        int
		limit       int
	)
	category := categoryFlag()
	severity := severityFlag()
	status := statusFlag()

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List articles",
		Long: `List articles with filters, sorting and pagination.

Sort by createdAt, updatedAt, title, views or helpful; prefix with "-" for
descending order (default: -createdAt).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/api/articles", url.Values{
				"application": {application},
				"errorCode":   {errorCode},
				"category":    {category.String()},
				"severity":    {severity.String()},
				"status":      {status.String()},
				"tags":        {strings.Join(tags, ",")},
				"q":           {text},
				"sort":        {sort},
				"page":        {intString(page)},
				"limit":       {intString(limit)},
			})
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			var list ArticleList
			if err := resp.Decode(&list); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(w, list)
			}
			if len(list.Articles) == 0 {
				fmt.Fprintln(w, "No articles found.")
				return nil
			}
			for i, a := range list.Articles {
				printArticleLine(w, i+1, a)
			}
			printPage(w, len(list.Articles), list.Pagination.Total, list.Pagination.Page, list.Pagination.Pages)
			return nil
		},
	}

	cmd.Flags().StringVarP(&application, "application", "a", "", "Filter by application")
	cmd.Flags().StringVar(&errorCode, "error-code", "", "Filter by error code")
	cmd.Flags().Var(category, "category", "Filter by category")
	cmd.Flags().Var(severity, "severity", "Filter by severity")
	cmd.Flags().Var(status, "status", "Filter by status")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Filter by tag (repeatable, any match)")
	cmd.Flags().StringVarP(&text, "query", "q", "", "Full-text filter")
	cmd.Flags().StringVar(&sort, "sort", "", "Sort field, e.g. -views")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (default 1)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Page size (default 10, max 100)")

	return cmd
}

// PopularCmd creates the popular command.
func PopularCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the most viewed published articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/api/articles/stats/popular", url.Values{"limit": {intString(limit)}})
			if err != nil {
				return fmt.Errorf("popular failed: %w", err)
			}

			var articles []Article
			if err := resp.Decode(&articles); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(w, articles)
			}
			for i, a := range articles {
				fmt.Fprintf(w, "%2d. %s [%s] views=%d helpful=%d\n", i+1, a.Title, a.Application, a.Views, a.Helpful)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of articles (default 5)")
	return cmd
}

// GetCmd creates the get command. Each fetch counts as a view.
func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <article_id>",
		Aliases: []string{"view", "show"},
		Short:   "Show an article",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), articlePath(args[0]), nil)
			if IsNotFound(err) {
				return fmt.Errorf("article %s does not exist: %w", args[0], err)
			}
			if err != nil {
				return fmt.Errorf("failed to get article: %w", err)
			}

			var article Article
			if err := resp.Decode(&article); err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), article)
			}
			printArticle(cmd.OutOrStdout(), article)
			return nil
		},
	}
}

// VersionsCmd creates the versions command.
func VersionsCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "versions <article_id>",
		Short: "Show the version history of an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), articlePath(args[0], "versions"), nil)
			if err != nil {
				return fmt.Errorf("failed to get versions: %w", err)
			}

			var log VersionLog
			if err := resp.Decode(&log); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if wantJSON(cmd) {
				return printJSON(w, log)
			}
			fmt.Fprintf(w, "%s\n", log.Title)
			if len(log.Versions) == 0 {
				fmt.Fprintln(w, "No saved versions.")
				return nil
			}
			for i, v := range log.Versions {
				fmt.Fprintf(w, "\nv%d  %s  by %s", i+1, v.EditedAt, v.EditedBy)
				if v.ChangeDescription != "" {
					fmt.Fprintf(w, "  (%s)", v.ChangeDescription)
				}
				fmt.Fprintln(w)
				if full {
					fmt.Fprintf(w, "%s\n", v.Content)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the content of each version")
	return cmd
}

// HelpfulCmd creates the helpful command.
func HelpfulCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "helpful <article_id>",
		Short: "Mark an article as helpful",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post(cmd.Context(), articlePath(args[0], "helpful"), nil)
			if err != nil {
				return fmt.Errorf("failed to mark helpful: %w", err)
			}

			var out struct {
				Helpful int64 `json:"helpful"`
			}
			if err := resp.Decode(&out); err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked helpful (%d total)\n", out.Helpful)
			return nil
		},
	}
}

// DeleteCmd creates the delete command.
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <article_id>",
		Aliases: []string{"rm"},
		Short:   "Delete an article and its history",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			if _, err := api.Delete(cmd.Context(), articlePath(args[0])); err != nil {
				return fmt.Errorf("failed to delete article: %w", err)
			}

			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), map[string]string{"id": args[0], "status": "deleted"})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func intString(v int) string {
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(v)
}
