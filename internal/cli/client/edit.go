package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CreateCmd creates the create command.
func CreateCmd() *cobra.Command {
	var (
		draft       ArticleDraft
		contentFile string
	)
	category := categoryFlag()
	severity := severityFlag()
	status := statusFlag()

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add"},
		Short:   "Create an article",
		Long: `Create an article. Content comes from --content or --file ("-" reads stdin).
The author defaults to the configured editor.`,
		Example: `  techwiki create --title "RFC timeout" --application SAP --category error \
    --error-code RFC_ERROR --tag rfc --tag sap --file fix.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentFile != "" {
				content, err := readContent(contentFile)
				if err != nil {
					return err
				}
				draft.Content = content
			}
			author, err := ResolveEditor(draft.Author)
			if err != nil {
				return err
			}
			draft.Author = author
			draft.Category = category.String()
			draft.Severity = severity.String()
			draft.Status = status.String()
			if draft.Tags == nil {
				draft.Tags = []string{}
			}

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post(cmd.Context(), "/api/articles", draft)
			if err != nil {
				return fmt.Errorf("failed to create article: %w", err)
			}

			var article Article
			if err := resp.Decode(&article); err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), article)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", article.Title, article.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "Article title")
	cmd.Flags().StringVar(&draft.Content, "content", "", "Article body")
	cmd.Flags().StringVarP(&contentFile, "file", "f", "", `Read the body from a file ("-" for stdin)`)
	cmd.Flags().StringVarP(&draft.Application, "application", "a", "", "Application the article is about")
	cmd.Flags().StringVar(&draft.ErrorCode, "error-code", "", "Error code")
	cmd.Flags().Var(category, "category", "Article category")
	cmd.Flags().Var(severity, "severity", "Severity (default medium)")
	cmd.Flags().Var(status, "status", "Status (default published)")
	cmd.Flags().StringSliceVarP(&draft.Tags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&draft.Author, "author", "", "Author (default: configured editor)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("application")
	_ = cmd.MarkFlagRequired("category")
	cmd.MarkFlagsMutuallyExclusive("content", "file")

	return cmd
}

// EditCmd creates the edit command. Only flags given on the command line are
// sent, so untouched fields keep their stored values.
func EditCmd() *cobra.Command {
	var (
		title, content, contentFile string
		application, errorCode      string
		tags                        []string
		edit                        ArticleEdit
	)
	category := categoryFlag()
	severity := severityFlag()
	status := statusFlag()

	cmd := &cobra.Command{
		Use:   "edit <article_id>",
		Short: "Update an article",
		Long: `Update an article. With --save-version the current content is kept in the
version history before the change is applied.`,
		Example: `  techwiki edit 7d0c... --file fix-v2.md --save-version -m "add workaround"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("title") {
				edit.Title = &title
			}
			if flags.Changed("content") {
				edit.Content = &content
			}
			if contentFile != "" {
				body, err := readContent(contentFile)
				if err != nil {
					return err
				}
				edit.Content = &body
			}
			if flags.Changed("application") {
				edit.Application = &application
			}
			if flags.Changed("error-code") {
				edit.ErrorCode = &errorCode
			}
			if flags.Changed("category") {
				v := category.String()
				edit.Category = &v
			}
			if flags.Changed("severity") {
				v := severity.String()
				edit.Severity = &v
			}
			if flags.Changed("status") {
				v := status.String()
				edit.Status = &v
			}
			if flags.Changed("tag") {
				if tags == nil {
					tags = []string{}
				}
				edit.Tags = &tags
			}

			editor, err := ResolveEditor(edit.EditedBy)
			if err != nil {
				return err
			}
			edit.EditedBy = editor

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Put(cmd.Context(), articlePath(args[0]), edit)
			if err != nil {
				return fmt.Errorf("failed to update article: %w", err)
			}

			var article Article
			if err := resp.Decode(&article); err != nil {
				return err
			}

			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), article)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%d saved versions)\n", article.ID, len(article.Versions))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New body")
	cmd.Flags().StringVarP(&contentFile, "file", "f", "", `Read the new body from a file ("-" for stdin)`)
	cmd.Flags().StringVarP(&application, "application", "a", "", "New application")
	cmd.Flags().StringVar(&errorCode, "error-code", "", "New error code")
	cmd.Flags().Var(category, "category", "New category")
	cmd.Flags().Var(severity, "severity", "New severity")
	cmd.Flags().Var(status, "status", "New status")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Replace the tags (repeatable)")
	cmd.Flags().BoolVar(&edit.SaveVersion, "save-version", false, "Keep the current content in the version history")
	cmd.Flags().StringVar(&edit.EditedBy, "edited-by", "", "Editor name (default: configured editor)")
	cmd.Flags().StringVarP(&edit.ChangeDescription, "message", "m", "", "Change description for the saved version")
	cmd.MarkFlagsMutuallyExclusive("content", "file")

	return cmd
}
