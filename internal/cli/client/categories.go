package client

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// CategoriesCmd creates the categories command group.
func CategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "List, create and inspect categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesCreateCmd())
	cmd.AddCommand(categoriesStatsCmd())
	cmd.AddCommand(categoriesRefreshCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with their cached article counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/api/categories", nil)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			var categories []Category
			if err := resp.Decode(&categories); err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), categories)
			}
			return printCategories(cmd, categories)
		},
	}
}

func categoriesCreateCmd() *cobra.Command {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Color       string `json:"color,omitempty"`
		Icon        string `json:"icon,omitempty"`
	}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body.Name = args[0]

			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post(cmd.Context(), "/api/categories", body)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			var category Category
			if err := resp.Decode(&category); err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), category)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category created: %s (%s)\n", category.Name, category.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&body.Description, "description", "", "Description")
	cmd.Flags().StringVar(&body.Color, "color", "", "Display color, e.g. #EF4444")
	cmd.Flags().StringVar(&body.Icon, "icon", "", "Icon name")

	return cmd
}

func categoriesStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show live per-category statistics of published articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Get(cmd.Context(), "/api/categories/stats", nil)
			if err != nil {
				return fmt.Errorf("failed to get statistics: %w", err)
			}

			var stats []CategoryStat
			if err := resp.Decode(&stats); err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tARTICLES\tVIEWS\tAVG HELPFUL")
			for _, s := range stats {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.1f\n", s.Category, s.Count, s.TotalViews, s.AvgHelpful)
			}
			return tw.Flush()
		},
	}
}

func categoriesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Recompute the cached article counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			resp, err := api.Post(cmd.Context(), "/api/categories/update-counts", nil)
			if err != nil {
				return fmt.Errorf("failed to refresh counts: %w", err)
			}

			var out CategoryRefresh
			if err := resp.Decode(&out); err != nil {
				return err
			}
			if wantJSON(cmd) {
				return printJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return printCategories(cmd, out.Categories)
		},
	}
}

func printCategories(cmd *cobra.Command, categories []Category) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tARTICLES\tDESCRIPTION")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.ArticleCount, c.Description)
	}
	return tw.Flush()
}
