package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/cloo-solutions/techwiki/internal/repository"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/spf13/cobra"
)

// CategoriesCmd returns the categories command
func CategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Maintain categories",
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute cached article counts",
		Long:  "Recount published articles for every category and store the results",
		Args:  cobra.NoArgs,
		RunE:  runCategoriesRefresh,
	}
	refresh.Flags().StringP("output", "o", "text", "Output format (text or json)")

	cmd.AddCommand(refresh)
	return cmd
}

func runCategoriesRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	categorySvc := service.NewCategoryService(repository.NewCategoryRepository(pool))
	categories, err := categorySvc.RecomputeCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh category counts: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	return printCategoryCounts(cmd.OutOrStdout(), output, categories)
}

func printCategoryCounts(w io.Writer, format string, categories []*domain.Category) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(categories)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tARTICLES")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.ArticleCount)
	}
	return tw.Flush()
}
