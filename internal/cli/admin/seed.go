package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cloo-solutions/techwiki/internal/repository"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/spf13/cobra"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample articles and categories",
		Long: `Load the bundled sample knowledge base, or a YAML fixtures file, in a single
transaction and refresh the category counts afterwards. Without --reset,
categories with a known name and articles with a known title are kept as they are.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	cmd.Flags().Bool("reset", false, "Delete every article and category before loading")
	cmd.Flags().StringP("file", "f", "", "YAML fixtures file (default: bundled sample data)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	file, _ := cmd.Flags().GetString("file")
	fixtures, err := loadFixtures(file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	reset, _ := cmd.Flags().GetBool("reset")
	seedSvc := service.NewSeedService(repository.NewTxRunner(pool))

	result, err := seedSvc.Run(ctx, fixtures, service.SeedOptions{Reset: reset})
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	output, _ := cmd.Flags().GetString("output")
	return printSeedResult(cmd.OutOrStdout(), output, result)
}

func loadFixtures(path string) (*service.SeedFixtures, error) {
	if path == "" {
		return service.DefaultSeedFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return service.ParseSeedFixtures(data)
}

func printSeedResult(w io.Writer, format string, result *service.SeedResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]int{
			"articles":          result.Articles,
			"categories":        result.Categories,
			"skippedCategories": result.SkippedCategories,
			"skippedArticles":   result.SkippedArticles,
		})
	}

	fmt.Fprintf(w, "Seeded %d articles and %d categories", result.Articles, result.Categories)
	var kept []string
	if result.SkippedArticles > 0 {
		kept = append(kept, fmt.Sprintf("%d existing articles", result.SkippedArticles))
	}
	if result.SkippedCategories > 0 {
		kept = append(kept, fmt.Sprintf("%d existing categories", result.SkippedCategories))
	}
	if len(kept) > 0 {
		fmt.Fprintf(w, " (%s kept)", strings.Join(kept, " and "))
	}
	fmt.Fprintln(w)
	return nil
}
