package admin

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/cloo-solutions/techwiki/internal/logger"
	"github.com/cloo-solutions/techwiki/internal/repository"
	"github.com/cloo-solutions/techwiki/internal/service"
	"github.com/cloo-solutions/techwiki/internal/storage"
	"github.com/spf13/cobra"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump all articles and categories as JSON",
		Long: `Write a JSON snapshot of every article, including its version history, and
every category. With --out the snapshot goes to a file ("-" for stdout);
otherwise it is uploaded to the configured S3 bucket. --list shows the
snapshots already in the bucket.`,
		Example: `  techwikid export --out backup.json
  techwikid export --key exports/before-migration.json
  techwikid export --list`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().String("out", "", `Write to this file instead of S3 ("-" for stdout)`)
	cmd.Flags().String("key", "", "Object key for the S3 upload (default: exports/techwiki-<timestamp>.json)")
	cmd.Flags().Bool("list", false, "List snapshots stored in S3 and exit")
	cmd.MarkFlagsMutuallyExclusive("out", "list")
	cmd.MarkFlagsMutuallyExclusive("key", "list")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if list, _ := cmd.Flags().GetBool("list"); list {
		if !cfg.HasS3() {
			return fmt.Errorf("listing snapshots needs TECHWIKI_S3_ENDPOINT and credentials")
		}
		s3Client, err := newS3Client(ctx, cfg)
		if err != nil {
			return err
		}
		snapshots, err := service.NewExportService(nil, nil, s3Client).ListSnapshots(ctx)
		if err != nil {
			return err
		}
		return printSnapshots(cmd.OutOrStdout(), s3Client, snapshots)
	}

	if out == "" && !cfg.HasS3() {
		return fmt.Errorf("no export target: pass --out or set TECHWIKI_S3_ENDPOINT and credentials")
	}

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	articleRepo := repository.NewArticleRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)

	if out != "" {
		exportSvc := service.NewExportService(articleRepo, categoryRepo, nil)
		snap, err := exportSvc.Build(ctx)
		if err != nil {
			return fmt.Errorf("failed to build snapshot: %w", err)
		}
		return writeSnapshot(exportSvc, snap, out, cmd.OutOrStdout())
	}

	s3Client, err := newS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	exportSvc := service.NewExportService(articleRepo, categoryRepo, s3Client)

	snap, err := exportSvc.Build(ctx)
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}

	key, _ := cmd.Flags().GetString("key")
	key, err = exportSvc.Upload(ctx, key, snap)
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	logger.Info("export uploaded",
		slog.String("bucket", s3Client.Bucket()),
		slog.String("key", key),
		slog.Int("articles", len(snap.Articles)),
	)

	url, err := s3Client.GenerateDownloadURL(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to presign download URL: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Exported %d articles and %d categories\n", len(snap.Articles), len(snap.Categories))
	fmt.Fprintf(w, "  key: %s\n", s3Client.URI(key))
	fmt.Fprintf(w, "  url: %s\n", url)
	return nil
}

func writeSnapshot(exportSvc *service.ExportService, snap *service.Snapshot, out string, stdout io.Writer) error {
	if out == "-" {
		return exportSvc.WriteTo(stdout, snap)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	if err := exportSvc.WriteTo(f, snap); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("export written", slog.String("path", out), slog.Int("articles", len(snap.Articles)))
	return nil
}

func printSnapshots(w io.Writer, s3Client *storage.S3Client, snapshots []storage.ObjectInfo) error {
	if len(snapshots) == 0 {
		fmt.Fprintf(w, "No snapshots in %s\n", s3Client.URI(service.ExportPrefix))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
	for _, o := range snapshots {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Key, o.ContentLength, o.LastModified.UTC().Format(time.RFC3339))
	}
	return tw.Flush()
}
