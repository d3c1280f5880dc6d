package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cloo-solutions/techwiki/internal/cli"
	"github.com/cloo-solutions/techwiki/internal/domain"
	"github.com/spf13/cobra"
)

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("output")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printArticleLine(w io.Writer, i int, a Article) {
	fmt.Fprintf(w, "%d. %s\n", i, a.Title)
	meta := []string{a.Application, a.Category, a.Severity, a.Status}
	if a.ErrorCode != "" {
		meta = append(meta, a.ErrorCode)
	}
	fmt.Fprintf(w, "   %s\n", strings.Join(meta, " | "))
	if len(a.Tags) > 0 {
		fmt.Fprintf(w, "   Tags: %s\n", strings.Join(a.Tags, ", "))
	}
	fmt.Fprintf(w, "   Views: %d, Helpful: %d\n", a.Views, a.Helpful)
	fmt.Fprintf(w, "   ID: %s\n", a.ID)
}

func printArticle(w io.Writer, a Article) {
	fmt.Fprintf(w, "# %s\n\n", a.Title)
	fmt.Fprintf(w, "ID:          %s\n", a.ID)
	fmt.Fprintf(w, "Application: %s\n", a.Application)
	if a.ErrorCode != "" {
		fmt.Fprintf(w, "Error code:  %s\n", a.ErrorCode)
	}
	fmt.Fprintf(w, "Category:    %s\n", a.Category)
	fmt.Fprintf(w, "Severity:    %s\n", a.Severity)
	fmt.Fprintf(w, "Status:      %s\n", a.Status)
	if len(a.Tags) > 0 {
		fmt.Fprintf(w, "Tags:        %s\n", strings.Join(a.Tags, ", "))
	}
	fmt.Fprintf(w, "Author:      %s\n", a.Author)
	if a.LastEditedBy != "" {
		fmt.Fprintf(w, "Edited by:   %s\n", a.LastEditedBy)
	}
	fmt.Fprintf(w, "Updated:     %s\n", a.UpdatedAt)
	fmt.Fprintf(w, "Views:       %d (helpful %d)\n", a.Views, a.Helpful)
	if len(a.Versions) > 0 {
		fmt.Fprintf(w, "Versions:    %d\n", len(a.Versions))
	}
	fmt.Fprintf(w, "\n%s\n", a.Content)
}

func printPage(w io.Writer, shown int, total int64, page, pages int) {
	if pages > 1 {
		fmt.Fprintf(w, "\nShowing %d of %d (page %d/%d)\n", shown, total, page, pages)
	}
}

func printStrings(w io.Writer, values []string) {
	for _, v := range values {
		fmt.Fprintln(w, v)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// readContent loads article content from a file, or stdin for "-".
func readContent(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return string(data), nil
}

func categoryFlag() *cli.EnumValue {
	return cli.NewEnumValue("", enumStrings(domain.AllCategories()), func(s string) string {
		return string(domain.ParseCategory(s))
	})
}

func severityFlag() *cli.EnumValue {
	return cli.NewEnumValue("", enumStrings(domain.AllSeverities()), func(s string) string {
		return string(domain.ParseSeverity(s))
	})
}

func statusFlag() *cli.EnumValue {
	return cli.NewEnumValue("", enumStrings(domain.AllStatuses()), func(s string) string {
		return string(domain.ParseStatus(s))
	})
}

func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
