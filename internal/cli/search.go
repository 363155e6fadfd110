package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"archive-lens/internal/backend"
	"archive-lens/internal/search"
)

var (
	searchLimit int
	searchPages int
	searchTypes []string
	searchFrom  string
	searchTo    string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search archives and print grouped snippets",
	Long: `Search matches the query against paragraphs, document fields,
attachment names and annotations, then prints one group per archive
with the matched text marked in [brackets].

Example:
  lensctl search 防汛
  lensctl search "应急 预案" --pages 3 --types xlsx,pdf
  lensctl search 通知 --from 2024-01-01 --to 2024-06-30`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "hits requested per page")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "maximum number of pages to fetch")
	searchCmd.Flags().StringSliceVar(&searchTypes, "types", nil, "attachment file types to include")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "earliest archive date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "latest archive date (YYYY-MM-DD)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters, err := parseDateFilters(searchFrom, searchTo)
	if err != nil {
		return err
	}
	filters.FileTypes = searchTypes

	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pager := search.NewPager(store, searchLimit)
	pager.Reset(strings.Join(args, " "), filters)
	for i := 0; i < searchPages && pager.HasMore(); i++ {
		if _, err := pager.More(ctx); err != nil {
			return err
		}
	}

	results := search.Aggregate(pager.Hits())
	if archives, err := store.ListArchives(ctx, backend.Filters{}); err == nil {
		titles := make(map[string]string, len(archives))
		for _, a := range archives {
			titles[a.ArchiveID] = a.OriginalName
		}
		search.ApplyTitles(results, titles)
	}

	printResults(cmd.OutOrStdout(), pager.Query(), results, pager.HasMore())
	return nil
}

// parseDateFilters turns YYYY-MM-DD bounds into unix seconds. The upper
// bound covers the whole day.
func parseDateFilters(from, to string) (search.Filters, error) {
	var f search.Filters
	if from != "" {
		t, err := time.ParseInLocation(time.DateOnly, from, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		v := t.Unix()
		f.DateFrom = &v
	}
	if to != "" {
		t, err := time.ParseInLocation(time.DateOnly, to, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		v := t.Add(24*time.Hour - time.Second).Unix()
		f.DateTo = &v
	}
	if f.DateFrom != nil && f.DateTo != nil && *f.DateFrom > *f.DateTo {
		return f, fmt.Errorf("--from must not be after --to")
	}
	return f, nil
}

func printResults(w io.Writer, query string, results []search.ContainerResult, more bool) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", query)
		return
	}
	for _, r := range results {
		fmt.Fprintf(w, "%s (%s) %d hits\n", r.Title, r.ArchiveID, r.Counts.Total())
		for _, c := range r.Snippets {
			fmt.Fprintf(w, "  [%s] %s\n", c.Tag, markHighlights(c.Snippet))
		}
	}
	if more {
		fmt.Fprintln(w, "More results available; raise --pages to fetch them.")
	}
}

func markHighlights(s search.Snippet) string {
	var b strings.Builder
	for _, seg := range s.Segments() {
		if seg.Highlighted {
			b.WriteString("[" + seg.Text + "]")
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
