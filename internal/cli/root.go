package cli

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"archive-lens/internal/config"
	"archive-lens/internal/storage"
)

var verbose bool

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lensctl",
	Short: "Inspect the archive library from the terminal",
	Long: `lensctl reads the archive-lens database directly.

It searches archives, lists and writes annotations and prints
spreadsheet windows without running the API server. Configuration
comes from the same environment variables and .env file as the server.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configureLogging(cmd.ErrOrStderr())
	}
}

func configureLogging(w io.Writer) {
	if !verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// openStore loads configuration and opens the migrated database. The caller
// closes the returned db.
func openStore() (*storage.Store, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DBPath)
	}
	return storage.NewStore(db, cfg.LibraryRoot), db, nil
}
