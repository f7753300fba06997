package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kr4wiec/aud-crisis/internal/store"
)

var (
	cleanupDB        string
	cleanupRetention time.Duration
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove reports older than the retention window",
	Long: `Cleanup applies the retention policy without running an ingestion pass.
Storage errors during deletion are fatal; cleanup is not best-effort.

Example:
  aud-crisis cleanup
  aud-crisis cleanup --retention 720h`,
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().StringVar(&cleanupDB, "db", "", "sqlite database path (overrides config)")
	cleanupCmd.Flags().DurationVar(&cleanupRetention, "retention", 0, "retention window (overrides config)")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cleanupDB != "" {
		cfg.Storage.Path = cleanupDB
	}
	retention := cfg.Ingest.Retention
	if cleanupRetention > 0 {
		retention = cleanupRetention
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := db.DeleteReportsBefore(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d reports older than %s.\n", deleted, retention)
	return nil
}
