package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/kr4wiec/aud-crisis/internal/cache"
	"github.com/kr4wiec/aud-crisis/internal/dedup"
	"github.com/kr4wiec/aud-crisis/internal/feed"
	"github.com/kr4wiec/aud-crisis/internal/geo"
	"github.com/kr4wiec/aud-crisis/internal/lexicon"
	"github.com/kr4wiec/aud-crisis/internal/nlp"
	"github.com/kr4wiec/aud-crisis/internal/observability"
	"github.com/kr4wiec/aud-crisis/internal/pipeline"
	"github.com/kr4wiec/aud-crisis/internal/score"
	"github.com/kr4wiec/aud-crisis/internal/store"
)

var (
	dbPath      string
	threshold   float64
	scanTimeout time.Duration
	metricsAddr string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one ingestion pass over the configured sources",
	Long: `Scan fetches every configured feed, scores each new entry, stores the
reports that clear the severity gate and removes reports older than the
retention window.

Sources are processed one at a time; a failing source is logged and the
run continues with the rest.

Example:
  aud-crisis scan
  aud-crisis scan --db crisis_events.db --threshold 4.0
  aud-crisis scan --metrics-addr :9090`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (overrides config)")
	scanCmd.Flags().Float64Var(&threshold, "threshold", -1, "severity ingestion threshold (overrides config)")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 15*time.Minute, "overall run timeout")
	scanCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address during the run")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if threshold >= 0 {
		cfg.Ingest.SeverityThreshold = threshold
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	logger := newLogger()

	engine, err := nlp.NewEngine()
	if err != nil {
		// The whole pipeline depends on the model; nothing to degrade to.
		return fmt.Errorf("startup: %w", err)
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}

	metrics, registry := observability.NewMetrics()
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler(registry))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics listener failed", "addr", cfg.Metrics.Addr, "error", err)
			}
		}()
	}

	geocoder := geo.NewNominatimClient(cfg.Geocode.Endpoint, cfg.Geocode.UserAgent, cfg.Geocode.Timeout)
	resolver := geo.NewResolver(engine, geocoder, cache.NewLayeredCache(db),
		cfg.Geocode.Pace, cfg.Geocode.Timeout, logger)

	scorer := score.NewScorer(lexicon.Default(), engine, cfg.Ingest.FreeKeywordCap)
	gate := score.Gate{Threshold: cfg.Ingest.SeverityThreshold}

	p := pipeline.New(cfg.Feeds, feed.NewRSSFetcher(cfg.Geocode.UserAgent), scorer, gate,
		dedup.New(db), resolver, db, cfg.Ingest.Retention, clockwork.NewRealClock(), logger, metrics)

	result, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	fmt.Printf("Added %d new reports, cleaned up %d stale reports.\n", result.Added, result.Cleaned)
	return nil
}

// newLogger builds the process logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
