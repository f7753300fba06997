// Package pipeline orchestrates one ingestion run: fetch each source,
// deduplicate, score, gate, resolve locations, persist, then apply the
// retention policy.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kr4wiec/aud-crisis/internal/dedup"
	"github.com/kr4wiec/aud-crisis/internal/feed"
	"github.com/kr4wiec/aud-crisis/internal/geo"
	"github.com/kr4wiec/aud-crisis/internal/model"
	"github.com/kr4wiec/aud-crisis/internal/observability"
	"github.com/kr4wiec/aud-crisis/internal/score"
)

// ReportStore is the persistence consumed by a run.
type ReportStore interface {
	SaveReport(ctx context.Context, r *model.Report) error
	DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pipeline processes sources one at a time, sequentially. Sequencing is
// intentional: each accepted report triggers a paced geocode round trip
// before the next entry is looked at.
type Pipeline struct {
	sources   []model.FeedSource
	fetcher   feed.Source
	scorer    *score.Scorer
	gate      score.Gate
	dedup     *dedup.Deduplicator
	resolver  *geo.Resolver
	store     ReportStore
	retention time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a pipeline over the given collaborators.
func New(sources []model.FeedSource, fetcher feed.Source, scorer *score.Scorer, gate score.Gate,
	deduplicator *dedup.Deduplicator, resolver *geo.Resolver, store ReportStore,
	retention time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pipeline{
		sources:   sources,
		fetcher:   fetcher,
		scorer:    scorer,
		gate:      gate,
		dedup:     deduplicator,
		resolver:  resolver,
		store:     store,
		retention: retention,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunResult summarizes one ingestion run.
type RunResult struct {
	Added   int
	Cleaned int64
}

// Run executes one complete ingestion pass. A failing source degrades to
// a log entry and a counter; the remaining sources still run. A failing
// retention cleanup is the one error that aborts the result.
func (p *Pipeline) Run(ctx context.Context) (RunResult, error) {
	var result RunResult

	for _, src := range p.sources {
		added, err := p.scanSource(ctx, src)
		result.Added += added
		if err != nil {
			p.logger.Error("source failed", "source", src.Name, "error", err)
			if p.metrics != nil {
				p.metrics.SourceFailures.WithLabelValues(src.Name).Inc()
			}
		}
	}

	cleaned, err := p.store.DeleteReportsBefore(ctx, p.clock.Now().Add(-p.retention))
	if err != nil {
		return result, fmt.Errorf("retention cleanup: %w", err)
	}
	result.Cleaned = cleaned
	if p.metrics != nil {
		p.metrics.ReportsCleaned.Add(float64(cleaned))
	}

	p.logger.Info("ingestion finished", "added", result.Added, "cleaned", result.Cleaned)
	return result, nil
}

// scanSource processes a single source. Entries that fail individually
// (storage errors, mostly) are logged and skipped; the source keeps
// going. Only a fetch failure fails the whole source.
func (p *Pipeline) scanSource(ctx context.Context, src model.FeedSource) (int, error) {
	p.logger.Info("scanning source", "source", src.Name)

	items, err := p.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	weight := src.Weight
	if weight == 0 {
		weight = 1.0
	}

	added := 0
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		if p.metrics != nil {
			p.metrics.EntriesProcessed.WithLabelValues(src.Name).Inc()
		}

		id, seen, err := p.dedup.Check(ctx, item.Title)
		if err != nil {
			p.logger.Error("dedup lookup failed", "source", src.Name, "title", item.Title, "error", err)
			continue
		}
		if seen {
			if p.metrics != nil {
				p.metrics.EntriesDuplicate.Inc()
			}
			continue
		}

		text := item.Text()
		scored, err := p.scorer.Score(item.Title, text, weight)
		if err != nil {
			// Free keywords are cosmetic; severity and category survive.
			p.logger.Warn("keyword extraction degraded", "source", src.Name, "title", item.Title, "error", err)
		}
		p.logger.Debug("scored entry", "source", src.Name, "title", item.Title,
			"severity", scored.Severity, "category", scored.Category)

		if p.gate.Accept(scored.Severity) {
			loc := p.resolver.Resolve(ctx, text)
			if loc.Name != model.Unknown && loc.Lat == nil && p.metrics != nil {
				p.metrics.GeocodeFailures.Inc()
			}

			report := model.Report{
				ID:            id,
				Title:         item.Title,
				Source:        src.Name,
				Link:          item.Link,
				PublishedAt:   p.clock.Now().UTC(),
				Severity:      scored.Severity,
				Category:      scored.Category,
				Location:      loc.Name,
				Latitude:      loc.Lat,
				Longitude:     loc.Lon,
				EventKeywords: scored.EventKeywords,
				FreeKeywords:  scored.FreeKeywords,
			}
			if err := p.store.SaveReport(ctx, &report); err != nil {
				p.logger.Error("store report failed", "source", src.Name, "id", id, "error", err)
				continue
			}
			added++
			if p.metrics != nil {
				p.metrics.ReportsAccepted.Inc()
			}
		}

		if err := p.dedup.Record(ctx, id, src.Name, p.clock.Now().UTC()); err != nil {
			p.logger.Error("record seen failed", "source", src.Name, "id", id, "error", err)
		}
	}
	return added, nil
}
