package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kr4wiec/aud-crisis/internal/dedup"
	"github.com/kr4wiec/aud-crisis/internal/feed"
	"github.com/kr4wiec/aud-crisis/internal/geo"
	"github.com/kr4wiec/aud-crisis/internal/lexicon"
	"github.com/kr4wiec/aud-crisis/internal/model"
	"github.com/kr4wiec/aud-crisis/internal/score"
)

type fakeFeed struct {
	items map[string][]feed.Item
	errs  map[string]error
}

func (f *fakeFeed) Fetch(ctx context.Context, url string) ([]feed.Item, error) {
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	return f.items[url], nil
}

// fakeStore backs the report store, the seen-set and the location cache
// in memory so one fake can be handed to every collaborator.
type fakeStore struct {
	reports    []model.Report
	seen       map[string]bool
	locs       map[string]model.Coordinates
	cleaned    int64
	cleanupErr error
	lastCutoff time.Time
	saveErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		seen: make(map[string]bool),
		locs: make(map[string]model.Coordinates),
	}
}

func (s *fakeStore) SaveReport(ctx context.Context, r *model.Report) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.reports = append(s.reports, *r)
	return nil
}

func (s *fakeStore) DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.lastCutoff = cutoff
	return s.cleaned, s.cleanupErr
}

func (s *fakeStore) Seen(ctx context.Context, id string) (bool, error) { return s.seen[id], nil }

func (s *fakeStore) RecordSeen(ctx context.Context, id, source string, at time.Time) error {
	s.seen[id] = true
	return nil
}

func (s *fakeStore) Get(name string) (model.Coordinates, bool, error) {
	c, ok := s.locs[name]
	return c, ok, nil
}

func (s *fakeStore) Put(name string, c model.Coordinates) error {
	s.locs[name] = c
	return nil
}

type fakeExtractor struct{ place string }

func (f *fakeExtractor) ExtractPlace(text string) (string, error) { return f.place, nil }

type fakeGeocoder struct{ coords model.Coordinates }

func (f *fakeGeocoder) Geocode(ctx context.Context, name string) (model.Coordinates, bool, error) {
	return f.coords, true, nil
}

type emptyTokenizer struct{}

func (emptyTokenizer) Tokens(text string) ([]model.Token, error) { return nil, nil }

func testScorer() *score.Scorer {
	lex := lexicon.New(
		[]lexicon.Category{{Name: "Earthquake", Keywords: []string{"earthquake"}}},
		map[string]float64{"earthquake": 8},
		nil, nil,
	)
	return score.NewScorer(lex, emptyTokenizer{}, 10)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var t0 = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestPipeline(sources []model.FeedSource, fetcher feed.Source, st *fakeStore) *Pipeline {
	resolver := geo.NewResolver(
		&fakeExtractor{place: "Testville"},
		&fakeGeocoder{coords: model.Coordinates{Lat: 1.5, Lon: 2.5}},
		st, 0, time.Second, discard(),
	)
	return New(sources, fetcher, testScorer(), score.Gate{Threshold: 4.0},
		dedup.New(st), resolver, st, 30*24*time.Hour,
		clockwork.NewFakeClockAt(t0), discard(), nil)
}

func TestRun_GatesBySeverity(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFeed{items: map[string][]feed.Item{
		"u1": {
			{Title: "Earthquake hits the coast", Summary: "Strong shaking reported.", Link: "https://x/1"},
			{Title: "Markets steady", Summary: "A calm trading day."},
		},
	}}
	p := newTestPipeline([]model.FeedSource{{Name: "src", URL: "u1", Weight: 1.0}}, fetcher, st)

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Added != 1 {
		t.Fatalf("Added = %d, want 1", res.Added)
	}
	if len(st.reports) != 1 {
		t.Fatalf("stored %d reports, want 1", len(st.reports))
	}

	r := st.reports[0]
	if r.Title != "Earthquake hits the coast" {
		t.Errorf("stored wrong report: %q", r.Title)
	}
	if r.Severity != 10 { // 8 keyword + 2 title bonus
		t.Errorf("Severity = %v, want 10", r.Severity)
	}
	if r.Category != "Earthquake" {
		t.Errorf("Category = %q", r.Category)
	}
	if r.Source != "src" || r.Link != "https://x/1" {
		t.Errorf("source/link not carried: %+v", r)
	}
	if r.Location != "Testville" || r.Latitude == nil || *r.Latitude != 1.5 {
		t.Errorf("location not resolved: %+v", r)
	}
	if !r.PublishedAt.Equal(t0) {
		t.Errorf("PublishedAt = %v, want clock time %v", r.PublishedAt, t0)
	}

	// Rejected entries still enter the seen-set so they are never
	// re-scored.
	if !st.seen[dedup.Identity("Markets steady")] {
		t.Error("below-threshold entry not recorded as seen")
	}
}

func TestRun_DuplicateTitleWithinRun(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFeed{items: map[string][]feed.Item{
		"u1": {
			{Title: "Earthquake hits the coast", Summary: "first wire copy"},
			{Title: "Earthquake hits the coast", Summary: "syndicated duplicate"},
		},
	}}
	p := newTestPipeline([]model.FeedSource{{Name: "src", URL: "u1"}}, fetcher, st)

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Added != 1 || len(st.reports) != 1 {
		t.Fatalf("Added = %d, stored = %d, want 1/1", res.Added, len(st.reports))
	}
}

func TestRun_DedupAcrossRuns(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFeed{items: map[string][]feed.Item{
		"u1": {{Title: "Earthquake hits the coast", Summary: "shaking"}},
	}}
	p := newTestPipeline([]model.FeedSource{{Name: "src", URL: "u1"}}, fetcher, st)

	if res, _ := p.Run(context.Background()); res.Added != 1 {
		t.Fatalf("first run Added = %d, want 1", res.Added)
	}
	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Added != 0 || len(st.reports) != 1 {
		t.Errorf("second run Added = %d, stored = %d, want 0/1", res.Added, len(st.reports))
	}
}

func TestRun_SourceFailureDoesNotAbort(t *testing.T) {
	st := newFakeStore()
	fetcher := &fakeFeed{
		items: map[string][]feed.Item{
			"ok": {{Title: "Earthquake hits the coast", Summary: "shaking"}},
		},
		errs: map[string]error{"down": errors.New("connection refused")},
	}
	sources := []model.FeedSource{
		{Name: "down", URL: "down"},
		{Name: "ok", URL: "ok"},
	}
	p := newTestPipeline(sources, fetcher, st)

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Added != 1 {
		t.Errorf("Added = %d, want 1 from the surviving source", res.Added)
	}
}

func TestRun_RetentionCleanup(t *testing.T) {
	st := newFakeStore()
	st.cleaned = 7
	p := newTestPipeline(nil, &fakeFeed{}, st)

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Cleaned != 7 {
		t.Errorf("Cleaned = %d, want 7", res.Cleaned)
	}
	wantCutoff := t0.Add(-30 * 24 * time.Hour)
	if !st.lastCutoff.Equal(wantCutoff) {
		t.Errorf("cutoff = %v, want %v", st.lastCutoff, wantCutoff)
	}
}

func TestRun_CleanupFailureAborts(t *testing.T) {
	st := newFakeStore()
	st.cleanupErr = errors.New("disk full")
	p := newTestPipeline(nil, &fakeFeed{}, st)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed cleanup")
	}
}

func TestRun_StoreFailureSkipsEntry(t *testing.T) {
	st := newFakeStore()
	st.saveErr = errors.New("constraint violation")
	fetcher := &fakeFeed{items: map[string][]feed.Item{
		"u1": {{Title: "Earthquake hits the coast", Summary: "shaking"}},
	}}
	p := newTestPipeline([]model.FeedSource{{Name: "src", URL: "u1"}}, fetcher, st)

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Added != 0 {
		t.Errorf("Added = %d, want 0 when persistence fails", res.Added)
	}
}
