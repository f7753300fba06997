// Package cluster groups independently ingested reports that describe
// the same real-world event.
package cluster

import (
	"strings"
	"time"

	"github.com/kr4wiec/aud-crisis/internal/model"
)

// Config tunes the same-event heuristic.
type Config struct {
	// MinKeywordSim is the minimum Jaccard similarity between two
	// reports' event-keyword sets.
	MinKeywordSim float64
	// TimeWindow is the maximum publication-time distance between two
	// reports of the same event.
	TimeWindow time.Duration
}

// Clusterer assigns reports to clusters with a single-pass greedy scan:
// each report joins the first open cluster whose representative it
// matches, else it opens a new one. First-fit makes the outcome
// order-dependent; callers needing order independence need a different
// algorithm, not a tweak of this one.
type Clusterer struct {
	cfg  Config
	core map[string]struct{}
}

// New creates a clusterer. corePhrases are the high-specificity event
// phrases that let two differently-located reports about one named
// disaster merge anyway.
func New(cfg Config, corePhrases []string) *Clusterer {
	if cfg.MinKeywordSim <= 0 {
		cfg.MinKeywordSim = 0.4
	}
	if cfg.TimeWindow <= 0 {
		cfg.TimeWindow = time.Hour
	}
	core := make(map[string]struct{}, len(corePhrases))
	for _, p := range corePhrases {
		core[p] = struct{}{}
	}
	return &Clusterer{cfg: cfg, core: core}
}

// Cluster groups a snapshot of reports into cluster summaries. The
// snapshot is read-only; reports are never mutated.
func (c *Clusterer) Cluster(reports []model.Report) []model.Cluster {
	var groups [][]*model.Report

	for i := range reports {
		report := &reports[i]
		placed := false
		for g := range groups {
			// Compare against the first-placed member only.
			if c.sameEvent(report, groups[g][0]) {
				groups[g] = append(groups[g], report)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []*model.Report{report})
		}
	}

	clusters := make([]model.Cluster, 0, len(groups))
	for _, g := range groups {
		clusters = append(clusters, summarize(g))
	}
	return clusters
}

// sameEvent decides whether two reports describe one real-world event:
// compatible locations (or a core-phrase title override), identical
// categories, sufficiently similar event keywords and close enough
// publication times.
func (c *Clusterer) sameEvent(a, b *model.Report) bool {
	if a.Location != model.Unknown && b.Location != model.Unknown && a.Location != b.Location {
		if !c.titlesShareEvent(a, b) {
			return false
		}
	}

	if a.Category != b.Category {
		return false
	}

	if Jaccard(a.EventKeywords, b.EventKeywords) < c.cfg.MinKeywordSim {
		return false
	}

	diff := a.PublishedAt.Sub(b.PublishedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= c.cfg.TimeWindow
}

// titlesShareEvent fires the location-gate override: both reports share
// a core event phrase in their keyword sets and both titles literally
// contain it.
func (c *Clusterer) titlesShareEvent(a, b *model.Report) bool {
	t1 := strings.ToLower(a.Title)
	t2 := strings.ToLower(b.Title)

	shared := intersect(a.EventKeywords, b.EventKeywords)
	for _, kw := range shared {
		if _, core := c.core[kw]; !core {
			continue
		}
		if strings.Contains(t1, kw) && strings.Contains(t2, kw) {
			return true
		}
	}
	return false
}

// Jaccard returns the similarity of two keyword lists as sets. If either
// is empty the similarity is 0, so empty sets never match anything.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	inter := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

func intersect(a, b []string) []string {
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, s := range a {
		if _, ok := setB[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// summarize builds the cluster record for a group of placed reports.
// Representative fields come from the first-placed member.
func summarize(members []*model.Report) model.Cluster {
	first := members[0]
	cl := model.Cluster{
		Title:       first.Title,
		Location:    first.Location,
		Category:    first.Category,
		MaxSeverity: first.Severity,
		FirstSeen:   first.PublishedAt,
		LastSeen:    first.PublishedAt,
		MemberCount: len(members),
	}

	seen := make(map[string]struct{})
	for _, m := range members {
		cl.Titles = append(cl.Titles, m.Title)
		cl.Links = append(cl.Links, m.Link)
		if m.Severity > cl.MaxSeverity {
			cl.MaxSeverity = m.Severity
		}
		if m.PublishedAt.Before(cl.FirstSeen) {
			cl.FirstSeen = m.PublishedAt
		}
		if m.PublishedAt.After(cl.LastSeen) {
			cl.LastSeen = m.PublishedAt
		}
		for _, kw := range m.EventKeywords {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			cl.Keywords = append(cl.Keywords, kw)
		}
	}
	return cl
}
