package model

import "time"

// Config holds the full service configuration.
type Config struct {
	Feeds   []FeedSource  `yaml:"feeds" mapstructure:"feeds"`
	Ingest  IngestConfig  `yaml:"ingest" mapstructure:"ingest"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Cluster ClusterConfig `yaml:"cluster" mapstructure:"cluster"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// FeedSource is one named RSS source with its reliability weight.
// The weight multiplies every severity score computed for the source.
type FeedSource struct {
	Name   string  `yaml:"name" mapstructure:"name"`
	URL    string  `yaml:"url" mapstructure:"url"`
	Weight float64 `yaml:"weight" mapstructure:"weight"`
}

// IngestConfig controls the scoring and retention side of a scan run.
type IngestConfig struct {
	SeverityThreshold float64       `yaml:"severity_threshold" mapstructure:"severity_threshold"`
	FreeKeywordCap    int           `yaml:"free_keyword_cap" mapstructure:"free_keyword_cap"`
	Retention         time.Duration `yaml:"retention" mapstructure:"retention"`
	FetchTimeout      time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`
}

// GeocodeConfig controls the geocoding collaborator.
type GeocodeConfig struct {
	Endpoint  string        `yaml:"endpoint" mapstructure:"endpoint"`
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// Pace is the minimum interval between geocode calls, a deliberate
	// delay to respect the provider's usage policy.
	Pace time.Duration `yaml:"pace" mapstructure:"pace"`
}

// ClusterConfig controls the same-event heuristic.
type ClusterConfig struct {
	MinKeywordSim float64       `yaml:"min_keyword_sim" mapstructure:"min_keyword_sim"`
	TimeWindow    time.Duration `yaml:"time_window" mapstructure:"time_window"`
	// MinSeverity is the presentation floor applied before clustering,
	// separate from the ingestion threshold.
	MinSeverity float64 `yaml:"min_severity" mapstructure:"min_severity"`
}

// StorageConfig controls the sqlite store.
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"` // empty disables the listener
}

// DefaultConfig returns the built-in defaults, including the standard
// source list with per-source reliability weights.
func DefaultConfig() *Config {
	return &Config{
		Feeds: []FeedSource{
			{Name: "Reddit-WorldNews", URL: "https://www.reddit.com/r/worldnews/new/.rss", Weight: 0.6},
			{Name: "Reddit-Disaster", URL: "https://www.reddit.com/r/disaster/new/.rss", Weight: 0.6},
			{Name: "AlJazeera", URL: "https://www.aljazeera.com/xml/rss/all.xml", Weight: 0.8},
			{Name: "BBC-World", URL: "http://feeds.bbci.co.uk/news/world/rss.xml", Weight: 0.9},
			{Name: "USGS-Quakes", URL: "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/4.5_day.atom", Weight: 1.0},
			{Name: "Reuters", URL: "https://www.reuters.com/site-edition/international/rss", Weight: 0.95},
			{Name: "UN-News", URL: "https://news.un.org/feed/subscribe/en/news/all/rss.xml", Weight: 1.0},
			{Name: "WHO", URL: "https://www.who.int/rss-feeds/news-english.xml", Weight: 0.8},
		},
		Ingest: IngestConfig{
			SeverityThreshold: 4.0,
			FreeKeywordCap:    10,
			Retention:         30 * 24 * time.Hour,
			FetchTimeout:      30 * time.Second,
		},
		Geocode: GeocodeConfig{
			Endpoint:  "https://nominatim.openstreetmap.org/search",
			UserAgent: "aud-crisis/0.1 (+https://github.com/kr4wiec/aud-crisis)",
			Timeout:   10 * time.Second,
			Pace:      1100 * time.Millisecond,
		},
		Cluster: ClusterConfig{
			MinKeywordSim: 0.4,
			TimeWindow:    time.Hour,
			MinSeverity:   7.0,
		},
		Storage: StorageConfig{
			Path: "crisis_events.db",
		},
	}
}
