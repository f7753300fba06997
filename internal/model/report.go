package model

import "time"

// Unknown is the sentinel location name used when no place entity
// could be extracted from a report's text.
const Unknown = "Unknown"

// Report is a single ingested news item that cleared the severity gate.
// Reports are immutable once stored; clustering never mutates them.
type Report struct {
	ID          string    `gorm:"primaryKey" json:"id"` // content-derived digest of the title
	Title       string    `gorm:"not null" json:"title"`
	Source      string    `gorm:"not null" json:"source"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"` // set at ingestion time, not the feed's own timestamp
	Severity    float64   `gorm:"column:severity_score;not null" json:"severity_score"`
	Category    string    `gorm:"not null" json:"category"`
	Location    string    `json:"location"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`

	EventKeywords []string `gorm:"serializer:json" json:"event_keywords"`
	FreeKeywords  []string `gorm:"serializer:json" json:"free_keywords"`
}

// TableName maps Report onto the events table.
func (Report) TableName() string { return "events" }

// Located reports true when the report carries resolved coordinates.
func (r *Report) Located() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Token is one element of the tokenizer collaborator's output stream.
// The scorer applies its free-keyword filtering policy over these flags;
// producing them is the tokenizer's business.
type Token struct {
	Text  string
	Lemma string
	POS   string // Penn Treebank tag, e.g. "NN", "NNP"
	Stop  bool
	URL   bool
	Email bool
}
