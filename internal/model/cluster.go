package model

import "time"

// Cluster summarizes a group of reports believed to describe one
// real-world event. Clusters are ephemeral: rebuilt from a snapshot of
// reports on every clustering run, with no identity across runs.
type Cluster struct {
	Title       string    `json:"title"`    // first-placed member's title
	Location    string    `json:"location"` // first-placed member's location
	Category    string    `json:"category"`
	MaxSeverity float64   `json:"max_severity"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	MemberCount int       `json:"member_count"`
	Titles      []string  `json:"titles"`
	Links       []string  `json:"links"`
	Keywords    []string  `json:"keywords"` // union of members' event keywords
}
