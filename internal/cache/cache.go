// Package cache provides the location cache consulted by the resolver
// before any geocoder round trip. Keys are exact location-name strings:
// no case folding or trimming, so "New York" and "new york" are distinct
// entries. Entries are append-only; nothing updates or evicts them in
// the persistent layer.
package cache

import "github.com/kr4wiec/aud-crisis/internal/model"

// LocationCache maps an exact location name to its coordinates.
type LocationCache interface {
	Get(name string) (model.Coordinates, bool, error)
	Put(name string, coords model.Coordinates) error
}
