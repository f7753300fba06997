// Package geo resolves free text to a place name and, through the
// location cache, to coordinates.
package geo

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/kr4wiec/aud-crisis/internal/cache"
	"github.com/kr4wiec/aud-crisis/internal/model"
)

// PlaceExtractor is the NER collaborator. It returns the first
// geopolitical-entity span found in text, or model.Unknown.
type PlaceExtractor interface {
	ExtractPlace(text string) (string, error)
}

// Geocoder is the external geocoding collaborator. found is false when
// the provider has no result for the name.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (coords model.Coordinates, found bool, err error)
}

// Location is a resolved place. Coordinates are nil whenever the name is
// model.Unknown or geocoding failed.
type Location struct {
	Name string
	Lat  *float64
	Lon  *float64
}

// Resolver is a thin facade over the NER and geocoding collaborators.
// Geocode calls are paced through a rate limiter and bounded by a
// timeout; any failure degrades to an un-located result, never an error.
type Resolver struct {
	places   PlaceExtractor
	geocoder Geocoder
	cache    cache.LocationCache
	limiter  *rate.Limiter
	timeout  time.Duration
	logger   *slog.Logger
}

// NewResolver creates a resolver. pace is the minimum interval between
// geocoder calls; timeout bounds each call.
func NewResolver(places PlaceExtractor, geocoder Geocoder, locCache cache.LocationCache, pace, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if pace > 0 {
		limiter = rate.NewLimiter(rate.Every(pace), 1)
	}
	return &Resolver{
		places:   places,
		geocoder: geocoder,
		cache:    locCache,
		limiter:  limiter,
		timeout:  timeout,
		logger:   logger,
	}
}

// Resolve extracts a place name from text and looks up its coordinates,
// consulting the cache before the geocoder. An unknown name short-circuits
// without touching cache or geocoder.
func (r *Resolver) Resolve(ctx context.Context, text string) Location {
	name, err := r.places.ExtractPlace(text)
	if err != nil {
		r.logger.Warn("place extraction failed", "error", err)
		return Location{Name: model.Unknown}
	}
	if name == "" || name == model.Unknown {
		return Location{Name: model.Unknown}
	}

	if coords, found, err := r.cache.Get(name); err != nil {
		r.logger.Warn("location cache lookup failed", "location", name, "error", err)
	} else if found {
		return located(name, coords)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("geocode pacing interrupted", "location", name, "error", err)
		return Location{Name: name}
	}

	geoCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	coords, found, err := r.geocoder.Geocode(geoCtx, name)
	if err != nil {
		r.logger.Error("geocoding failed", "location", name, "error", err)
		return Location{Name: name}
	}
	if !found {
		r.logger.Warn("no geocoding result", "location", name)
		return Location{Name: name}
	}

	if err := r.cache.Put(name, coords); err != nil {
		r.logger.Warn("location cache write failed", "location", name, "error", err)
	}
	return located(name, coords)
}

func located(name string, coords model.Coordinates) Location {
	lat, lon := coords.Lat, coords.Lon
	return Location{Name: name, Lat: &lat, Lon: &lon}
}
