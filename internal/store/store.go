// Package store persists reports, the location cache and the dedup
// seen-set in a single sqlite database through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kr4wiec/aud-crisis/internal/model"
)

// Store is the durable keyed storage behind the pipeline.
type Store struct {
	db *gorm.DB
}

// locationRow caches geocoding results keyed by exact location name.
type locationRow struct {
	Name      string  `gorm:"primaryKey"`
	Latitude  float64 `gorm:"not null"`
	Longitude float64 `gorm:"not null"`
}

func (locationRow) TableName() string { return "location_cache" }

// seenRow records an already-processed feed entry so it is never
// analyzed twice, whether or not it cleared the severity gate.
type seenRow struct {
	ID          string `gorm:"primaryKey"`
	Source      string `gorm:"not null"`
	ProcessedAt time.Time
}

func (seenRow) TableName() string { return "seen_entries" }

// Open opens (creating if needed) the sqlite database at path and
// migrates the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&model.Report{}, &locationRow{}, &seenRow{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveReport inserts a new report. Reports are immutable; an id
// collision is an error, not an update.
func (s *Store) SaveReport(ctx context.Context, r *model.Report) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("insert report %s: %w", r.ID, err)
	}
	return nil
}

// Reports returns a full scan of stored reports.
func (s *Store) Reports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := s.db.WithContext(ctx).Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("scan reports: %w", err)
	}
	return reports, nil
}

// DeleteReportsBefore removes reports published before cutoff and
// returns the number deleted. Retention failures propagate; cleanup is
// not best-effort.
func (s *Store) DeleteReportsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("published_at < ?", cutoff).Delete(&model.Report{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete stale reports: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Seen reports whether an entry id was already processed.
func (s *Store) Seen(ctx context.Context, id string) (bool, error) {
	var row seenRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("seen lookup %s: %w", id, err)
	}
	return true, nil
}

// RecordSeen marks an entry id as processed.
func (s *Store) RecordSeen(ctx context.Context, id, source string, at time.Time) error {
	row := seenRow{ID: id, Source: source, ProcessedAt: at}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record seen %s: %w", id, err)
	}
	return nil
}

// Get looks up cached coordinates by exact name.
func (s *Store) Get(name string) (model.Coordinates, bool, error) {
	var row locationRow
	err := s.db.First(&row, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coordinates{}, false, nil
	}
	if err != nil {
		return model.Coordinates{}, false, fmt.Errorf("location lookup %q: %w", name, err)
	}
	return model.Coordinates{Lat: row.Latitude, Lon: row.Longitude}, true, nil
}

// Put stores coordinates under the exact name. Entries are append-only.
func (s *Store) Put(name string, coords model.Coordinates) error {
	row := locationRow{Name: name, Latitude: coords.Lat, Longitude: coords.Lon}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("cache location %q: %w", name, err)
	}
	return nil
}
