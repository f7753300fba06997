// Package dedup derives stable identities for incoming reports and
// rejects reports already seen in an earlier run.
package dedup

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Identity returns the deterministic id for a report: an MD5 digest of
// the title alone. Two entries with identical titles but different
// bodies collide on purpose; only the first is kept.
func Identity(title string) string {
	sum := md5.Sum([]byte(title))
	return hex.EncodeToString(sum[:])
}

// Store persists the set of already-processed entry ids.
type Store interface {
	Seen(ctx context.Context, id string) (bool, error)
	RecordSeen(ctx context.Context, id, source string, at time.Time) error
}

// Deduplicator checks incoming titles against the persisted seen-set.
type Deduplicator struct {
	store Store
}

// New creates a deduplicator over the given store.
func New(store Store) *Deduplicator {
	return &Deduplicator{store: store}
}

// Check derives the id for a title and reports whether it was already
// processed.
func (d *Deduplicator) Check(ctx context.Context, title string) (string, bool, error) {
	id := Identity(title)
	seen, err := d.store.Seen(ctx, id)
	if err != nil {
		return id, false, err
	}
	return id, seen, nil
}

// Record marks an id as processed. Every analyzed entry is recorded,
// accepted or not, so below-threshold items are not re-scored on the
// next run.
func (d *Deduplicator) Record(ctx context.Context, id, source string, at time.Time) error {
	return d.store.RecordSeen(ctx, id, source, at)
}
