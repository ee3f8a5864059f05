// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package collection implements read-all/append-one access to named
// collections ("clients", "tasks") stored as single JSON array blobs in a
// key-value store.
//
// Append performs an unconditional read-modify-write of the whole blob with
// no optimistic concurrency check: two concurrent appends to the same
// collection race and the last write wins, possibly losing one record. This
// is a known hazard of the backing store's API shape, not something this
// package papers over with locking.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.astrophena.name/tgcrm/internal/store"
	"go.astrophena.name/tgcrm/internal/web"
)

// Record is a single collection item: an arbitrary field mapping with a
// server-assigned numeric id.
type Record map[string]any

// Accessor reads and appends collection records.
type Accessor struct {
	store store.Store

	// now returns the current time; overridden in tests.
	now func() time.Time
}

// New returns an [Accessor] backed by s.
func New(s store.Store) *Accessor {
	return &Accessor{store: s, now: time.Now}
}

// Read fetches the collection stored under key. A never-written key yields an
// empty collection without writing anything. A blob that fails to decode is
// reported as an internal server error.
func (a *Accessor) Read(ctx context.Context, key string) ([]Record, error) {
	b, err := a.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", key, err)
	}
	if b == nil {
		return []Record{}, nil
	}
	var recs []Record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("collection %q is corrupted (%v): %w", key, err, web.ErrInternalServerError)
	}
	return recs, nil
}

// Append mints a new record from fields and places it at the head of the
// collection stored under key, so reads return newest records first.
//
// The record id is the current time in milliseconds since the Unix epoch;
// uniqueness holds only as long as appends to the same collection don't land
// within the same millisecond. Caller fields are merged on top of the
// synthesized id, so a caller-supplied "id" field wins. Both quirks are
// externally observable contracts, kept deliberately.
func (a *Accessor) Append(ctx context.Context, key string, fields Record) (Record, error) {
	recs, err := a.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	rec := Record{"id": a.now().UnixMilli()}
	for k, v := range fields {
		rec[k] = v
	}

	recs = append([]Record{rec}, recs...)

	b, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", key, err)
	}
	if err := a.store.Set(ctx, key, b); err != nil {
		return nil, fmt.Errorf("collection %q: %w", key, err)
	}

	return rec, nil
}
