// Package storage persists finalized records: a JSON file overwritten per
// session, and an optional PostgreSQL archive of every record.
package storage

import (
	"context"
	"errors"

	"github.com/jonathan/job-intake/internal/normalize"
)

// RecordStore saves a finalized record.
type RecordStore interface {
	Save(ctx context.Context, rec *normalize.Record) error
}

type multiStore []RecordStore

// Multi saves to every store in order. All stores are attempted; the
// returned error joins every failure.
func Multi(stores ...RecordStore) RecordStore {
	var out multiStore
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiStore) Save(ctx context.Context, rec *normalize.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Save(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
