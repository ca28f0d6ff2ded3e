// Package repository implements the three record collections behind the
// site: donors, gallery images and team members. Every repo holds the shared
// sqlx handle; a nil handle means no DSN was configured and every call
// returns ErrNotConfigured so the HTTP layer can degrade instead of crash.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
)

var (
	// ErrNotConfigured signals that no database connection is available.
	ErrNotConfigured = errors.New("database not configured")
	// ErrNotFound signals that an id did not resolve to a record.
	ErrNotFound = errors.New("not found")
)

// reorderRows sets position = index for each id in orderedIDs, one update
// per id issued concurrently. Ids that match no row update nothing and are
// not an error. There is no coordinating transaction: a partial failure
// leaves a mixed ordering, which is acceptable for a manual admin action.
func reorderRows(ctx context.Context, db *sqlx.DB, query string, orderedIDs []string) error {
	if db == nil {
		return ErrNotConfigured
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, id := range orderedIDs {
		wg.Add(1)
		go func(pos int, id string) {
			defer wg.Done()
			if _, err := db.ExecContext(ctx, query, pos, id); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(i, id)
	}
	wg.Wait()
	return firstErr
}
