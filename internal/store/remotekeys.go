package store

import (
	"context"
	"errors"

	"github.com/ghost/mediabolt/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cursor bookkeeping. No freshness logic lives here; the mediator owns
// that policy.

// GetRemoteKey returns the cursor for a feed label, or nil when the feed
// has never been fetched.
func (d *Database) GetRemoteKey(ctx context.Context, label string) (*models.RemoteKey, error) {
	var key models.RemoteKey
	err := d.db.WithContext(ctx).First(&key, "label = ?", label).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// UpsertRemoteKey creates or overwrites a feed's cursor.
func (d *Database) UpsertRemoteKey(ctx context.Context, key models.RemoteKey) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&key).Error
}

// DeleteRemoteKey removes a feed's cursor. Deleting an absent cursor is
// not an error.
func (d *Database) DeleteRemoteKey(ctx context.Context, label string) error {
	return d.db.WithContext(ctx).Delete(&models.RemoteKey{}, "label = ?", label).Error
}
