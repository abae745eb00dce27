// This file provides the key/value blob store backing the durable task
// queue. The contract is deliberately tiny: read a string by key (a missing
// key is normal, not an error) and write a string by key.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// LoadValue reads the blob stored under key. The second return reports
// whether the key existed.
func LoadValue(ctx context.Context, db *gorm.DB, key string) (string, bool, error) {
	var entry domain.KVEntry
	err := db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// SaveValue writes the blob under key, creating or replacing it.
func SaveValue(ctx context.Context, db *gorm.DB, key, value string) error {
	entry := domain.KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}
