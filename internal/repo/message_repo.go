// This file provides repository functions for archived channel messages.
// All mutations run under the row lock with the id-presence check inside
// the same transaction as the insert, so the poll and drain paths cannot
// double-record an entry; the unique index on entry_id backs the check.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// ErrAlreadyRecorded indicates the point check (or the unique index) found
// the entry id already present. Callers treat it as a benign outcome of the
// two delivery paths converging.
var ErrAlreadyRecorded = errors.New("entry already recorded")

// ListMessageIDs returns every entry id currently in the message table.
// This is the recorded-id index for one reconciliation pass; it is read
// fresh per pass, never cached across passes.
func ListMessageIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.MessageRecord{}).
		Pluck("entry_id", &ids).Error
	return ids, err
}

// InsertMessageRecords appends a batch of enriched messages under the row
// lock. The caller has already deduplicated the batch against the recorded
// ids; any record that still collides (a push insert that landed since the
// index was read) is skipped rather than failing the batch. Returns the
// number of rows written.
func InsertMessageRecords(ctx context.Context, db *gorm.DB, lock *RowLock, recs []domain.MessageRecord) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	if err := lock.Acquire(); err != nil {
		return 0, err
	}
	defer lock.Release()

	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recs {
			switch err := insertMessageChecked(tx, &recs[i]); {
			case err == nil:
				inserted++
			case errors.Is(err, ErrAlreadyRecorded):
				// Lost the race to the push path; the record exists, which
				// is the outcome we wanted.
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// InsertMessageRecord appends a single enriched message under the row lock,
// returning ErrAlreadyRecorded when the point check finds its entry id.
func InsertMessageRecord(ctx context.Context, db *gorm.DB, lock *RowLock, rec *domain.MessageRecord) error {
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertMessageChecked(tx, rec)
	})
}

// insertMessageChecked performs the point check and the insert inside the
// caller's transaction.
func insertMessageChecked(tx *gorm.DB, rec *domain.MessageRecord) error {
	var count int64
	if err := tx.Model(&domain.MessageRecord{}).
		Where("entry_id = ?", rec.EntryID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrAlreadyRecorded
	}
	if err := tx.Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRecorded
		}
		return err
	}
	return nil
}

// CountMessages returns the number of archived messages.
func CountMessages(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.MessageRecord{}).Count(&total).Error
	return total, err
}

// ListMessagesPage returns a page of archived messages, newest first.
func ListMessagesPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.MessageRecord, error) {
	var out []domain.MessageRecord
	err := db.WithContext(ctx).
		Order("timestamp DESC, seq DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// isUniqueViolation sniffs a unique-index failure.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}
