// This file provides repository functions for archived workspace members,
// symmetric with the message repository.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nvoss/slack-archive-backend/internal/domain"
)

// ListMemberIDs returns every entry id currently in the member table.
func ListMemberIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.MemberRecord{}).
		Pluck("entry_id", &ids).Error
	return ids, err
}

// InsertMemberRecords appends a batch of enriched members under the row
// lock, skipping entries another path recorded in the meantime. Returns the
// number of rows written.
func InsertMemberRecords(ctx context.Context, db *gorm.DB, lock *RowLock, recs []domain.MemberRecord) (int, error) {
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
			switch err := insertMemberChecked(tx, &recs[i]); {
			case err == nil:
				inserted++
			case errors.Is(err, ErrAlreadyRecorded):
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

// InsertMemberRecord appends a single enriched member under the row lock,
// returning ErrAlreadyRecorded when the point check finds its entry id.
func InsertMemberRecord(ctx context.Context, db *gorm.DB, lock *RowLock, rec *domain.MemberRecord) error {
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return insertMemberChecked(tx, rec)
	})
}

func insertMemberChecked(tx *gorm.DB, rec *domain.MemberRecord) error {
	var count int64
	if err := tx.Model(&domain.MemberRecord{}).
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

// CountMembers returns the number of archived members.
func CountMembers(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.MemberRecord{}).Count(&total).Error
	return total, err
}

// ListMembersPage returns a page of archived members, newest first.
func ListMembersPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.MemberRecord, error) {
	var out []domain.MemberRecord
	err := db.WithContext(ctx).
		Order("updated DESC, seq DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
