// Persisted record models. These types are mapped with GORM and form the
// append-only record store the reconciliation paths converge on.
package domain

import "time"

// MessageRecord is one archived channel message. EntryID is the dedup key
// (see MessageID); the unique index is what makes the poll and push paths
// converge without duplicates even when both observe the same event.
//
// Columns mirror the original export sheet: timestamp, id, email, channel,
// text, raw.
type MessageRecord struct {
	Seq       int64     `json:"-"         gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `json:"timestamp" gorm:"not null;index"`
	EntryID   string    `json:"id"        gorm:"column:entry_id;type:varchar(64);not null;uniqueIndex"`
	Email     string    `json:"email"     gorm:"type:varchar(255)"`
	Channel   string    `json:"channel"   gorm:"type:varchar(255)"`
	Text      string    `json:"text"      gorm:"type:text"`
	Raw       string    `json:"raw"       gorm:"type:text"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the database table name for MessageRecord.
func (MessageRecord) TableName() string { return "slack_messages" }

// MemberRecord is one archived workspace member. EntryID is the Slack user
// id. Columns mirror the original member sheet: updated, id, email, name, raw.
type MemberRecord struct {
	Seq       int64     `json:"-"       gorm:"primaryKey;autoIncrement"`
	Updated   time.Time `json:"updated" gorm:"not null"`
	EntryID   string    `json:"id"      gorm:"column:entry_id;type:varchar(32);not null;uniqueIndex"`
	Email     string    `json:"email"   gorm:"type:varchar(255)"`
	Name      string    `json:"name"    gorm:"type:varchar(255)"`
	Raw       string    `json:"raw"     gorm:"type:text"`
	CreatedAt time.Time `json:"-"`
}

// TableName returns the database table name for MemberRecord.
func (MemberRecord) TableName() string { return "slack_members" }

// KVEntry is a single key/value pair in the durable blob store backing the
// task queue. A missing key is a normal condition, not an error.
type KVEntry struct {
	Key       string    `json:"key"   gorm:"primaryKey;type:varchar(128);column:key"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"-"`
}

// TableName returns the database table name for KVEntry.
func (KVEntry) TableName() string { return "kv_entries" }
