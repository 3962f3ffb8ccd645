package eventstore

import (
	"time"

	"gorm.io/gorm"
)

// Record is one journaled engine event.
type Record struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Type       string `gorm:"size:64;index"`
	Campaign   string `gorm:"size:66;index"`
	Attributes string `gorm:"type:text"`
	CreatedAt  time.Time
}

// IdempotencyKey stores the response of a mutating RPC call so a retried
// request replays it instead of executing twice. Keys are scoped per caller.
type IdempotencyKey struct {
	Caller    string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"primaryKey;size:128"`
	RequestID string `gorm:"size:64"`
	Method    string `gorm:"size:64"`
	Response  string `gorm:"type:text"`
	CreatedAt time.Time
}

// AutoMigrate performs the schema migrations for the journal.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Record{},
		&IdempotencyKey{},
	)
}
