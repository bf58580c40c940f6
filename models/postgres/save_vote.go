package postgres

import (
	"time"
)

/*
 * 'SaveVote' records one user's intent to keep an EphemeralMatch. The
 * composite primary key makes a second vote from the same user a conflict,
 * which is how RecordSaveVote stays idempotent without in-process locking.
 */
type SaveVote struct {
	MatchID   string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:64"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
