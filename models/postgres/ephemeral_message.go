package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hard cap on message length, checked before any insert.
const MaxMessageLength = 2000

/*
 * 'EphemeralMessage' is one chat message inside an EphemeralMatch. Messages
 * are insert-only; they are copied into PermanentMessage on a mutual save and
 * otherwise age out with their match.
 */
type EphemeralMessage struct {
	ID        string    `gorm:"primaryKey;size:36"`
	MatchID   string    `gorm:"size:36;not null;index:idx_ephemeral_messages_match"`
	SenderID  string    `gorm:"size:64;not null"`
	Text      string    `gorm:"size:2000;not null"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_ephemeral_messages_created"`
}

func (m *EphemeralMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
