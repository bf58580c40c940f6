package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'PermanentMessage' is the copy target for conversion: on a mutual save every
 * EphemeralMessage of the match is copied here so the conversation survives
 * the After Hours window. SentAt preserves the original created_at so history
 * keeps its order.
 */
type PermanentMessage struct {
	ID               string    `gorm:"primaryKey;size:36"`
	PermanentMatchID string    `gorm:"size:36;not null;index:idx_permanent_messages_match"`
	SenderID         string    `gorm:"size:64;not null"`
	Text             string    `gorm:"size:2000;not null"`
	SentAt           time.Time `gorm:"not null"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (m *PermanentMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
