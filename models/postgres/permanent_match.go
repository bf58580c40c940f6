package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'PermanentMatch' is the durable match an EphemeralMatch converts into when
 * both sides vote to save it. The unique index on EphemeralMatchID is the
 * exactly-once anchor for conversion: two concurrent second votes race on the
 * insert and exactly one wins, the loser reads the winner's row.
 */
type PermanentMatch struct {
	ID               string    `gorm:"primaryKey;size:36"`
	EphemeralMatchID string    `gorm:"size:36;not null;uniqueIndex:idx_permanent_matches_source"`
	UserID1          string    `gorm:"size:64;not null;uniqueIndex:idx_permanent_matches_pair"`
	UserID2          string    `gorm:"size:64;not null;uniqueIndex:idx_permanent_matches_pair"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Messages []*PermanentMessage `gorm:"foreignKey:PermanentMatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (m *PermanentMatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.UserID1, m.UserID2 = NormalizePair(m.UserID1, m.UserID2)
	return nil
}
