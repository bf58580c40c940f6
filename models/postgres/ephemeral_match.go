package postgres

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
 * 'EphemeralMatch' is a time-boxed After Hours pairing of two users. Rows are
 * created by the profile-service's matching engine; the chat-service reads and
 * mutates them (save votes, declined_by) but does not own their lifecycle.
 * Expired rows are never deleted here, they just stop being active.
 */
type EphemeralMatch struct {
	ID         string     `gorm:"primaryKey;size:36"`
	UserID1    string     `gorm:"size:64;not null;uniqueIndex:idx_ephemeral_matches_pair"`
	UserID2    string     `gorm:"size:64;not null;uniqueIndex:idx_ephemeral_matches_pair"`
	ExpiresAt  time.Time  `gorm:"not null;index:idx_ephemeral_matches_expires"`
	DeclinedBy *string    `gorm:"size:64"`
	CreatedAt  time.Time  `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Messages []*EphemeralMessage `gorm:"foreignKey:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Votes    []*SaveVote         `gorm:"foreignKey:MatchID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// NormalizePair orders two user ids so the unordered pair maps to exactly one
// (user_id_1, user_id_2) combination, which is what the unique index is on.
func NormalizePair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// GORM hook: assign an id and normalize the pair before insert.
func (m *EphemeralMatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.UserID1, m.UserID2 = NormalizePair(m.UserID1, m.UserID2)
	return nil
}

func (m *EphemeralMatch) IsParticipant(userID string) bool {
	return m.UserID1 == userID || m.UserID2 == userID
}

// OtherParticipant returns the partner of userID. Callers must have checked
// IsParticipant first; for a non-participant it returns UserID1.
func (m *EphemeralMatch) OtherParticipant(userID string) string {
	if m.UserID1 == userID {
		return m.UserID2
	}
	return m.UserID1
}

// IsActiveAt implements the single activity rule:
// declined_by IS NULL AND expires_at > now.
func (m *EphemeralMatch) IsActiveAt(now time.Time) bool {
	return m.DeclinedBy == nil && m.ExpiresAt.After(now)
}
