package after_hours

import (
	"errors"
	"fmt"
	"strings"
	"time"

	models "vlvt/models/postgres"

	"gorm.io/gorm"
)

// Default page size for message history.
const MessagePageSize = 50

var (
	ErrEmptyMessage   = errors.New("message text cannot be empty")
	ErrMessageTooLong = fmt.Errorf("message text cannot exceed %d characters", models.MaxMessageLength)
)

// ValidateMessageText trims and bounds-checks a message before any I/O
// happens. Returns the trimmed text that will actually be stored.
func ValidateMessageText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if len(trimmed) > models.MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return trimmed, nil
}

// InsertMessage persists one message. The caller has already passed the guard
// for this match; the active-check and this insert are deliberately two steps
// (a match expiring in between is an accepted narrow race, see DESIGN.md).
func InsertMessage(db *gorm.DB, matchID, senderID, text string) (*models.EphemeralMessage, error) {
	message := models.EphemeralMessage{
		MatchID:  matchID,
		SenderID: senderID,
		Text:     text,
	}
	if err := db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("error inserting message: %w", err)
	}
	return &message, nil
}

// FetchMessages returns up to limit messages for a match, newest first,
// optionally only those strictly older than the cursor.
func FetchMessages(db *gorm.DB, matchID string, before *time.Time, limit int) ([]models.EphemeralMessage, error) {
	if limit <= 0 || limit > MessagePageSize {
		limit = MessagePageSize
	}

	query := db.Where("match_id = ?", matchID)
	if before != nil {
		query = query.Where("created_at < ?", *before)
	}

	var messages []models.EphemeralMessage
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("error fetching messages: %w", err)
	}
	return messages, nil
}

// DeclineMatch writes declined_by for a block or report. Idempotent for the
// same user; a match declined by the other side stays declined by them.
func DeclineMatch(db *gorm.DB, matchID, userID string) error {
	res := db.Model(&models.EphemeralMatch{}).
		Where("id = ? AND declined_by IS NULL", matchID).
		Update("declined_by", userID)
	if res.Error != nil {
		return fmt.Errorf("error declining match: %w", res.Error)
	}
	return nil
}
