package postgres

import (
	"time"
)

/*
 * 'User' is the chat-service's view of an account. Accounts are created and
 * verified by the auth-service; this table only needs enough to resolve a JWT
 * subject to a display name and to back the local login endpoint.
 */
type User struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Email        string    `gorm:"size:100;not null;uniqueIndex"`
	Username     string    `gorm:"size:50;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	MemberSince  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
