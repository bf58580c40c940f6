package postgres

import (
	"time"

	"gorm.io/datatypes"
)

/*
 * 'NotificationRecord' is an audit row written by the notification fan-out,
 * one per delivered event. It exists for abuse investigation and support
 * tickets ("I never got the match notification"), not for redelivery: missed
 * realtime events are re-fetched over REST, never replayed from here.
 */
type NotificationRecord struct {
	ID           uint           `gorm:"primaryKey"`
	EventType    string         `gorm:"size:64;not null;index:idx_notification_records_type"`
	TargetUserID string         `gorm:"size:64;not null;index:idx_notification_records_target"`
	Payload      datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Pushed       bool           `gorm:"default:false"`
	CreatedAt    time.Time      `gorm:"default:CURRENT_TIMESTAMP"`
}

// Keep the table name explicit, the default pluralization is awkward here.
func (NotificationRecord) TableName() string {
	return "notification_records"
}
