package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	models "vlvt/models/postgres"
	socketio_types "vlvt/services/socket_io/types"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PushPolicy decides when the external push sender is invoked alongside the
// socket emit.
type PushPolicy int

const (
	// PushNever: realtime-only events (typing, read receipts).
	PushNever PushPolicy = iota
	// PushIfOffline: ordinary chat messages, pushed only when the recipient
	// has no live connection anywhere.
	PushIfOffline
	// PushAlways: rare, high-value transitions (partner saved, mutual save,
	// new match) are pushed regardless of online status.
	PushAlways
)

// RoomEmitter is what the fan-out needs from the socket server.
type RoomEmitter interface {
	EmitToRoom(room string, event string, payload interface{})
}

// PushSender hands a notification to the external push collaborator. Its
// failure must never affect the socket emit or the caller's acknowledgment.
type PushSender interface {
	Send(userID string, eventType string, payload interface{}) error
}

// Presence reports whether a user currently has a live socket connection on
// any instance.
type Presence interface {
	IsUserOnline(userID string) bool
}

/*
 * Notifier is the single fan-out point for After Hours events: one call
 * emits to the target's user room, optionally triggers a push, and writes an
 * audit row. Push and audit are fire-and-forget; only the emit is
 * synchronous with the caller.
 */
type Notifier struct {
	emitter  RoomEmitter
	push     PushSender
	presence Presence
	db       *gorm.DB
}

func NewNotifier(emitter RoomEmitter, push PushSender, presence Presence, db *gorm.DB) *Notifier {
	return &Notifier{
		emitter:  emitter,
		push:     push,
		presence: presence,
		db:       db,
	}
}

// Notify delivers one event to one user.
func (n *Notifier) Notify(eventType, targetUserID string, payload interface{}, policy PushPolicy) {
	n.emitter.EmitToRoom(socketio_types.UserRoom(targetUserID), eventType, payload)

	shouldPush := policy == PushAlways ||
		(policy == PushIfOffline && !n.presence.IsUserOnline(targetUserID))

	if shouldPush && n.push != nil {
		go func() {
			if err := n.push.Send(targetUserID, eventType, payload); err != nil {
				log.Printf("[PUSH-ERROR] Push for %s to %s failed: %v", eventType, targetUserID, err)
			}
		}()
	}

	go n.record(eventType, targetUserID, payload, shouldPush)
}

// record writes the audit row. Failures are logged and swallowed, the audit
// trail is best-effort.
func (n *Notifier) record(eventType, targetUserID string, payload interface{}, pushed bool) {
	if n.db == nil {
		return
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[NOTIFY-ERROR] Could not serialize payload for %s: %v", eventType, err)
		raw = []byte("{}")
	}
	rec := models.NotificationRecord{
		EventType:    eventType,
		TargetUserID: targetUserID,
		Payload:      datatypes.JSON(raw),
		Pushed:       pushed,
	}
	if err := n.db.Create(&rec).Error; err != nil {
		log.Printf("[NOTIFY-ERROR] Could not record notification %s for %s: %v",
			eventType, targetUserID, err)
	}
}

// HTTPPushSender posts notifications to the external push collaborator (the
// service that owns device tokens and FCM/APNs delivery).
type HTTPPushSender struct {
	endpoint string
	client   *http.Client
}

// NewHTTPPushSenderFromEnv returns nil when PUSH_SERVICE_URL is unset, which
// disables pushing without disabling the rest of the fan-out.
func NewHTTPPushSenderFromEnv() *HTTPPushSender {
	endpoint := os.Getenv("PUSH_SERVICE_URL")
	if endpoint == "" {
		log.Println("[PUSH] PUSH_SERVICE_URL not set, push notifications disabled")
		return nil
	}
	return &HTTPPushSender{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPPushSender) Send(userID string, eventType string, payload interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"userId":    userID,
		"eventType": eventType,
		"payload":   payload,
	})
	if err != nil {
		return err
	}
	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &PushHTTPError{Status: resp.StatusCode}
	}
	return nil
}

// PushHTTPError reports a non-2xx answer from the push collaborator.
type PushHTTPError struct {
	Status int
}

func (e *PushHTTPError) Error() string {
	return fmt.Sprintf("push service returned status %d", e.Status)
}
