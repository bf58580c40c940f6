package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
)

/*
 * Wire contract for the after_hours events channel. The profile-service
 * publishes one JSON envelope per event; everything the bridge relays to
 * clients passes through ParseEventMessage first.
 */

// EventMessage is the envelope published on the Redis channel. Timestamp is
// informational only, it is never used for ordering or dedup.
type EventMessage struct {
	Type         string          `json:"type"`
	TargetUserID string          `json:"targetUserId"`
	Payload      json.RawMessage `json:"payload"`
	Timestamp    string          `json:"timestamp,omitempty"`
}

// Relay allow-list. Living server-side (never client-supplied) it prevents a
// malformed or compromised publisher from injecting arbitrary socket events.
var relayAllowList = map[string]struct{}{
	"after_hours:match":            {},
	"after_hours:no_matches":       {},
	"after_hours:match_expired":    {},
	"after_hours:session_expiring": {},
	"after_hours:session_expired":  {},
}

// AllowedEventType reports whether the bridge may relay this event type.
func AllowedEventType(eventType string) bool {
	_, ok := relayAllowList[eventType]
	return ok
}

var (
	ErrMissingType    = errors.New("event message missing type")
	ErrMissingTarget  = errors.New("event message missing targetUserId")
	ErrMissingPayload = errors.New("event message missing payload")
)

// ParseEventMessage validates one raw pub/sub message. Any error means the
// message is dropped (logged by the caller, never retried, never surfaced to
// a client).
func ParseEventMessage(raw string) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return nil, fmt.Errorf("invalid event message JSON: %w", err)
	}
	if msg.Type == "" {
		return nil, ErrMissingType
	}
	if msg.TargetUserID == "" {
		return nil, ErrMissingTarget
	}
	if len(msg.Payload) == 0 || string(msg.Payload) == "null" {
		return nil, ErrMissingPayload
	}
	if !AllowedEventType(msg.Type) {
		return nil, fmt.Errorf("event type %q not in relay allow-list", msg.Type)
	}
	return &msg, nil
}
