package bridge

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"vlvt/services/redis"
	socketio_types "vlvt/services/socket_io/types"

	goredis "github.com/redis/go-redis/v9"
)

// How long the initial SUBSCRIBE may take before we give up and run degraded.
const subscribeTimeout = 10 * time.Second

// RoomEmitter is the one capability the bridge needs from the socket server.
// Kept as an interface so tests can inject a fake.
type RoomEmitter interface {
	EmitToRoom(room string, event string, payload interface{})
}

/*
 * EventBridge relays After Hours lifecycle events (match found, no matches,
 * expiry warnings) from the profile-service's Redis channel to connected
 * clients. Delivery is best-effort and at-most-once: if the target user has
 * no socket in their room the emit is a silent no-op, and a reconnecting
 * client re-fetches current state over REST instead of replaying events.
 *
 * The bridge is an owned resource held by main, not a package global, so
 * shutdown can close it explicitly and tests can build one around fakes.
 */
type EventBridge struct {
	rc      *redis.RedisClient
	channel string
	emitter RoomEmitter

	mu        sync.Mutex
	pubsub    *goredis.PubSub
	closeOnce sync.Once
}

func NewEventBridge(rc *redis.RedisClient, channel string, emitter RoomEmitter) *EventBridge {
	return &EventBridge{
		rc:      rc,
		channel: channel,
		emitter: emitter,
	}
}

// Initialize opens a dedicated subscriber connection and starts the relay
// loop. A failure here is non-fatal by design: the error is logged as a
// warning by the caller and chat keeps working, only the realtime relay for
// this one feature is degraded (clients fall back to REST polling).
func (b *EventBridge) Initialize() error {
	ctx, cancel := context.WithTimeout(b.rc.Ctx, subscribeTimeout)
	defer cancel()

	pubsub := b.rc.Client.Subscribe(b.rc.Ctx, b.channel)

	// Wait for the subscribe confirmation within the bounded timeout.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		log.Printf("[BRIDGE-WARN] Could not subscribe to %s: %v (relay degraded, REST fallback only)",
			b.channel, err)
		return err
	}

	b.mu.Lock()
	b.pubsub = pubsub
	b.mu.Unlock()

	go b.run(pubsub.Channel())

	log.Printf("[BRIDGE] Subscribed to Redis channel %s", b.channel)
	return nil
}

// run relays messages until the pub/sub channel is closed by Close().
func (b *EventBridge) run(messages <-chan *goredis.Message) {
	for msg := range messages {
		b.relay(msg.Payload)
	}
	log.Printf("[BRIDGE] Relay loop for %s stopped", b.channel)
}

// relay validates one raw message and forwards it to the target user's room.
// Malformed or unrecognized messages are dropped and logged, never retried
// and never visible to any client.
func (b *EventBridge) relay(raw string) {
	msg, err := ParseEventMessage(raw)
	if err != nil {
		log.Printf("[BRIDGE-DROP] Dropping message on %s: %v", b.channel, err)
		return
	}

	var payload interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[BRIDGE-DROP] Dropping message on %s: unreadable payload: %v", b.channel, err)
		return
	}

	// No socket in the room is a silent no-op, there is no queuing of missed
	// events for this ephemeral feature.
	b.emitter.EmitToRoom(socketio_types.UserRoom(msg.TargetUserID), msg.Type, payload)
}

// Close unsubscribes and tears down the subscriber connection. Idempotent and
// safe to call when Initialize never succeeded.
func (b *EventBridge) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		pubsub := b.pubsub
		b.pubsub = nil
		b.mu.Unlock()

		if pubsub == nil {
			return
		}
		if err := pubsub.Unsubscribe(b.rc.Ctx, b.channel); err != nil {
			log.Printf("[BRIDGE-WARN] Error unsubscribing from %s: %v", b.channel, err)
		}
		if err := pubsub.Close(); err != nil {
			log.Printf("[BRIDGE-WARN] Error closing subscriber for %s: %v", b.channel, err)
		}
		log.Printf("[BRIDGE] Subscriber for %s closed", b.channel)
	})
}
