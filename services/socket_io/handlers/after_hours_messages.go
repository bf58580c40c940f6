package handlers

import (
	"log"
	"time"

	"vlvt/services/after_hours"
	"vlvt/services/notifications"
	socketio_types "vlvt/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function to handle after_hours:send_message. The flow is: validate text
// before any I/O, pass the guard, insert, acknowledge the sender after the
// insert commits, then broadcast the persisted message to the recipient's
// user room and the match room (covers the recipient's other devices).
//
// The active-check and the insert are two separate steps; a match can expire
// or be declined in between. That narrow window is an accepted tradeoff (a
// message landing seconds after expiry), not something this handler closes
// with a transaction.
func HandleSendMessage(client *socket.Socket, db *gorm.DB, userID string,
	sio *socketio_types.SocketServer, notifier *notifications.Notifier,
	limiter *after_hours.EventRateLimiter) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverFromPanic(client, "after_hours:send_message", userID)

		payload, ack := parseArgs(args)
		matchID, _ := payload["matchId"].(string)
		text, _ := payload["text"].(string)
		tempID, _ := payload["tempId"].(string)

		if !limiter.Allow("after_hours:send_message") {
			client.Emit("after_hours:rate_limited", gin.H{"event": "after_hours:send_message"})
			return
		}

		if !after_hours.ValidMatchID(matchID) {
			respond(client, "after_hours:message_sent", ack,
				gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		trimmed, err := after_hours.ValidateMessageText(text)
		if err != nil {
			respond(client, "after_hours:message_sent", ack,
				gin.H{"success": false, "error": err.Error()})
			return
		}

		access, match, err := after_hours.CheckMatchAccess(db, matchID, userID)
		if err != nil {
			respond(client, "after_hours:message_sent", ack,
				gin.H{"success": false, "error": "Internal server error"})
			return
		}
		if access != after_hours.MatchActive {
			after_hours.LogDenied("after_hours:send_message", userID, matchID, remoteAddr(client), access)
			respond(client, "after_hours:message_sent", ack, deniedPayload(access))
			return
		}

		message, err := after_hours.InsertMessage(db, matchID, userID, trimmed)
		if err != nil {
			log.Printf("[SEND-ERROR] User %s, match %s: %v", userID, matchID, err)
			respond(client, "after_hours:message_sent", ack,
				gin.H{"success": false, "error": "Could not send message"})
			return
		}

		broadcast := gin.H{
			"id":        message.ID,
			"matchId":   message.MatchID,
			"senderId":  message.SenderID,
			"text":      message.Text,
			"timestamp": message.CreatedAt,
		}
		if tempID != "" {
			broadcast["tempId"] = tempID
		}

		// Acknowledge the sender first (the insert has committed), then fan
		// out. Delivery order to the room follows commit order, not receipt
		// order.
		respond(client, "after_hours:message_sent", ack,
			gin.H{"success": true, "message": broadcast})

		recipient := match.OtherParticipant(userID)
		notifier.Notify("after_hours:new_message", recipient, broadcast, notifications.PushIfOffline)
		sio.EmitToRoom(socketio_types.MatchRoom(matchID), "after_hours:new_message", broadcast)
	}
}

// Function to handle after_hours:typing. Pure presence: relayed to the other
// participant's user room, never persisted.
func HandleTyping(client *socket.Socket, db *gorm.DB, userID string,
	sio *socketio_types.SocketServer,
	limiter *after_hours.EventRateLimiter) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverFromPanic(client, "after_hours:typing", userID)

		payload, _ := parseArgs(args)
		matchID, _ := payload["matchId"].(string)
		isTyping, _ := payload["isTyping"].(bool)

		if !limiter.Allow("after_hours:typing") {
			client.Emit("after_hours:rate_limited", gin.H{"event": "after_hours:typing"})
			return
		}

		if !after_hours.ValidMatchID(matchID) {
			client.Emit("error", gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		access, match, err := after_hours.CheckMatchAccess(db, matchID, userID)
		if err != nil || access != after_hours.MatchActive {
			after_hours.LogDenied("after_hours:typing", userID, matchID, remoteAddr(client), access)
			client.Emit("error", gin.H{"success": false, "error": "Unauthorized"})
			return
		}

		sio.EmitToRoom(socketio_types.UserRoom(match.OtherParticipant(userID)),
			"after_hours:user_typing", gin.H{
				"matchId":  matchID,
				"userId":   userID,
				"isTyping": isTyping,
			})
	}
}

// Function to handle after_hours:mark_read. Read receipts are ephemeral like
// typing: the partner gets a server-stamped event, nothing is stored.
func HandleMarkRead(client *socket.Socket, db *gorm.DB, userID string,
	sio *socketio_types.SocketServer,
	limiter *after_hours.EventRateLimiter) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverFromPanic(client, "after_hours:mark_read", userID)

		payload, _ := parseArgs(args)
		matchID, _ := payload["matchId"].(string)

		var messageIDs []string
		if rawIDs, ok := payload["messageIds"].([]interface{}); ok {
			for _, raw := range rawIDs {
				if id, ok := raw.(string); ok {
					messageIDs = append(messageIDs, id)
				}
			}
		}

		if !limiter.Allow("after_hours:mark_read") {
			client.Emit("after_hours:rate_limited", gin.H{"event": "after_hours:mark_read"})
			return
		}

		if !after_hours.ValidMatchID(matchID) {
			client.Emit("error", gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		access, match, err := after_hours.CheckMatchAccess(db, matchID, userID)
		if err != nil || access != after_hours.MatchActive {
			after_hours.LogDenied("after_hours:mark_read", userID, matchID, remoteAddr(client), access)
			client.Emit("error", gin.H{"success": false, "error": "Unauthorized"})
			return
		}

		sio.EmitToRoom(socketio_types.UserRoom(match.OtherParticipant(userID)),
			"after_hours:messages_read", gin.H{
				"matchId":    matchID,
				"messageIds": messageIDs,
				"readBy":     userID,
				"readAt":     time.Now().UTC(),
			})
	}
}
