package handlers

import (
	"log"

	"vlvt/services/after_hours"
	socketio_types "vlvt/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function to handle after_hours:join_chat. The caller's socket joins the
// match room iff the guard says the match is active and the caller is a
// participant; on any other verdict nothing is joined and the caller gets a
// structured failure.
func HandleJoinChat(client *socket.Socket, db *gorm.DB, userID string,
	limiter *after_hours.EventRateLimiter) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverFromPanic(client, "after_hours:join_chat", userID)

		payload, ack := parseArgs(args)
		matchID, _ := payload["matchId"].(string)

		if !limiter.Allow("after_hours:join_chat") {
			client.Emit("after_hours:rate_limited", gin.H{"event": "after_hours:join_chat"})
			return
		}

		if !after_hours.ValidMatchID(matchID) {
			respond(client, "after_hours:join_chat_result", ack,
				gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		access, _, err := after_hours.CheckMatchAccess(db, matchID, userID)
		if err != nil && err != after_hours.ErrInvalidMatchID {
			respond(client, "after_hours:join_chat_result", ack,
				gin.H{"success": false, "error": "Internal server error"})
			return
		}
		if access != after_hours.MatchActive {
			after_hours.LogDenied("after_hours:join_chat", userID, matchID, remoteAddr(client), access)
			respond(client, "after_hours:join_chat_result", ack, deniedPayload(access))
			return
		}

		client.Join(socket.Room(socketio_types.MatchRoom(matchID)))
		log.Printf("[JOIN-CHAT] User %s joined room for match %s", userID, matchID)

		respond(client, "after_hours:join_chat_result", ack,
			gin.H{"success": true, "matchId": matchID})
	}
}

// Function to handle after_hours:leave_chat. Leaving is always safe, so no
// guard runs here; only the id format is still checked.
func HandleLeaveChat(client *socket.Socket, userID string) func(args ...interface{}) {
	return func(args ...interface{}) {
		defer recoverFromPanic(client, "after_hours:leave_chat", userID)

		payload, ack := parseArgs(args)
		matchID, _ := payload["matchId"].(string)

		if !after_hours.ValidMatchID(matchID) {
			respond(client, "after_hours:leave_chat_result", ack,
				gin.H{"success": false, "error": "Invalid match id"})
			return
		}

		client.Leave(socket.Room(socketio_types.MatchRoom(matchID)))
		log.Printf("[LEAVE-CHAT] User %s left room for match %s", userID, matchID)

		respond(client, "after_hours:leave_chat_result", ack,
			gin.H{"success": true, "matchId": matchID})
	}
}
