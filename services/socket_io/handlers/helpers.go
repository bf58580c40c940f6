package handlers

import (
	"log"

	"vlvt/services/after_hours"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// parseArgs splits handler args into the object payload the client sent and
// the optional ack callback socket.io appends as the last argument.
func parseArgs(args []interface{}) (map[string]interface{}, func([]interface{}, error)) {
	var ack func([]interface{}, error)
	if len(args) > 0 {
		if cb, ok := args[len(args)-1].(func([]interface{}, error)); ok {
			ack = cb
			args = args[:len(args)-1]
		}
	}
	if len(args) == 0 {
		return nil, ack
	}
	payload, _ := args[0].(map[string]interface{})
	return payload, ack
}

// respond answers the caller: via the ack when one was requested, otherwise
// by emitting fallbackEvent to the caller's socket. This is the
// request/response leg; broadcasts to rooms are a separate concern.
func respond(client *socket.Socket, fallbackEvent string, ack func([]interface{}, error), payload gin.H) {
	if ack != nil {
		ack([]interface{}{payload}, nil)
		return
	}
	client.Emit(fallbackEvent, payload)
}

// recoverFromPanic keeps any panic inside a handler from crossing into the
// socket.io transport. The caller gets a structured failure, the cause goes
// to the log with correlation context.
func recoverFromPanic(client *socket.Socket, event, userID string) {
	if r := recover(); r != nil {
		log.Printf("[HANDLER-PANIC] event=%s user=%s socket=%s: %v", event, userID, client.Id(), r)
		client.Emit("error", gin.H{"success": false, "error": "Internal server error"})
	}
}

// remoteAddr extracts the originating address for abuse logging.
func remoteAddr(client *socket.Socket) string {
	if hs := client.Handshake(); hs != nil {
		return hs.Address
	}
	return ""
}

// deniedPayload maps a guard verdict to the client-facing error. Everything
// except expiry collapses into a generic "Unauthorized" so match ids cannot
// be probed for existence or membership; expiry is only ever reported to a
// confirmed participant.
func deniedPayload(access after_hours.MatchAccess) gin.H {
	if access == after_hours.MatchExpired {
		return gin.H{"success": false, "code": "MATCH_EXPIRED", "error": "Match has expired"}
	}
	return gin.H{"success": false, "error": "Unauthorized"}
}
