package handlers

import (
	"log"

	"vlvt/services/redis"
	socketio_types "vlvt/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle socket.io client disconnections. Room memberships die
// with the connection (a reconnecting client re-joins explicitly), so the
// cleanup here is this socket's map entry, its presence refresher and one
// decrement of the connection-counted presence key. A second device keeps
// the user online.
func HandleDisconnecting(client *socket.Socket, userID string,
	sio *socketio_types.SocketServer, redisClient *redis.RedisClient,
	stopPresence func()) func(args ...interface{}) {
	return func(args ...interface{}) {
		log.Printf("[DISCONNECT] User disconnecting: %s", userID)

		stopPresence()
		sio.RemoveConnection(userID, client)

		if redisClient != nil {
			if err := redisClient.SetUserOffline(userID); err != nil {
				log.Printf("[DISCONNECT-ERROR] Could not clear presence for %s: %v", userID, err)
			}
		}

		log.Printf("[DISCONNECT-DONE] User disconnected: %s", userID)
	}
}
