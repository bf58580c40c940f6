package socket_io

import (
	"log"
	"sync"
	"time"

	"vlvt/services/after_hours"
	"vlvt/services/notifications"
	"vlvt/services/redis"
	"vlvt/services/socket_io/handlers"
	socketio_types "vlvt/services/socket_io/types"
	socketio_utils "vlvt/services/socket_io/utils"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Interval between presence TTL refreshes, well under the key's 90s TTL so
// a single missed refresh doesn't flap a connected user to offline.
const presenceRefreshInterval = 30 * time.Second

// Start configures the socket.io server, registers the After Hours event
// surface for every authenticated connection and mounts the transport on the
// Gin router. The server is closed by main on shutdown.
func (sio *MySocketServer) Start(router *gin.Engine, db *gorm.DB,
	redisClient *redis.RedisClient, notifier *notifications.Notifier) {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and
	// 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.UserConnections = make(map[string]*socket.Socket)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		// Check if the client is authenticated
		success, userID, username := socketio_utils.VerifyUserConnection(client, db)
		if !success {
			return
		}

		(*socketio_types.SocketServer)(sio).AddConnection(userID, client)

		// Every connection sits in its own user room; relayed events and the
		// fan-out target this room, which also covers multi-device.
		client.Join(socket.Room(socketio_types.UserRoom(userID)))

		if err := redisClient.SetUserOnline(userID); err != nil {
			log.Printf("[CONNECT-WARN] Could not set presence for %s: %v", userID, err)
		}

		// The presence key carries a TTL so a crashed instance ages out;
		// a live connection has to keep refreshing it.
		presenceDone := make(chan struct{})
		stopPresence := sync.OnceFunc(func() { close(presenceDone) })
		go func() {
			ticker := time.NewTicker(presenceRefreshInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := redisClient.RefreshUserPresence(userID); err != nil {
						log.Printf("[PRESENCE-WARN] Could not refresh presence for %s: %v", userID, err)
					}
				case <-presenceDone:
					return
				}
			}
		}()

		log.Printf("[CONNECT] User connected: %s (%s), socket %s", userID, username, client.Id())

		// One limiter per connection; each event type is throttled
		// independently.
		limiter := after_hours.NewEventRateLimiter(nil)

		sioServer := (*socketio_types.SocketServer)(sio)

		client.On("after_hours:join_chat",
			handlers.HandleJoinChat(client, db, userID, limiter))

		client.On("after_hours:leave_chat",
			handlers.HandleLeaveChat(client, userID))

		client.On("after_hours:send_message",
			handlers.HandleSendMessage(client, db, userID, sioServer, notifier, limiter))

		client.On("after_hours:typing",
			handlers.HandleTyping(client, db, userID, sioServer, limiter))

		client.On("after_hours:mark_read",
			handlers.HandleMarkRead(client, db, userID, sioServer, limiter))

		client.On("disconnecting",
			handlers.HandleDisconnecting(client, userID, sioServer, redisClient, stopPresence))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}
