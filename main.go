package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"vlvt/config"
	_ "vlvt/config/swagger"
	"vlvt/middleware"
	"vlvt/routes"
	"vlvt/services/bridge"
	"vlvt/services/notifications"
	"vlvt/services/redis"
	"vlvt/services/socket_io"
	socketio_types "vlvt/services/socket_io/types"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// @title VLVT chat-service API
// @version 1.0
// @description Gin-Gonic server for the VLVT After Hours chat-service
// @BasePath /
func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := config.ConnectGORM()
	if err != nil {
		log.Fatalf("Error connecting to PostgreSQL: %v", err)
	}
	log.Println("GORM Connected")

	// Only migrate in development or during deployment
	if os.Getenv("MIGRATE_POSTGRES") == "true" {
		log.Println("Migrating PostgreSQL database...")
		if err := config.MigrateDatabase(gormDB); err != nil {
			log.Printf("Warning: Database migration failed: %v", err)
			// Continue execution even if migration fails
		} else {
			log.Println("Database migrated successfully")
		}
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("Error reading GORM PostgreSQL instance: %v", err)
	}
	defer sqlDB.Close()

	redisClient, err := config.Connect_redis()
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redis.CloseRedis(redisClient)

	r := gin.Default()
	middleware.SetUpMiddleware(r)

	// Realtime server plus the fan-out everything emits through
	sio := socketio_types.NewSocketServer()
	var push notifications.PushSender
	if sender := notifications.NewHTTPPushSenderFromEnv(); sender != nil {
		push = sender
	}
	notifier := notifications.NewNotifier(sio, push, redisClient, gormDB)

	(*socket_io.MySocketServer)(sio).Start(r, gormDB, redisClient, notifier)

	// Relay bridge for profile-service events. A failed subscribe degrades
	// the relay only, the rest of the service keeps running.
	eventChannel := os.Getenv("AFTER_HOURS_CHANNEL")
	if eventChannel == "" {
		eventChannel = "after_hours:events"
	}
	eventBridge := bridge.NewEventBridge(redisClient, eventChannel, sio)
	if err := eventBridge.Initialize(); err != nil {
		log.Printf("Warning: After Hours event relay unavailable: %v", err)
	}

	routes.SetupRoutes(r, gormDB, notifier)

	// Shutdown order: stop accepting events, then the socket server, then
	// the shared connections (deferred above).
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		s := <-signalC
		log.Printf("Received signal %v, shutting down", s)
		eventBridge.Close()
		sio.Sio_server.Close(nil)
		redis.CloseRedis(redisClient)
		sqlDB.Close()
		os.Exit(0)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
