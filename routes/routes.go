package routes

import (
	"vlvt/controllers"
	"vlvt/services/notifications"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, notifier *notifications.Notifier) {
	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")

	api.GET("/health", controllers.Health)

	api.POST("/login", controllers.Login(db))

	afterHours := api.Group("/after-hours")
	{
		afterHours.GET("/messages/:matchId", controllers.GetAfterHoursMessages(db))

		afterHours.POST("/matches/:matchId/save", controllers.SaveAfterHoursMatch(db, notifier))

		afterHours.POST("/matches/:matchId/block", controllers.BlockAfterHoursMatch(db))

		afterHours.POST("/matches/:matchId/report", controllers.ReportAfterHoursMatch(db))
	}
}
