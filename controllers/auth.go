package controllers

import (
	"net/http"
	"strings"

	"vlvt/middleware"
	models "vlvt/models/postgres"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// @Summary Log in and receive a JWT
// @Description Verifies credentials and returns a token accepted by every authenticated endpoint and by the socket.io handshake
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Account email"
// @Param password formData string true "Account password"
// @Success 200 {object} object{token=string,userId=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("email")
		password := c.PostForm("password")

		// Minimum input sanitizing
		if strings.Trim(email, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		token, err := middleware.GenerateToken(user.ID, user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.ID})
	}
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
