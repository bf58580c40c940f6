package socketio_utils

import (
	"fmt"

	"vlvt/middleware"
	models "vlvt/models/postgres"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"
)

// Function that verifies a socket.io client connection using JWT
// authentication. The user id comes from the verified token, never from a
// client-supplied payload field.
func VerifyUserConnection(client *socket.Socket, db *gorm.DB) (success bool, userID, username string) {
	// Checks if we have auth data in the connection
	authData, ok := client.Handshake().Auth.(map[string]interface{})
	if !ok {
		fmt.Println("No auth data provided in handshake!")
		client.Emit("error", gin.H{"error": "Authentication failed: missing auth data"})
		return false, "", ""
	}

	userID, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		fmt.Println("Error decoding JWT:", err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field and with the 'Bearer ' prefix.",
		})
		return false, "", ""
	}

	// Fetch the account to confirm it still exists
	var user models.User
	result := db.Where("id = ?", userID).First(&user)
	if result.Error != nil {
		fmt.Println("Error fetching user from database:", result.Error)
		client.Emit("error", gin.H{"error": "Authentication failed: could not find user"})
		return false, "", ""
	}

	return true, user.ID, user.Username
}
