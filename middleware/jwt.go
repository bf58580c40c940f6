package middleware

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Tokens are issued by the auth-service; the chat-service only needs the
// shared secret to verify them.
func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// Claims carried in every VLVT token. Subject is the user id.
type UserClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed JWT for a user. Used by the local login
// endpoint; in production tokens come from the auth-service with the same
// shape and secret.
func GenerateToken(userID, email string) (string, error) {
	claims := UserClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func parseToken(tokenString string) (string, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// JWT_decoder extracts the authenticated user id from a REST request's
// "Authorization: Bearer ..." header.
func JWT_decoder(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return "", errors.New("Authorization header must use the Bearer scheme")
	}
	return parseToken(tokenString)
}

// Socketio_JWT_decoder extracts the authenticated user id from a socket.io
// handshake's auth data. Same token, different envelope.
func Socketio_JWT_decoder(authData map[string]interface{}) (string, error) {
	raw, ok := authData["authorization"].(string)
	if !ok || raw == "" {
		return "", errors.New("missing authorization token")
	}
	tokenString := strings.TrimPrefix(raw, "Bearer ")
	return parseToken(tokenString)
}
