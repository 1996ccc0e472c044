package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer"

// BearerToken returns the session token carried in an
// "Authorization: Bearer <token>" header, if any.
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
