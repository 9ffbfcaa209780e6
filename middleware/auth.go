package middleware

import (
	"SnapPlate/config/database"
	"SnapPlate/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the Firebase ID token and puts the user identity
// on the context. Capture and order endpoints require it; unauthenticated
// calls never reach the scan state machine.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization token is required")
			return
		}
		idToken := strings.TrimPrefix(authHeader, "Bearer ")

		authClient := database.GetFirebaseAuthClient()
		token, err := authClient.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set("userId", token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set("userEmail", email)
		}
		c.Next()
	}
}
