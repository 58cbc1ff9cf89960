package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-huddle/internal/infrastructure/identity"
)

// CtxUserID is the gin context key carrying the verified caller identity.
const CtxUserID = "userID"

// RequireAuth verifies the bearer token and stores the caller's user id in
// the request context. Handlers behind it can trust c.GetString(CtxUserID).
func RequireAuth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := verifier.Verify(bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}
		c.Set(CtxUserID, userID)
		c.Next()
	}
}
