package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxOrgID  = "org_id"
	ctxUserID = "user_id"
)

// Auth validates the bearer token issued by the identity provider and
// extracts the organization scope. Requests without an organization claim
// are sent back to onboarding by the frontend on 401.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		orgID, _ := claims["org_id"].(string)
		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No organization on profile"})
			return
		}

		userID, _ := claims["sub"].(string)

		c.Set(ctxOrgID, orgID)
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// InternalAuth guards worker callbacks and scheduled triggers with a shared
// secret.
func InternalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			slog.Warn("internal secret not configured, rejecting internal request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Internal endpoints disabled"})
			return
		}
		if c.GetHeader("X-Internal-Secret") != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid secret"})
			return
		}
		c.Next()
	}
}

func orgID(c *gin.Context) string {
	return c.GetString(ctxOrgID)
}
