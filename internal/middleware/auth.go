package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/service"
)

const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextEmail    = "user_email"

	accessTokenCookie = "accessToken"
)

// RequireAuth validates the access token and puts the caller's identity in
// the gin context. The token comes from the Authorization header or, for
// browser clients, the accessToken cookie.
func RequireAuth(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "unauthorized request",
				"success":    false,
			})
			c.Abort()
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"statusCode": http.StatusUnauthorized,
				"message":    "invalid or expired token",
				"success":    false,
			})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth sets the caller's identity when a valid token is present and
// continues anonymously otherwise. Read endpoints use it to personalize
// viewer flags.
func OptionalAuth(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractToken(c); tokenString != "" {
			if claims, err := jwtSvc.ValidateToken(tokenString); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUsername, claims.Username)
				c.Set(ContextEmail, claims.Email)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CallerID returns the authenticated caller's id, or NilObjectID for
// anonymous requests.
func CallerID(c *gin.Context) primitive.ObjectID {
	raw, ok := c.Get(ContextUserID)
	if !ok {
		return primitive.NilObjectID
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
