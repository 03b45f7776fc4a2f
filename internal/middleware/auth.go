package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Gin context keys set by Auth.
const (
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
	UserRoleKey  = "userRole"
)

const RoleAdmin = "ADMIN"

// Auth verifies the bearer token and stores the caller identity in the
// gin context. Requests without a valid token are rejected with 401.
func Auth() gin.HandlerFunc {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			return
		}

		if uid, ok := claims["user_id"].(float64); ok {
			c.Set(UserIDKey, int(uid))
		}
		if email, ok := claims["email"].(string); ok {
			c.Set(UserEmailKey, email)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(UserRoleKey, role)
		}

		c.Next()
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id from the gin context.
func GetUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// GetUserRole returns the authenticated role, or "" when anonymous.
func GetUserRole(c *gin.Context) string {
	v, ok := c.Get(UserRoleKey)
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return role
}

// GetUserEmail returns the authenticated email, or "" when anonymous.
func GetUserEmail(c *gin.Context) string {
	v, ok := c.Get(UserEmailKey)
	if !ok {
		return ""
	}
	email, _ := v.(string)
	return email
}
