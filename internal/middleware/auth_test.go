package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", Auth(), func(c *gin.Context) {
		id, _ := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"userId": id, "role": GetUserRole(c)})
	})
	router.GET("/admin", Auth(), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("MissingHeader", func(t *testing.T) {
		router := authRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		router := authRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		router := authRouter(t)

		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": 7,
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("ValidToken", func(t *testing.T) {
		router := authRouter(t)

		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": 7,
			"email":   "buyer@example.com",
			"role":    "CUSTOMER",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":7`)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		router := authRouter(t)

		token := signToken(t, "other-secret", jwt.MapClaims{
			"user_id": 7,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("CustomerForbidden", func(t *testing.T) {
		router := authRouter(t)

		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": 7,
			"role":    "CUSTOMER",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		router := authRouter(t)

		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": 1,
			"role":    "ADMIN",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
