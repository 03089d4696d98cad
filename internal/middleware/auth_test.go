package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yourusername/video-sharing-platform/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authTestRouter(jwtSvc *service.JWTService, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/protected", RequireAuth(jwtSvc), handler)
	router.GET("/open", OptionalAuth(jwtSvc), handler)
	return router
}

func TestRequireAuth(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	userID := primitive.NewObjectID()

	router := authTestRouter(jwtSvc, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": CallerID(c).Hex()})
	})

	t.Run("valid bearer token passes and resolves caller", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateAccessToken(userID.Hex(), "chai@example.com", "chai")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.Hex())
	})

	t.Run("cookie token also passes", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateAccessToken(userID.Hex(), "chai@example.com", "chai")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	jwtSvc := service.NewJWTService("test-secret", 15*time.Minute, time.Hour)
	userID := primitive.NewObjectID()

	router := authTestRouter(jwtSvc, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"caller": CallerID(c).Hex()})
	})

	t.Run("anonymous request passes with nil caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), primitive.NilObjectID.Hex())
	})

	t.Run("valid token personalizes the caller", func(t *testing.T) {
		token, _, err := jwtSvc.GenerateAccessToken(userID.Hex(), "chai@example.com", "chai")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.Hex())
	})

	t.Run("invalid token degrades to anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set("Authorization", "Bearer nope")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), primitive.NilObjectID.Hex())
	})
}
