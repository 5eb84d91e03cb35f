package routes_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-list/backend/internal/models"
	"go-task-list/backend/internal/routes"
	"go-task-list/backend/internal/services"
	"go-task-list/backend/testutil"
)

func newProtectedRouter(jwtService *services.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", routes.AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetInt("user_id"), "username": c.GetString("username")})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := services.NewJWTService(testutil.TestJWTSecret, time.Minute, time.Hour)
	tokens, err := jwtService.GenerateTokenPair(&models.User{ID: 7, Username: "alice"})
	require.NoError(t, err)

	otherSigner := services.NewJWTService("another-secret", time.Minute, time.Hour)
	forged, err := otherSigner.GenerateTokenPair(&models.User{ID: 7, Username: "alice"})
	require.NoError(t, err)

	r := newProtectedRouter(jwtService)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"valid access token", "Bearer " + tokens.Access, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"missing bearer prefix", tokens.Access, http.StatusUnauthorized},
		{"refresh token as bearer", "Bearer " + tokens.Refresh, http.StatusUnauthorized},
		{"wrong signing key", "Bearer " + forged.Access, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7,"username":"alice"}`, w.Body.String())
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	env := testutil.SetupTestRouter(t)

	w := testutil.PerformJSON(env.Router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	env.Pinger.Err = errors.New("database is down")
	w = testutil.PerformJSON(env.Router, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflightAllowsPatch(t *testing.T) {
	env := testutil.SetupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/tasks/1/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}
