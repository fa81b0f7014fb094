package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuardedRouter(t *testing.T) (*gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	verifier := NewTokenVerifier(testSecret)
	reached := false

	r := gin.New()
	r.GET("/admin/roster",
		RequireSession(verifier, "/admin/login"),
		func(c *gin.Context) {
			reached = true
			c.JSON(http.StatusOK, gin.H{
				"user_id": c.GetString(ContextUserID),
				"email":   c.GetString(ContextUserEmail),
			})
		})
	return r, &reached
}

func TestRequireSessionDeniesWithoutToken(t *testing.T) {
	r, reached := setupGuardedRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"bearer garbage", "Bearer not.a.jwt"},
		{"expired", "Bearer " + signToken(t, testSecret, staffClaims(time.Now().Add(-time.Minute)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			*reached = false
			req := httptest.NewRequest(http.MethodGet, "/admin/roster", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, *reached, "guarded handler must not run")

			var body struct {
				Success bool `json:"success"`
				Data    struct {
					LoginURL string `json:"login_url"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "/admin/login", body.Data.LoginURL, "response points at the login entry")
		})
	}
}

func TestRequireSessionPassesValidToken(t *testing.T) {
	r, reached := setupGuardedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/roster", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, staffClaims(time.Now().Add(time.Hour))))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *reached)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user-123", body["user_id"])
	assert.Equal(t, "staff@example.com", body["email"])
}

// Denial is stateless: hitting the guard repeatedly yields the same answer.
func TestRequireSessionDenialIsIdempotent(t *testing.T) {
	r, _ := setupGuardedRouter(t)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/admin/roster", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}
