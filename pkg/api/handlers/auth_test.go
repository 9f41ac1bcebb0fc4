package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/config"
	"github.com/luminamkt/agencyhub/pkg/auth"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	"github.com/luminamkt/agencyhub/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Prometheus collectors register globally, so the test binary gets one set
var testMetrics = metrics.New()

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	adminHash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)
	teamHash, err := auth.HashPassword("team-pass")
	require.NoError(t, err)
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		AdminUsername:      "admin",
		AdminPasswordHash:  adminHash,
		AdminName:          "Administrator",
		TeamUsername:       "team",
		TeamPasswordHash:   teamHash,
		TeamName:           "Team",
	}
}

func postLogin(h *AuthHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	h.Login(e.NewContext(req, rec))
	return rec
}

func TestLogin(t *testing.T) {
	h := NewAuthHandler(testConfig(t), testMetrics)

	t.Run("Success - Admin credentials issue an admin token", func(t *testing.T) {
		rec := postLogin(h, `{"username":"admin","password":"admin-pass"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		assert.Equal(t, auth.RoleAdmin, resp.User.Role)

		claims, err := auth.ValidateJWT(resp.Token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, auth.RoleAdmin, claims.Role)
	})

	t.Run("Success - Team credentials issue a team token", func(t *testing.T) {
		rec := postLogin(h, `{"username":"team","password":"team-pass"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, auth.RoleTeam, resp.User.Role)
	})

	t.Run("Failure - Wrong password", func(t *testing.T) {
		rec := postLogin(h, `{"username":"admin","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Failure - Unknown username", func(t *testing.T) {
		rec := postLogin(h, `{"username":"ghost","password":"admin-pass"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Failure - Missing fields", func(t *testing.T) {
		rec := postLogin(h, `{"username":"admin"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMe(t *testing.T) {
	h := NewAuthHandler(testConfig(t), testMetrics)

	t.Run("Success - Echoes the session identity", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("username", "admin")
		c.Set("role", auth.RoleAdmin)
		c.Set("name", "Administrator")

		require.NoError(t, h.Me(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		var info models.SessionInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, "admin", info.Username)
		assert.Equal(t, auth.RoleAdmin, info.Role)
	})

	t.Run("Failure - No session", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		rec := httptest.NewRecorder()

		h.Me(e.NewContext(req, rec))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
