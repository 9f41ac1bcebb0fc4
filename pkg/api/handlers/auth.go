package handlers

import (
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/luminamkt/agencyhub/config"
	"github.com/luminamkt/agencyhub/pkg/api/errors"
	"github.com/luminamkt/agencyhub/pkg/auth"
	"github.com/luminamkt/agencyhub/pkg/metrics"
	"github.com/luminamkt/agencyhub/pkg/models"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	cfg       *config.Config
	metrics   *metrics.Metrics
	validator *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg *config.Config, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		cfg:       cfg,
		metrics:   m,
		validator: validator.New(),
	}
}

// Login godoc
// @Summary Dashboard login
// @Description Authenticate a dashboard user and issue a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse "Session token"
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errors.ValidationError(c, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return errors.ValidationError(c, err)
	}

	role, name, hash, ok := h.lookupUser(req.Username)
	if !ok || hash == "" || !auth.CheckPassword(hash, req.Password) {
		log.Printf("⚠️ Failed login attempt for username: %s", req.Username)
		h.metrics.RecordLoginAttempt(false)
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid username or password",
		})
	}

	token, err := auth.GenerateJWT(req.Username, role, name, h.cfg.JWTSecret, h.cfg.JWTExpirationHours)
	if err != nil {
		return errors.InternalError(c, err)
	}

	h.metrics.RecordLoginAttempt(true)

	return c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User: &models.SessionInfo{
			Username: req.Username,
			Role:     role,
			Name:     name,
		},
	})
}

// Me godoc
// @Summary Current session
// @Description Return the authenticated session's user info
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SessionInfo "Session user"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, ok := c.Get("username").(string)
	if !ok {
		return errors.UnauthorizedError(c, "no session")
	}
	role, _ := c.Get("role").(string)
	name, _ := c.Get("name").(string)

	return c.JSON(http.StatusOK, models.SessionInfo{
		Username: username,
		Role:     role,
		Name:     name,
	})
}

func (h *AuthHandler) lookupUser(username string) (role, name, hash string, ok bool) {
	switch {
	case username == h.cfg.AdminUsername:
		return auth.RoleAdmin, h.cfg.AdminName, h.cfg.AdminPasswordHash, true
	case h.cfg.TeamUsername != "" && username == h.cfg.TeamUsername:
		return auth.RoleTeam, h.cfg.TeamName, h.cfg.TeamPasswordHash, true
	}
	return "", "", "", false
}
