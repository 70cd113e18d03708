package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/streamgate/webshare-addon/internal/core/ports"
)

const adminTokenTTL = 12 * time.Hour

// AdminHandler exposes the administrative JSON API: one configured admin
// login, then device registration, revocation, expiry resets, external
// credential checks and the overview listing.
type AdminHandler struct {
	service   ports.AdminService
	username  string
	password  string
	jwtSecret string
}

func NewAdminHandler(service ports.AdminService, username, password, jwtSecret string) *AdminHandler {
	return &AdminHandler{
		service:   service,
		username:  username,
		password:  password,
		jwtSecret: jwtSecret,
	}
}

// --- Request / Response types ---

type adminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}

type registerDeviceRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	DeviceID   string `json:"device_id" validate:"required"`
	DaysValid  int    `json:"days_valid" validate:"required,min=1"`
	WSUsername string `json:"ws_username"`
	WSPassword string `json:"ws_password" validate:"required_with=WSUsername"`
}

type registerDeviceResponse struct {
	Token        string `json:"token"`
	DeviceID     string `json:"device_id"`
	ExpiresAt    string `json:"expires_at"`
	SessionReady bool   `json:"session_ready"`
	InstallPath  string `json:"install_path"`
}

type resetExpiryRequest struct {
	DaysValid int `json:"days_valid" validate:"required,min=1"`
}

type testCredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates the configured administrator and returns a bearer token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	claims := jwt.MapClaims{
		"username": req.Username,
		"role":     "admin",
		"exp":      time.Now().Add(adminTokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, adminLoginResponse{Token: token})
}

// RegisterDevice handles POST /admin/devices.
func (h *AdminHandler) RegisterDevice(c echo.Context) error {
	var req registerDeviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.RegisterDevice(c.Request().Context(), ports.RegisterDeviceInput{
		Username:   req.Username,
		Password:   req.Password,
		DeviceID:   req.DeviceID,
		DaysValid:  req.DaysValid,
		WSUsername: req.WSUsername,
		WSPassword: req.WSPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerDeviceResponse{
		Token:        result.Token,
		DeviceID:     result.DeviceID,
		ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
		SessionReady: result.SessionReady,
		InstallPath:  "/" + result.Token + "/" + result.DeviceID + "/manifest.json",
	})
}

// RevokeDevice handles DELETE /admin/devices/:token.
func (h *AdminHandler) RevokeDevice(c echo.Context) error {
	if err := h.service.RevokeDevice(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetExpiry handles PUT /admin/accounts/:username/expiry.
func (h *AdminHandler) ResetExpiry(c echo.Context) error {
	var req resetExpiryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	expiresAt, err := h.service.ResetExpiry(c.Request().Context(), c.Param("username"), req.DaysValid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"username":   c.Param("username"),
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// TestCredentials handles POST /admin/credentials/test — the plain yes/no
// signal over the derivation pipeline.
func (h *AdminHandler) TestCredentials(c echo.Context) error {
	var req testCredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	valid := h.service.TestCredentials(c.Request().Context(), req.Username, req.Password)
	return c.JSON(http.StatusOK, map[string]bool{"valid": valid})
}

// Overview handles GET /admin/overview.
func (h *AdminHandler) Overview(c echo.Context) error {
	rows, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	if rows == nil {
		rows = []ports.DeviceOverview{}
	}
	return c.JSON(http.StatusOK, map[string]any{"devices": rows})
}
