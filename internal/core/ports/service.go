package ports

import (
	"context"
	"time"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

// AccessGate authorizes inbound addon requests. Authorize returns the
// grant's session credential (possibly empty) on success, or one of
// domain.ErrMalformedDevice, domain.ErrUnknownGrant, domain.ErrAccountExpired.
// Read-only: safe to call on every request.
type AccessGate interface {
	Authorize(ctx context.Context, token, deviceID string) (string, error)
}

// StreamService resolves a media identifier into playable streams.
// The result is possibly empty, never an error: every downstream failure
// degrades to "no results".
type StreamService interface {
	Lookup(ctx context.Context, media domain.MediaID, credential string) []domain.Stream
}

// RegisterDeviceInput carries one admin device registration.
type RegisterDeviceInput struct {
	Username  string
	Password  string
	DeviceID  string
	DaysValid int
	// External service credentials; optional. When present, a session
	// credential is derived and stored on the grant.
	WSUsername string
	WSPassword string
}

// RegisterDeviceResult reports the issued token and whether a session
// credential could be derived for the device.
type RegisterDeviceResult struct {
	Token        string
	DeviceID     string
	ExpiresAt    time.Time
	SessionReady bool
}

// DeviceOverview is one row of the admin overview.
type DeviceOverview struct {
	Username     string    `json:"username"`
	ExpiresAt    time.Time `json:"expires_at"`
	DeviceID     string    `json:"device_id"`
	Token        string    `json:"token"`
	SessionReady bool      `json:"session_ready"`
	InstallPath  string    `json:"install_path"`
	Lookups      int64     `json:"lookups"`
}

// AdminService implements the administrative operations behind /admin.
type AdminService interface {
	RegisterDevice(ctx context.Context, input RegisterDeviceInput) (*RegisterDeviceResult, error)
	RevokeDevice(ctx context.Context, token string) error
	ResetExpiry(ctx context.Context, username string, daysValid int) (time.Time, error)
	// TestCredentials reports whether external credentials derive a valid
	// session credential. Only unexpected failures surface as errors.
	TestCredentials(ctx context.Context, username, password string) bool
	Overview(ctx context.Context) ([]DeviceOverview, error)
}
