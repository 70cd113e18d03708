package domain

import (
	"regexp"
	"strings"
	"time"
)

// Account is an addon subscription: one paying user, any number of devices.
// Created on first device registration, mutated only by expiry resets.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the account is past its expiry at instant now.
// The expiry instant itself is still valid.
func (a *Account) Expired(now time.Time) bool {
	return now.After(a.ExpiresAt)
}

// DeviceGrant ties one issued token to one physical player. The session
// credential is derived once at registration and never refreshed.
type DeviceGrant struct {
	Token             string    `json:"token"`
	DeviceID          string    `json:"device_id"`
	Username          string    `json:"username"`
	SessionCredential string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

// deviceIDPattern matches a colon-separated 6-byte hex MAC, case-insensitive.
var deviceIDPattern = regexp.MustCompile(`^[0-9A-F]{2}(?::[0-9A-F]{2}){5}$`)

// ValidDeviceID reports whether s is a well-formed device identifier.
func ValidDeviceID(s string) bool {
	return deviceIDPattern.MatchString(strings.ToUpper(s))
}

// NormalizeDeviceID upper-cases a device identifier so lookups are
// case-insensitive regardless of how the player reports its MAC.
func NormalizeDeviceID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
