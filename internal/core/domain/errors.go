package domain

import "errors"

// Access-control failures. Fatal to the request; the transport layer maps
// each to a distinct HTTP status.
var ErrMalformedDevice = errors.New("malformed device identifier")
var ErrUnknownGrant = errors.New("unknown token/device pair")
var ErrAccountExpired = errors.New("account expired or missing")

// Credential-derivation failures, surfaced to the administrative caller.
var ErrSaltUnavailable = errors.New("no salt available for login")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Store lookup failures.
var ErrAccountNotFound = errors.New("account not found")
var ErrGrantNotFound = errors.New("device grant not found")
var ErrGrantExists = errors.New("device grant already exists")
