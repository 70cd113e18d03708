package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamgate/webshare-addon/internal/core/domain"
	"github.com/streamgate/webshare-addon/internal/core/ports"
)

// AccessGate validates (token, device) pairs against the grant and account
// stores. It owns the authorization decision; downstream components only
// ever see the session credential it hands out.
type AccessGate struct {
	accounts ports.AccountRepository
	grants   ports.GrantRepository
	now      func() time.Time
	log      zerolog.Logger
}

func NewAccessGate(accounts ports.AccountRepository, grants ports.GrantRepository, log zerolog.Logger) *AccessGate {
	return &AccessGate{
		accounts: accounts,
		grants:   grants,
		now:      time.Now,
		log:      log,
	}
}

// Authorize checks device format, grant existence and account expiry, in
// that order. On success it returns the grant's session credential, which
// may be empty when no external identity is configured for the device.
func (g *AccessGate) Authorize(ctx context.Context, token, deviceID string) (string, error) {
	if !domain.ValidDeviceID(deviceID) {
		return "", domain.ErrMalformedDevice
	}

	grant, err := g.grants.FindByTokenAndDevice(ctx, token, domain.NormalizeDeviceID(deviceID))
	if err != nil {
		if errors.Is(err, domain.ErrGrantNotFound) {
			return "", domain.ErrUnknownGrant
		}
		return "", err
	}

	account, err := g.accounts.FindByUsername(ctx, grant.Username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrAccountExpired
		}
		return "", err
	}
	if account.Expired(g.now()) {
		g.log.Debug().
			Str("username", account.Username).
			Time("expires_at", account.ExpiresAt).
			Msg("rejected expired account")
		return "", domain.ErrAccountExpired
	}

	return grant.SessionCredential, nil
}
