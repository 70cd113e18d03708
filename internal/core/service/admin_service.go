package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamgate/webshare-addon/internal/core/domain"
	"github.com/streamgate/webshare-addon/internal/core/ports"
)

var ErrInvalidRegistration = errors.New("invalid registration input")

// AdminService implements the administrative operations: device
// registration, revocation, expiry resets and credential checks.
type AdminService struct {
	accounts ports.AccountRepository
	grants   ports.GrantRepository
	deriver  ports.CredentialDeriver
	usage    ports.UsageRecorder
	now      func() time.Time
	log      zerolog.Logger
}

func NewAdminService(
	accounts ports.AccountRepository,
	grants ports.GrantRepository,
	deriver ports.CredentialDeriver,
	usage ports.UsageRecorder,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		accounts: accounts,
		grants:   grants,
		deriver:  deriver,
		usage:    usage,
		now:      time.Now,
		log:      log,
	}
}

// RegisterDevice creates the account on first sight (bcrypt-hashed password,
// expiry anchored at now) and issues a fresh token for the device. When
// external credentials are supplied, the session credential is derived once,
// here; it is never refreshed afterwards. A failed derivation still creates
// the grant, just without a credential, and is reported via SessionReady.
func (s *AdminService) RegisterDevice(ctx context.Context, input ports.RegisterDeviceInput) (*ports.RegisterDeviceResult, error) {
	if input.Username == "" || input.Password == "" || input.DaysValid < 1 {
		return nil, ErrInvalidRegistration
	}
	if !domain.ValidDeviceID(input.DeviceID) {
		return nil, domain.ErrMalformedDevice
	}
	deviceID := domain.NormalizeDeviceID(input.DeviceID)

	account, err := s.accounts.FindByUsername(ctx, input.Username)
	if errors.Is(err, domain.ErrAccountNotFound) {
		hash, herr := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, fmt.Errorf("hash password: %w", herr)
		}
		account = &domain.Account{
			Username:     input.Username,
			PasswordHash: string(hash),
			ExpiresAt:    s.expiry(input.DaysValid),
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	var credential string
	if input.WSUsername != "" && input.WSPassword != "" {
		credential, err = s.deriver.Derive(ctx, input.WSUsername, input.WSPassword)
		if err != nil {
			s.log.Warn().Err(err).
				Str("username", input.Username).
				Msg("session credential derivation failed; grant created without one")
			credential = ""
		}
	}

	grant := &domain.DeviceGrant{
		Token:             uuid.NewString(),
		DeviceID:          deviceID,
		Username:          input.Username,
		SessionCredential: credential,
		CreatedAt:         s.now().UTC(),
	}
	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, err
	}

	return &ports.RegisterDeviceResult{
		Token:        grant.Token,
		DeviceID:     deviceID,
		ExpiresAt:    account.ExpiresAt,
		SessionReady: credential != "",
	}, nil
}

// RevokeDevice removes the grant for the given token.
func (s *AdminService) RevokeDevice(ctx context.Context, token string) error {
	return s.grants.DeleteByToken(ctx, token)
}

// ResetExpiry moves the account's expiry to now + daysValid days.
func (s *AdminService) ResetExpiry(ctx context.Context, username string, daysValid int) (time.Time, error) {
	if daysValid < 1 {
		return time.Time{}, ErrInvalidRegistration
	}
	expiresAt := s.expiry(daysValid)
	if err := s.accounts.UpdateExpiry(ctx, username, expiresAt); err != nil {
		return time.Time{}, err
	}
	return expiresAt, nil
}

// TestCredentials reports whether the external credentials derive a valid
// session credential. Any derivation failure reads as false.
func (s *AdminService) TestCredentials(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		return false
	}
	_, err := s.deriver.Derive(ctx, username, password)
	return err == nil
}

// Overview lists every grant with its owning account's expiry and its
// lookup usage, for the admin dashboard.
func (s *AdminService) Overview(ctx context.Context) ([]ports.DeviceOverview, error) {
	grants, err := s.grants.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]ports.DeviceOverview, 0, len(grants))
	for _, g := range grants {
		row := ports.DeviceOverview{
			Username:     g.Username,
			DeviceID:     g.DeviceID,
			Token:        g.Token,
			SessionReady: g.SessionCredential != "",
			InstallPath:  fmt.Sprintf("/%s/%s/manifest.json", g.Token, g.DeviceID),
		}
		if account, aerr := s.accounts.FindByUsername(ctx, g.Username); aerr == nil {
			row.ExpiresAt = account.ExpiresAt
		}
		if s.usage != nil {
			row.Lookups = s.usage.LookupCount(ctx, g.Token)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *AdminService) expiry(daysValid int) time.Time {
	return s.now().UTC().Add(time.Duration(daysValid) * 24 * time.Hour)
}
