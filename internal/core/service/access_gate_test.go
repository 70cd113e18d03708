package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	clone := *account
	r.accounts[account.Username] = &clone
	return nil
}

func (r *stubAccountRepo) UpdateExpiry(_ context.Context, username string, expiresAt time.Time) error {
	a, ok := r.accounts[username]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.ExpiresAt = expiresAt
	return nil
}

type grantKey struct{ token, device string }

type stubGrantRepo struct {
	grants map[grantKey]*domain.DeviceGrant
}

func newStubGrantRepo() *stubGrantRepo {
	return &stubGrantRepo{grants: make(map[grantKey]*domain.DeviceGrant)}
}

func (r *stubGrantRepo) FindByTokenAndDevice(_ context.Context, token, deviceID string) (*domain.DeviceGrant, error) {
	g, ok := r.grants[grantKey{token, deviceID}]
	if !ok {
		return nil, domain.ErrGrantNotFound
	}
	clone := *g
	return &clone, nil
}

func (r *stubGrantRepo) Create(_ context.Context, grant *domain.DeviceGrant) error {
	clone := *grant
	r.grants[grantKey{grant.Token, grant.DeviceID}] = &clone
	return nil
}

func (r *stubGrantRepo) DeleteByToken(_ context.Context, token string) error {
	for k := range r.grants {
		if k.token == token {
			delete(r.grants, k)
			return nil
		}
	}
	return domain.ErrGrantNotFound
}

func (r *stubGrantRepo) ListAll(_ context.Context) ([]*domain.DeviceGrant, error) {
	var out []*domain.DeviceGrant
	for _, g := range r.grants {
		clone := *g
		out = append(out, &clone)
	}
	return out, nil
}

// ---------------------------------------------------------------------------

const (
	testDevice = "AA:BB:CC:DD:EE:FF"
	testToken  = "tok-1"
)

func newGateFixture(t *testing.T, expiresAt time.Time, credential string) (*AccessGate, *stubAccountRepo, *stubGrantRepo) {
	t.Helper()
	accounts := newStubAccountRepo()
	grants := newStubGrantRepo()

	accounts.accounts["alice"] = &domain.Account{
		Username:     "alice",
		PasswordHash: "x",
		ExpiresAt:    expiresAt,
	}
	grants.grants[grantKey{testToken, testDevice}] = &domain.DeviceGrant{
		Token:             testToken,
		DeviceID:          testDevice,
		Username:          "alice",
		SessionCredential: credential,
	}

	return NewAccessGate(accounts, grants, zerolog.Nop()), accounts, grants
}

func TestAccessGate_Success(t *testing.T) {
	now := time.Now()
	gate, _, _ := newGateFixture(t, now.Add(time.Hour), "wst-123")
	gate.now = func() time.Time { return now }

	cred, err := gate.Authorize(context.Background(), testToken, testDevice)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if cred != "wst-123" {
		t.Fatalf("credential = %q, want wst-123", cred)
	}
}

func TestAccessGate_LowercaseDeviceNormalized(t *testing.T) {
	now := time.Now()
	gate, _, _ := newGateFixture(t, now.Add(time.Hour), "wst-123")
	gate.now = func() time.Time { return now }

	if _, err := gate.Authorize(context.Background(), testToken, "aa:bb:cc:dd:ee:ff"); err != nil {
		t.Fatalf("Authorize should normalize device case: %v", err)
	}
}

func TestAccessGate_MalformedDevice(t *testing.T) {
	gate, _, _ := newGateFixture(t, time.Now().Add(time.Hour), "wst-123")

	_, err := gate.Authorize(context.Background(), testToken, "AABBCCDDEEFF")
	if !errors.Is(err, domain.ErrMalformedDevice) {
		t.Fatalf("err = %v, want ErrMalformedDevice", err)
	}
}

func TestAccessGate_UnknownGrant(t *testing.T) {
	gate, _, _ := newGateFixture(t, time.Now().Add(time.Hour), "wst-123")

	_, err := gate.Authorize(context.Background(), "other-token", testDevice)
	if !errors.Is(err, domain.ErrUnknownGrant) {
		t.Fatalf("err = %v, want ErrUnknownGrant", err)
	}
}

func TestAccessGate_ExpiredAccount(t *testing.T) {
	expiresAt := time.Now().Round(time.Millisecond)
	gate, _, _ := newGateFixture(t, expiresAt, "wst-123")

	// Just past expiry: rejected.
	gate.now = func() time.Time { return expiresAt.Add(time.Millisecond) }
	if _, err := gate.Authorize(context.Background(), testToken, testDevice); !errors.Is(err, domain.ErrAccountExpired) {
		t.Fatalf("err = %v, want ErrAccountExpired", err)
	}

	// One millisecond before expiry: still valid.
	gate.now = func() time.Time { return expiresAt.Add(-time.Millisecond) }
	if _, err := gate.Authorize(context.Background(), testToken, testDevice); err != nil {
		t.Fatalf("boundary authorize failed: %v", err)
	}

	// Exactly at expiry: still valid (expiry is strict "now > expiresAt").
	gate.now = func() time.Time { return expiresAt }
	if _, err := gate.Authorize(context.Background(), testToken, testDevice); err != nil {
		t.Fatalf("at-expiry authorize failed: %v", err)
	}
}

func TestAccessGate_MissingAccount(t *testing.T) {
	gate, accounts, _ := newGateFixture(t, time.Now().Add(time.Hour), "wst-123")
	delete(accounts.accounts, "alice")

	_, err := gate.Authorize(context.Background(), testToken, testDevice)
	if !errors.Is(err, domain.ErrAccountExpired) {
		t.Fatalf("err = %v, want ErrAccountExpired", err)
	}
}

func TestAccessGate_EmptyCredentialIsSuccess(t *testing.T) {
	now := time.Now()
	gate, _, _ := newGateFixture(t, now.Add(time.Hour), "")
	gate.now = func() time.Time { return now }

	cred, err := gate.Authorize(context.Background(), testToken, testDevice)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if cred != "" {
		t.Fatalf("credential = %q, want empty", cred)
	}
}
