package ports

import (
	"context"
	"time"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

// AccountRepository defines persistence operations for addon accounts.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	// UpdateExpiry replaces the account's expiry instant.
	UpdateExpiry(ctx context.Context, username string, expiresAt time.Time) error
}

// GrantRepository defines persistence operations for device grants.
type GrantRepository interface {
	// FindByTokenAndDevice looks up the grant keyed by the issued token and
	// the normalized device identifier.
	FindByTokenAndDevice(ctx context.Context, token, deviceID string) (*domain.DeviceGrant, error)
	Create(ctx context.Context, grant *domain.DeviceGrant) error
	DeleteByToken(ctx context.Context, token string) error
	ListAll(ctx context.Context) ([]*domain.DeviceGrant, error)
}
