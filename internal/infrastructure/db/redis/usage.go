package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// UsageMeter counts stream lookups per issued token in Redis.
// Key format: usage:<token>. Counters never expire; they feed the admin
// overview, not billing, so best effort is enough: every failure is logged
// and swallowed.
type UsageMeter struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewUsageMeter creates a UsageMeter wrapping the given Redis client.
func NewUsageMeter(client *redis.Client, log zerolog.Logger) *UsageMeter {
	return &UsageMeter{client: client, log: log}
}

// RecordLookup increments the lookup counter for token.
func (m *UsageMeter) RecordLookup(ctx context.Context, token string) {
	if err := m.client.Incr(ctx, m.key(token)).Err(); err != nil {
		m.log.Warn().Err(err).Msg("usage counter increment failed")
	}
}

// LookupCount returns the current counter for token, 0 when absent or on error.
func (m *UsageMeter) LookupCount(ctx context.Context, token string) int64 {
	n, err := m.client.Get(ctx, m.key(token)).Int64()
	if err != nil && err != redis.Nil {
		m.log.Warn().Err(err).Msg("usage counter read failed")
	}
	return n
}

func (m *UsageMeter) key(token string) string {
	return fmt.Sprintf("usage:%s", token)
}
