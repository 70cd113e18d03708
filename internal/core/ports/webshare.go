package ports

import (
	"context"

	"github.com/streamgate/webshare-addon/internal/core/domain"
)

// Searcher queries the external catalog for candidate files.
// Failures are absorbed by the implementation: no credential, transport
// errors and unparsable bodies all yield an empty slice, never an error.
type Searcher interface {
	Search(ctx context.Context, query, credential string, limit int) []domain.SearchCandidate
}

// LinkResolver turns one candidate ident into a direct playback URL.
// Returns "" when the ident or credential is missing, when the endpoint
// yields no link, or on any transport failure. Single attempt, no retry.
type LinkResolver interface {
	ResolveLink(ctx context.Context, ident, credential string) string
}

// CredentialDeriver exchanges external account credentials for the service's
// session credential. Returns domain.ErrSaltUnavailable when no salt can be
// obtained and domain.ErrInvalidCredentials when verification rejects the
// derived value; an unverified credential is never returned.
type CredentialDeriver interface {
	Derive(ctx context.Context, username, password string) (string, error)
}

// UsageRecorder counts stream lookups per issued token. Best effort:
// implementations log failures instead of returning them to the caller.
type UsageRecorder interface {
	RecordLookup(ctx context.Context, token string)
	LookupCount(ctx context.Context, token string) int64
}
