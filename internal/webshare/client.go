// Package webshare integrates with the external file-search service: salted
// credential derivation, catalog search and per-file link resolution.
package webshare

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamgate/webshare-addon/internal/api/metrics"
	"github.com/streamgate/webshare-addon/internal/core/domain"
)

const (
	searchCategory = "video"
	statusOKMarker = "<status>OK</status>"

	// maxBody caps how much of a response body is read; the service's
	// answers are small XML documents.
	maxBody = 1 << 20
)

// Client talks to the service over plain HTTP GETs with query-string
// parameters. One instance is shared by all requests; it holds no
// per-request state.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// NewClient builds a client for the service at baseURL. Every call carries
// the given timeout; on expiry the call is treated like any other transport
// failure.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Search queries the catalog for files matching query. All failure modes
// degrade to an empty result: a missing credential short-circuits before any
// I/O, and transport or HTTP errors are logged and absorbed.
func (c *Client) Search(ctx context.Context, query, credential string, limit int) []domain.SearchCandidate {
	if credential == "" {
		return nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("wst", credential)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("category", searchCategory)

	body, err := c.get(ctx, "/api/search/", params, "search")
	if err != nil {
		c.log.Warn().Err(err).Str("query", query).Msg("webshare search failed")
		return nil
	}
	return parseCandidates(strings.NewReader(body))
}

// ResolveLink exchanges one candidate ident for a direct playback URL.
// Returns "" when the ident or credential is missing, when the response
// carries no link, or on any transport failure. Single attempt, no retry.
func (c *Client) ResolveLink(ctx context.Context, ident, credential string) string {
	if ident == "" || credential == "" {
		return ""
	}

	params := url.Values{}
	params.Set("ident", ident)
	params.Set("wst", credential)

	body, err := c.get(ctx, "/api/file_link/", params, "file_link")
	if err != nil {
		c.log.Warn().Err(err).Str("ident", ident).Msg("webshare link resolution failed")
		return ""
	}
	return strings.TrimSpace(firstField(strings.NewReader(body), "link"))
}

// Derive runs the salted double-hash challenge: fetch the account's salt,
// hash SHA1(salt + SHA1(password)) and verify the result against the
// "who am I" endpoint. The derived value is returned only once verified.
func (c *Client) Derive(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	saltParams := url.Values{}
	saltParams.Set("login", username)
	saltBody, err := c.get(ctx, "/api/salt/", saltParams, "salt")
	if err != nil {
		metrics.CredentialDerivationsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("fetch salt: %w", err)
	}
	salt := firstField(strings.NewReader(saltBody), "salt")
	if salt == "" {
		metrics.CredentialDerivationsTotal.WithLabelValues("no_salt").Inc()
		return "", domain.ErrSaltUnavailable
	}

	stage1 := sha1hex(password)
	candidate := sha1hex(salt + stage1)

	verifyParams := url.Values{}
	verifyParams.Set("wst", candidate)
	verifyBody, err := c.get(ctx, "/api/user_data/", verifyParams, "user_data")
	if err != nil {
		metrics.CredentialDerivationsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("verify credential: %w", err)
	}
	if !strings.Contains(verifyBody, statusOKMarker) {
		metrics.CredentialDerivationsTotal.WithLabelValues("rejected").Inc()
		return "", domain.ErrInvalidCredentials
	}

	metrics.CredentialDerivationsTotal.WithLabelValues("ok").Inc()
	return candidate, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, endpoint string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.WebshareRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.WebshareRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		metrics.WebshareRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return "", err
	}

	metrics.WebshareRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return string(body), nil
}

func sha1hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
