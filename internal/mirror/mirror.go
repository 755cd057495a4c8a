// Package mirror pushes profile changes to an external Supabase table.
//
// The mirror is strictly best-effort: the app is the source of truth, the
// external table is a convenience copy that other tooling reads. Sync
// returns an error like any other fallible operation, but every caller logs
// it and moves on — a mirror outage must never break a profile save. There
// are no retries; the next profile edit re-syncs everything anyway since the
// payload is the full current state.
package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// syncTimeout bounds how long a profile save can stall on the mirror call.
const syncTimeout = 5 * time.Second

// Client issues partial updates against the Supabase REST endpoint.
// The zero-value check in Configured lets callers wire a Client
// unconditionally and skip syncing when the env vars are absent.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a mirror client. baseURL is the Supabase project URL
// (no trailing slash needed); apiKey is the service key, sent both as the
// apikey header and the bearer credential. Either may be empty, which
// produces an unconfigured client whose Sync is a no-op.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: syncTimeout},
	}
}

// Configured reports whether the client has everything it needs to sync.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// payload is the partial-update body. ProfilePicture is omitted entirely
// when empty so the mirror keeps its existing value instead of being blanked.
type payload struct {
	Username       string `json:"username"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// SyncProfile PATCHes the mirror row keyed by email with the current
// username, bio, and photo URL.
//
// Returns nil without doing anything when the client is unconfigured or the
// account has no email (nothing to key on). Returns an error on network
// failure or a non-2xx response — the caller decides to log and continue.
func (c *Client) SyncProfile(ctx context.Context, email, username, bio, photoURL string) error {
	if !c.Configured() || email == "" {
		return nil
	}

	body, err := json.Marshal(payload{
		Username:       username,
		Bio:            bio,
		ProfilePicture: photoURL,
	})
	if err != nil {
		return fmt.Errorf("mirror: encoding payload: %w", err)
	}

	// Supabase REST filter syntax: ?email=eq.<value>
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?email=eq.%s", c.baseURL, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mirror: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	// Don't make Supabase echo the updated rows back — we discard them.
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mirror: syncing profile for %s: %w", email, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("mirror: sync for %s returned status %d", email, resp.StatusCode)
	}

	return nil
}
