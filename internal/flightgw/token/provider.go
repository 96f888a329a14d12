package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAuth marks a failed token exchange: network error, non-2xx status, or a
// malformed payload. Adapters treat it as "no results from this provider".
var ErrAuth = errors.New("token exchange failed")

// awaitInterval/awaitTimeout bound how long a caller that lost the refresh
// race polls the store for the winner's token before giving up.
const (
	awaitInterval = 50 * time.Millisecond
	awaitTimeout  = 2 * time.Second
)

type ProviderConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Provider owns the client-credentials refresh protocol against the upstream
// auth endpoint, consulting the durable Store before issuing a network call.
type Provider struct {
	store      *Store
	config     ProviderConfig
	httpClient *http.Client
	now        func() time.Time
}

func NewProvider(store *Store, config ProviderConfig, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Provider{
		store:      store,
		config:     config,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// EnsureToken returns a usable bearer token, refreshing it through the auth
// endpoint when the stored one is absent or inside the safety margin. Exactly
// one concurrent caller performs the refresh; the rest poll the store briefly
// for the winner's token instead of queueing on a lock.
func (p *Provider) EnsureToken(ctx context.Context) (string, error) {
	if tok, ok := p.store.Get(ctx); ok && tok.valid(p.now()) {
		return tok.AccessToken, nil
	}

	if !p.store.TryRefreshLock(ctx) {
		return p.awaitToken(ctx)
	}
	defer p.store.ReleaseRefreshLock(ctx)

	// A refresher that finished between our validity check and the lock
	// acquisition already did the work.
	if tok, ok := p.store.Get(ctx); ok && tok.valid(p.now()) {
		return tok.AccessToken, nil
	}

	tok, err := p.exchange(ctx)
	if err != nil {
		return "", err
	}

	if err := p.store.Put(ctx, tok); err != nil {
		// The token in hand is still good; the next caller refreshes again.
		slog.WarnContext(ctx, "token store write failed", "error", err)
	}
	slog.InfoContext(ctx, "refreshed provider access token", "expires_at", tok.ExpiresAt)

	return tok.AccessToken, nil
}

// awaitToken polls the store while another caller holds the refresh guard. If
// the wait deadline passes it settles for whatever the store has, stale or
// not, and only fails when the slot is entirely empty.
func (p *Provider) awaitToken(ctx context.Context) (string, error) {
	deadline := p.now().Add(awaitTimeout)
	ticker := time.NewTicker(awaitInterval)
	defer ticker.Stop()

	for {
		if tok, ok := p.store.Get(ctx); ok && tok.valid(p.now()) {
			return tok.AccessToken, nil
		}
		if p.now().After(deadline) {
			if tok, ok := p.store.Get(ctx); ok {
				return tok.AccessToken, nil
			}
			return "", fmt.Errorf("%w: refresh in progress, no stored token", ErrAuth)
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrAuth, ctx.Err())
		case <-ticker.C:
		}
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// exchange performs the client-credentials grant. On any failure nothing is
// written to the store; a partial token is worse than no token.
func (p *Provider) exchange(ctx context.Context) (Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.config.ClientID)
	form.Set("client_secret", p.config.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Token{}, fmt.Errorf("%w: create request: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := p.httpClient.Do(req)
	if err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return Token{}, fmt.Errorf("%w: unexpected status %d: %s", ErrAuth, res.StatusCode, string(body))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return Token{}, fmt.Errorf("%w: read response: %v", ErrAuth, err)
	}

	var payload tokenResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Token{}, fmt.Errorf("%w: decode response: %v", ErrAuth, err)
	}
	if payload.AccessToken == "" || payload.ExpiresIn <= 0 {
		return Token{}, fmt.Errorf("%w: response missing access_token or expires_in", ErrAuth)
	}

	return Token{
		AccessToken: payload.AccessToken,
		ExpiresAt:   p.now().Add(time.Duration(payload.ExpiresIn)*time.Second - SafetyMargin),
	}, nil
}
