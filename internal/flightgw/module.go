package flightgw

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyworth-dev/flightgw/internal/flightgw/cache"
	"github.com/skyworth-dev/flightgw/internal/flightgw/inbound"
	"github.com/skyworth-dev/flightgw/internal/flightgw/provider"
	"github.com/skyworth-dev/flightgw/internal/flightgw/token"
	"github.com/skyworth-dev/flightgw/internal/flightgw/usecase"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgconfig"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgrouter"
)

type Dependency struct {
	Config pkgconfig.Config
	Router *pkgrouter.Router
	Redis  *redis.Client
}

func New(dep Dependency) error {
	baseURL := dep.Config.GetString("provider.amadeus.base_url")
	tokenURL := dep.Config.GetString("provider.amadeus.token_url")
	clientID := dep.Config.GetString("provider.amadeus.client_id")
	clientSecret := dep.Config.GetString("provider.amadeus.client_secret")
	if baseURL == "" || tokenURL == "" || clientID == "" || clientSecret == "" {
		return errors.New("provider.amadeus base_url, token_url, client_id and client_secret are required")
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}

	store := token.NewStore(dep.Redis, "amadeus")
	tokens := token.NewProvider(store, token.ProviderConfig{
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, httpClient)

	var amadeus provider.Provider = provider.NewAmadeusProvider(baseURL, tokens, httpClient)
	amadeus = provider.NewBreakerProvider(amadeus)
	if rateLimitMs := dep.Config.GetInt("modules.flight-search.provider.rate_limit_ms"); rateLimitMs > 0 {
		amadeus = provider.NewRateLimitedProvider(amadeus, time.Duration(rateLimitMs)*time.Millisecond)
	}
	providers := []provider.Provider{amadeus}

	cacheTTL := 10 * time.Minute
	if ttlSeconds := dep.Config.GetInt("modules.flight-search.cache.ttl_seconds"); ttlSeconds > 0 {
		cacheTTL = time.Duration(ttlSeconds) * time.Second
	}

	providerTimeout := 10 * time.Second
	if timeoutMs := dep.Config.GetInt("modules.flight-search.provider.timeout_ms"); timeoutMs > 0 {
		providerTimeout = time.Duration(timeoutMs) * time.Millisecond
	}

	maxRetries := 2
	if retries := dep.Config.GetInt("modules.flight-search.provider.max_retries"); retries > 0 {
		maxRetries = retries
	}

	uc := usecase.New(usecase.Dependency{
		Providers:          providers,
		Results:            cache.NewResults(dep.Redis, cacheTTL),
		ProviderTimeout:    providerTimeout,
		MaxProviderRetries: maxRetries,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, &redisPinger{rdb: dep.Redis})

	return nil
}

type redisPinger struct {
	rdb *redis.Client
}

func (p *redisPinger) Ping(ctx context.Context) error {
	return p.rdb.Ping(ctx).Err()
}
