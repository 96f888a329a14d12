package provider

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

type rateLimitedProvider struct {
	provider Provider
	limiter  *rate.Limiter
}

// NewRateLimitedProvider spaces Search calls at most one per interval, blocking
// only until the caller's context is done.
func NewRateLimitedProvider(p Provider, interval time.Duration) Provider {
	if interval <= 0 {
		return p
	}
	return &rateLimitedProvider{
		provider: p,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (r *rateLimitedProvider) Name() string {
	return r.provider.Name()
}

func (r *rateLimitedProvider) Supports(query entity.Query) bool {
	return r.provider.Supports(query)
}

func (r *rateLimitedProvider) Search(ctx context.Context, query entity.Query) ([]entity.Flight, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Search(ctx, query)
}
