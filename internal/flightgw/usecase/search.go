package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
	"github.com/skyworth-dev/flightgw/internal/flightgw/provider"
)

type SearchOutput struct {
	Flights  []entity.Flight
	Metadata SearchMetadata
}

type SearchMetadata struct {
	TotalResults     int
	ProvidersQueried int
	SearchTimeMs     int64
	CacheHit         bool
}

// SearchFlights runs the pipeline: result cache, provider fan-out, filter,
// intent ranking, truncation. It never fails; provider, auth, and mapping
// problems surface only as fewer or zero results.
func (u *Usecase) SearchFlights(ctx context.Context, query entity.Query) (*SearchOutput, error) {
	start := time.Now()

	flights, cacheHit := u.results.GetOrCompute(ctx, query, func(ctx context.Context) []entity.Flight {
		return u.aggregate(ctx, query)
	})

	return &SearchOutput{
		Flights: flights,
		Metadata: SearchMetadata{
			TotalResults:     len(flights),
			ProvidersQueried: len(u.providers),
			SearchTimeMs:     time.Since(start).Milliseconds(),
			CacheHit:         cacheHit,
		},
	}, nil
}

func (u *Usecase) aggregate(ctx context.Context, query entity.Query) []entity.Flight {
	flights := u.collectFlights(ctx, query)
	flights = filterFlights(flights, query)
	flights = applyIntent(flights, query.NormalizedIntent())
	return truncate(flights, query.Limit)
}

type providerResult struct {
	name    string
	flights []entity.Flight
	err     error
}

// collectFlights fans out to every provider that supports the query, each with
// its own timeout, and accumulates whatever comes back. A failed provider is
// logged and contributes nothing; it never aborts the batch.
func (u *Usecase) collectFlights(ctx context.Context, query entity.Query) []entity.Flight {
	applicable := make([]provider.Provider, 0, len(u.providers))
	for _, p := range u.providers {
		if p.Supports(query) {
			applicable = append(applicable, p)
		}
	}

	resCh := make(chan providerResult, len(applicable))
	for _, p := range applicable {
		providerItem := p
		go func() {
			providerCtx, cancel := context.WithTimeout(ctx, u.providerTimeout)
			defer cancel()
			flights, err := u.searchWithRetry(providerCtx, providerItem, query)
			resCh <- providerResult{name: providerItem.Name(), flights: flights, err: err}
		}()
	}

	flights := make([]entity.Flight, 0)
	for i := 0; i < len(applicable); i++ {
		res := <-resCh
		if res.err != nil {
			slog.WarnContext(ctx, "provider search degraded to empty", "provider", res.name, "error", res.err)
			continue
		}
		flights = append(flights, res.flights...)
	}

	return flights
}

// searchWithRetry retries transient provider failures with exponential backoff
// up to the configured attempt budget. Auth and other permanent failures stop
// immediately.
func (u *Usecase) searchWithRetry(ctx context.Context, p provider.Provider, query entity.Query) ([]entity.Flight, error) {
	operation := func() ([]entity.Flight, error) {
		flights, err := p.Search(ctx, query)
		if err != nil && !errors.Is(err, provider.ErrTemporary) {
			return nil, backoff.Permanent(err)
		}
		return flights, err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newSearchBackOff(), uint64(u.maxProviderRetries)),
		ctx,
	)
	return backoff.RetryWithData(operation, policy)
}

func newSearchBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 80 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}
