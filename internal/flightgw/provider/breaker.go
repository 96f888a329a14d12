package provider

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

type breakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

// NewBreakerProvider stops hammering an upstream that fails consistently: after
// five consecutive Search failures the circuit opens for thirty seconds and
// calls fail fast, which the engine degrades to zero results as usual.
func NewBreakerProvider(p Provider) Provider {
	settings := gobreaker.Settings{
		Name:    p.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &breakerProvider{
		provider: p,
		breaker:  gobreaker.NewCircuitBreaker(settings),
	}
}

func (b *breakerProvider) Name() string {
	return b.provider.Name()
}

func (b *breakerProvider) Supports(query entity.Query) bool {
	return b.provider.Supports(query)
}

func (b *breakerProvider) Search(ctx context.Context, query entity.Query) ([]entity.Flight, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.provider.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	flights, _ := result.([]entity.Flight)
	return flights, nil
}
