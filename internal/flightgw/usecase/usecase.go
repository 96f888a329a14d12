package usecase

import (
	"time"

	"github.com/skyworth-dev/flightgw/internal/flightgw/cache"
	"github.com/skyworth-dev/flightgw/internal/flightgw/provider"
)

type Dependency struct {
	Providers          []provider.Provider
	Results            *cache.Results
	ProviderTimeout    time.Duration
	MaxProviderRetries int
}

type Usecase struct {
	providers          []provider.Provider
	results            *cache.Results
	providerTimeout    time.Duration
	maxProviderRetries int
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		providers:          dep.Providers,
		results:            dep.Results,
		providerTimeout:    dep.ProviderTimeout,
		maxProviderRetries: dep.MaxProviderRetries,
	}
}
