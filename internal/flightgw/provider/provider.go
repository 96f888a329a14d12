package provider

import (
	"context"
	"errors"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

// ErrTemporary marks a transient upstream failure worth retrying. Anything
// else returned by Search is permanent for this request.
var ErrTemporary = errors.New("temporary provider error")

// Provider is one upstream flight-data source. Search may return an empty
// slice; a provider that cannot serve the query reports Supports false and is
// skipped by the aggregation engine.
type Provider interface {
	Name() string
	Supports(query entity.Query) bool
	Search(ctx context.Context, query entity.Query) ([]entity.Flight, error)
}
