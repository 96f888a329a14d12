package inbound

import (
	"context"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
	"github.com/skyworth-dev/flightgw/internal/flightgw/usecase"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgrouter"
)

type uc interface {
	SearchFlights(ctx context.Context, query entity.Query) (*usecase.SearchOutput, error)
}

// Pinger reports durable-store reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, store Pinger) {
	end := &HTTPEndpoint{uc: uc, store: store}

	r.POST("/v1/search/flights", end.SearchFlights)
	r.GET("/healthz", end.Health)
}
