package inbound

import (
	"context"
	"net/http"
)

type HTTPEndpoint struct {
	uc    uc
	store Pinger
}

func (h *HTTPEndpoint) SearchFlights(ctx context.Context, r *http.Request) (any, error) {
	query, err := parseSearchQuery(r)
	if err != nil {
		return nil, err
	}

	output, err := h.uc.SearchFlights(ctx, query)
	if err != nil {
		return nil, err
	}

	return SearchResponse{
		Metadata: MetadataResponse{
			TotalResults:     output.Metadata.TotalResults,
			ProvidersQueried: output.Metadata.ProvidersQueried,
			SearchTimeMs:     output.Metadata.SearchTimeMs,
			CacheHit:         output.Metadata.CacheHit,
		},
		Flights: mapFlightResponses(output.Flights),
	}, nil
}

// Health reports the gateway as up even when the durable store is not: a store
// outage degrades caching, it does not stop searches.
func (h *HTTPEndpoint) Health(ctx context.Context, _ *http.Request) (any, error) {
	storeStatus := "up"
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			storeStatus = "down"
		}
	}
	return HealthResponse{Status: "ok", Store: storeStatus}, nil
}
