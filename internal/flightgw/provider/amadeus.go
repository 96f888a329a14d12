package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

// TokenSource yields a usable bearer token for the upstream API.
type TokenSource interface {
	EnsureToken(ctx context.Context) (string, error)
}

const defaultOfferLimit = 10

type AmadeusProvider struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

func NewAmadeusProvider(baseURL string, tokens TokenSource, httpClient *http.Client) *AmadeusProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &AmadeusProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
	}
}

func (a *AmadeusProvider) Name() string {
	return "Amadeus"
}

func (a *AmadeusProvider) Supports(_ entity.Query) bool {
	return true
}

type amadeusResponse struct {
	Data []amadeusOffer `json:"data"`
}

type amadeusOffer struct {
	ID    string `json:"id"`
	Price struct {
		Currency string `json:"currency"`
		Total    string `json:"total"`
	} `json:"price"`
	Itineraries []struct {
		Segments []amadeusSegment `json:"segments"`
	} `json:"itineraries"`
}

type amadeusSegment struct {
	Departure   amadeusLocation `json:"departure"`
	Arrival     amadeusLocation `json:"arrival"`
	CarrierCode string          `json:"carrierCode"`
	Number      string          `json:"number"`
}

type amadeusLocation struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}

func (a *AmadeusProvider) Search(ctx context.Context, query entity.Query) ([]entity.Flight, error) {
	bearer, err := a.tokens.EnsureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("amadeus auth: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.searchURL(query), nil)
	if err != nil {
		return nil, fmt.Errorf("amadeus create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus search: %w: %v", ErrTemporary, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("amadeus search status %d: %w: %s", res.StatusCode, ErrTemporary, string(body))
		}
		return nil, fmt.Errorf("amadeus search status %d: %s", res.StatusCode, string(body))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("amadeus read response: %w: %v", ErrTemporary, err)
	}

	var payload amadeusResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("amadeus decode response: %w", err)
	}

	return a.mapOffers(ctx, query, payload), nil
}

func (a *AmadeusProvider) searchURL(query entity.Query) string {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultOfferLimit
	}

	params := url.Values{}
	params.Set("originLocationCode", strings.ToUpper(strings.TrimSpace(query.Origin)))
	params.Set("destinationLocationCode", strings.ToUpper(strings.TrimSpace(query.Destination)))
	params.Set("departureDate", query.DepartureDate)
	params.Set("adults", strconv.Itoa(query.Passengers))
	params.Set("currencyCode", strings.ToUpper(query.Currency))
	params.Set("max", strconv.Itoa(limit))

	return a.baseURL + "/flight-offers?" + params.Encode()
}

// mapOffers converts the upstream payload into the internal result shape. One
// malformed offer is skipped and logged; it never drops the batch.
func (a *AmadeusProvider) mapOffers(ctx context.Context, query entity.Query, payload amadeusResponse) []entity.Flight {
	flights := make([]entity.Flight, 0, len(payload.Data))
	for _, offer := range payload.Data {
		flight, err := a.mapOffer(query, offer)
		if err != nil {
			slog.WarnContext(ctx, "skipping unparsable offer", "provider", a.Name(), "offer_id", offer.ID, "error", err)
			continue
		}
		flights = append(flights, flight)
	}
	return flights
}

// mapOffer reads the first itinerary: its first leg supplies origin and
// departure, its last leg destination and arrival, and stop count is the
// number of segments minus one.
func (a *AmadeusProvider) mapOffer(query entity.Query, offer amadeusOffer) (entity.Flight, error) {
	if len(offer.Itineraries) == 0 {
		return entity.Flight{}, fmt.Errorf("offer has no itineraries")
	}
	segments := offer.Itineraries[0].Segments
	if len(segments) == 0 {
		return entity.Flight{}, fmt.Errorf("itinerary has no segments")
	}
	first, last := segments[0], segments[len(segments)-1]

	price, err := strconv.ParseFloat(strings.TrimSpace(offer.Price.Total), 64)
	if err != nil {
		return entity.Flight{}, fmt.Errorf("non-numeric total price %q", offer.Price.Total)
	}

	cabinClass := strings.ToLower(strings.TrimSpace(query.CabinClass))
	if cabinClass == "" {
		cabinClass = "economy"
	}

	return entity.Flight{
		Provider:      a.Name(),
		OfferID:       offer.ID,
		Origin:        first.Departure.IataCode,
		Destination:   last.Arrival.IataCode,
		Airline:       first.CarrierCode,
		DepartureTime: first.Departure.At,
		ArrivalTime:   last.Arrival.At,
		Stops:         len(segments) - 1,
		Price:         price,
		Currency:      offer.Price.Currency,
		CabinClass:    cabinClass,
	}, nil
}
