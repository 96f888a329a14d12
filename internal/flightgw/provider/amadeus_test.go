package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

type staticTokenSource struct {
	token string
	err   error
}

func (s *staticTokenSource) EnsureToken(context.Context) (string, error) {
	return s.token, s.err
}

// offersFixture carries two parseable offers (one direct, one with a
// connection) and one offer with no itinerary data.
const offersFixture = `{
  "data": [
    {
      "id": "1",
      "price": {"currency": "INR", "total": "5231.50"},
      "itineraries": [
        {
          "segments": [
            {
              "departure": {"iataCode": "DEL", "at": "2026-09-01T06:15:00"},
              "arrival": {"iataCode": "BOM", "at": "2026-09-01T08:20:00"},
              "carrierCode": "AI",
              "number": "441"
            }
          ]
        }
      ]
    },
    {
      "id": "2",
      "price": {"currency": "INR", "total": "3890.00"},
      "itineraries": [
        {
          "segments": [
            {
              "departure": {"iataCode": "DEL", "at": "2026-09-01T09:40:00"},
              "arrival": {"iataCode": "HYD", "at": "2026-09-01T11:55:00"},
              "carrierCode": "6E",
              "number": "2034"
            },
            {
              "departure": {"iataCode": "HYD", "at": "2026-09-01T13:10:00"},
              "arrival": {"iataCode": "BOM", "at": "2026-09-01T14:35:00"},
              "carrierCode": "6E",
              "number": "5119"
            }
          ]
        }
      ]
    },
    {
      "id": "3",
      "price": {"currency": "INR", "total": "4100.00"},
      "itineraries": []
    }
  ]
}`

func testQuery() entity.Query {
	return entity.Query{
		Origin:        "DEL",
		Destination:   "BOM",
		DepartureDate: "2026-09-01",
		Passengers:    1,
		CabinClass:    "economy",
		Currency:      "INR",
		Limit:         5,
	}
}

func newTestAmadeus(t *testing.T, handler http.HandlerFunc) *AmadeusProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewAmadeusProvider(server.URL, &staticTokenSource{token: "tok"}, server.Client())
}

func TestAmadeusSearchMapsOffers(t *testing.T) {
	amadeus := newTestAmadeus(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "/flight-offers", r.URL.Path)

		params := r.URL.Query()
		require.Equal(t, "DEL", params.Get("originLocationCode"))
		require.Equal(t, "BOM", params.Get("destinationLocationCode"))
		require.Equal(t, "2026-09-01", params.Get("departureDate"))
		require.Equal(t, "1", params.Get("adults"))
		require.Equal(t, "INR", params.Get("currencyCode"))
		require.Equal(t, "5", params.Get("max"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, offersFixture)
	})

	flights, err := amadeus.Search(context.Background(), testQuery())
	require.NoError(t, err)
	require.Len(t, flights, 2, "the offer without itineraries must be skipped, not fail the batch")

	direct := flights[0]
	require.Equal(t, "Amadeus", direct.Provider)
	require.Equal(t, "1", direct.OfferID)
	require.Equal(t, "DEL", direct.Origin)
	require.Equal(t, "BOM", direct.Destination)
	require.Equal(t, "AI", direct.Airline)
	require.Equal(t, "2026-09-01T06:15:00", direct.DepartureTime)
	require.Equal(t, "2026-09-01T08:20:00", direct.ArrivalTime)
	require.Equal(t, 0, direct.Stops)
	require.InDelta(t, 5231.50, direct.Price, 0.001)
	require.Equal(t, "INR", direct.Currency)
	require.Equal(t, "economy", direct.CabinClass)

	// first leg supplies origin and departure, last leg destination and arrival
	connecting := flights[1]
	require.Equal(t, "DEL", connecting.Origin)
	require.Equal(t, "BOM", connecting.Destination)
	require.Equal(t, "6E", connecting.Airline)
	require.Equal(t, "2026-09-01T09:40:00", connecting.DepartureTime)
	require.Equal(t, "2026-09-01T14:35:00", connecting.ArrivalTime)
	require.Equal(t, 1, connecting.Stops)
}

func TestAmadeusSearchSkipsNonNumericPrice(t *testing.T) {
	amadeus := newTestAmadeus(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"9","price":{"currency":"INR","total":"n/a"},"itineraries":[{"segments":[{"departure":{"iataCode":"DEL","at":"2026-09-01T06:00:00"},"arrival":{"iataCode":"BOM","at":"2026-09-01T08:00:00"},"carrierCode":"AI","number":"1"}]}]}]}`)
	})

	flights, err := amadeus.Search(context.Background(), testQuery())
	require.NoError(t, err)
	require.Empty(t, flights)
}

func TestAmadeusSearchServerErrorIsTemporary(t *testing.T) {
	amadeus := newTestAmadeus(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := amadeus.Search(context.Background(), testQuery())
	require.ErrorIs(t, err, ErrTemporary)
}

func TestAmadeusSearchClientErrorIsPermanent(t *testing.T) {
	amadeus := newTestAmadeus(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := amadeus.Search(context.Background(), testQuery())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrTemporary)
}

func TestAmadeusSearchTokenFailure(t *testing.T) {
	errAuth := errors.New("no token")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("search endpoint must not be called without a token")
	}))
	t.Cleanup(server.Close)

	amadeus := NewAmadeusProvider(server.URL, &staticTokenSource{err: errAuth}, server.Client())

	_, err := amadeus.Search(context.Background(), testQuery())
	require.ErrorIs(t, err, errAuth)
}

func TestAmadeusSupportsEveryQuery(t *testing.T) {
	amadeus := NewAmadeusProvider("http://unused", &staticTokenSource{token: "tok"}, nil)
	require.True(t, amadeus.Supports(entity.Query{}))
	require.True(t, amadeus.Supports(testQuery()))
}
