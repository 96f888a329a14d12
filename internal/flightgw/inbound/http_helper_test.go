package inbound

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgerror"
)

func parseBody(t *testing.T, body string) (entity.Query, error) {
	t.Helper()
	r := httptest.NewRequest("POST", "/v1/search/flights", strings.NewReader(body))
	return parseSearchQuery(r)
}

func TestParseSearchQueryDefaults(t *testing.T) {
	query, err := parseBody(t, `{"origin":"del","destination":"bom"}`)
	require.NoError(t, err)

	require.Equal(t, "DEL", query.Origin)
	require.Equal(t, "BOM", query.Destination)
	require.Equal(t, 1, query.Passengers)
	require.Equal(t, "economy", query.CabinClass)
	require.Equal(t, "INR", query.Currency)
	require.Equal(t, 10, query.Limit)
	require.Equal(t, entity.IntentCheapest, query.Intent)
	require.Nil(t, query.MinPrice)
	require.Nil(t, query.MaxPrice)
}

func TestParseSearchQueryFullRequest(t *testing.T) {
	query, err := parseBody(t, `{
		"origin": " blr ",
		"destination": "maa",
		"departDate": "2026-09-01",
		"returnDate": "2026-09-08",
		"passengers": 3,
		"cabinClass": "Business",
		"currency": "usd",
		"limit": 5,
		"minPrice": 1500.5,
		"maxPrice": 9000,
		"intent": "Earliest",
		"region": "APAC",
		"airline": "AI"
	}`)
	require.NoError(t, err)

	require.Equal(t, "BLR", query.Origin)
	require.Equal(t, "MAA", query.Destination)
	require.Equal(t, "2026-09-01", query.DepartureDate)
	require.Equal(t, "2026-09-08", query.ReturnDate)
	require.Equal(t, 3, query.Passengers)
	require.Equal(t, "business", query.CabinClass)
	require.Equal(t, "USD", query.Currency)
	require.Equal(t, 5, query.Limit)
	require.Equal(t, entity.IntentEarliest, query.Intent)
	require.NotNil(t, query.MinPrice)
	require.InDelta(t, 1500.5, *query.MinPrice, 0.001)
	require.NotNil(t, query.MaxPrice)
	require.InDelta(t, 9000, *query.MaxPrice, 0.001)
	require.Equal(t, "APAC", query.Region)
	require.Equal(t, "AI", query.Airline)
}

func TestParseSearchQueryRejectsBadInput(t *testing.T) {
	for name, body := range map[string]string{
		"not json":          `{"origin":`,
		"missing origin":    `{"destination":"BOM"}`,
		"blank destination": `{"origin":"DEL","destination":"  "}`,
		"bad depart date":   `{"origin":"DEL","destination":"BOM","departDate":"01-09-2026"}`,
		"bad return date":   `{"origin":"DEL","destination":"BOM","returnDate":"tomorrow"}`,
		"inverted price":    `{"origin":"DEL","destination":"BOM","minPrice":5000,"maxPrice":1000}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseBody(t, body)
			require.Error(t, err)
			require.Equal(t, pkgerror.CodeInvalidInput, pkgerror.CodeOf(err))
		})
	}
}

func TestParseSearchQueryNonPositiveValuesFallBack(t *testing.T) {
	query, err := parseBody(t, `{"origin":"DEL","destination":"BOM","passengers":-2,"limit":0}`)
	require.NoError(t, err)
	require.Equal(t, 1, query.Passengers)
	require.Equal(t, 10, query.Limit)
}
