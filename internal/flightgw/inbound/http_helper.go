package inbound

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
	"github.com/skyworth-dev/flightgw/internal/pkg/pkgerror"
)

const (
	defaultPassengers = 1
	defaultCabinClass = "economy"
	defaultCurrency   = "INR"
	defaultLimit      = 10
	defaultIntent     = entity.IntentCheapest
)

func parseSearchQuery(r *http.Request) (entity.Query, error) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return entity.Query{}, pkgerror.NewBusiness("invalid request body", pkgerror.CodeInvalidInput)
	}

	origin := strings.ToUpper(strings.TrimSpace(req.Origin))
	destination := strings.ToUpper(strings.TrimSpace(req.Destination))
	if origin == "" || destination == "" {
		return entity.Query{}, pkgerror.NewBusiness("origin and destination are required", pkgerror.CodeInvalidInput)
	}

	departDate := strings.TrimSpace(req.DepartDate)
	if departDate != "" {
		if _, err := time.Parse("2006-01-02", departDate); err != nil {
			return entity.Query{}, pkgerror.NewBusiness("invalid departDate", pkgerror.CodeInvalidInput)
		}
	}

	returnDate := strings.TrimSpace(req.ReturnDate)
	if returnDate != "" {
		if _, err := time.Parse("2006-01-02", returnDate); err != nil {
			return entity.Query{}, pkgerror.NewBusiness("invalid returnDate", pkgerror.CodeInvalidInput)
		}
	}

	passengers := req.Passengers
	if passengers <= 0 {
		passengers = defaultPassengers
	}

	cabinClass := strings.ToLower(strings.TrimSpace(req.CabinClass))
	if cabinClass == "" {
		cabinClass = defaultCabinClass
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	intent := strings.ToLower(strings.TrimSpace(req.Intent))
	if intent == "" {
		intent = defaultIntent
	}

	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return entity.Query{}, pkgerror.NewBusiness("minPrice exceeds maxPrice", pkgerror.CodeInvalidInput)
	}

	return entity.Query{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departDate,
		ReturnDate:    returnDate,
		Passengers:    passengers,
		CabinClass:    cabinClass,
		Currency:      currency,
		Limit:         limit,
		MinPrice:      req.MinPrice,
		MaxPrice:      req.MaxPrice,
		Intent:        intent,
		Region:        strings.TrimSpace(req.Region),
		Airline:       strings.TrimSpace(req.Airline),
	}, nil
}

func mapFlightResponses(flights []entity.Flight) []FlightResponse {
	resp := make([]FlightResponse, 0, len(flights))
	for _, flight := range flights {
		resp = append(resp, FlightResponse{
			Provider:      flight.Provider,
			OfferID:       flight.OfferID,
			Origin:        flight.Origin,
			Destination:   flight.Destination,
			Airline:       flight.Airline,
			DepartureTime: flight.DepartureTime,
			ArrivalTime:   flight.ArrivalTime,
			Stops:         flight.Stops,
			Price:         flight.Price,
			Currency:      flight.Currency,
			CabinClass:    flight.CabinClass,
		})
	}
	return resp
}
