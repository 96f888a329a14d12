package entity

import "strings"

// Intent values a client may request. Ranking treats anything outside this set
// like cheapest.
const (
	IntentCheapest   = "cheapest"
	IntentPriceRange = "price_range"
	IntentEarliest   = "earliest"
	IntentDirect     = "direct"
)

// Query is a normalized flight search. It is immutable once handed to the
// pipeline; components receive it by value.
type Query struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Passengers    int
	CabinClass    string
	Currency      string
	Limit         int
	MinPrice      *float64
	MaxPrice      *float64
	Intent        string
	Region        string
	Airline       string
}

func (q Query) NormalizedIntent() string {
	return strings.ToLower(strings.TrimSpace(q.Intent))
}

// Flight is one offer mapped from an upstream provider. Departure and arrival
// are ISO-8601 strings as reported upstream; lexicographic order on them is
// chronological order.
type Flight struct {
	Provider      string  `json:"provider"`
	OfferID       string  `json:"offer_id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Airline       string  `json:"airline"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Stops         int     `json:"stops"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	CabinClass    string  `json:"cabin_class"`
}
