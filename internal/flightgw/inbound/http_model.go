package inbound

type SearchRequest struct {
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	DepartDate    string   `json:"departDate"`
	ReturnDate    string   `json:"returnDate,omitempty"`
	Passengers    int      `json:"passengers"`
	CabinClass    string   `json:"cabinClass"`
	Currency      string   `json:"currency"`
	Limit         int      `json:"limit"`
	MinPrice      *float64 `json:"minPrice"`
	MaxPrice      *float64 `json:"maxPrice"`
	Intent        string   `json:"intent"`
	Region        string   `json:"region,omitempty"`
	Airline       string   `json:"airline,omitempty"`
}

type SearchResponse struct {
	Metadata MetadataResponse `json:"metadata"`
	Flights  []FlightResponse `json:"flights"`
}

type MetadataResponse struct {
	TotalResults     int   `json:"total_results"`
	ProvidersQueried int   `json:"providers_queried"`
	SearchTimeMs     int64 `json:"search_time_ms"`
	CacheHit         bool  `json:"cache_hit"`
}

type FlightResponse struct {
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

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}
