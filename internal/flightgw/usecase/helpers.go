package usecase

import (
	"sort"
	"strings"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

// filterFlights applies the optional query bounds in order: price floor, price
// ceiling, then currency equality (case-insensitive). Filtering removes
// results, it never edits them.
func filterFlights(flights []entity.Flight, query entity.Query) []entity.Flight {
	filtered := make([]entity.Flight, 0, len(flights))
	for _, flight := range flights {
		if query.MinPrice != nil && flight.Price < *query.MinPrice {
			continue
		}
		if query.MaxPrice != nil && flight.Price > *query.MaxPrice {
			continue
		}
		if query.Currency != "" && !strings.EqualFold(flight.Currency, query.Currency) {
			continue
		}
		filtered = append(filtered, flight)
	}
	return filtered
}

// applyIntent ranks the sequence. cheapest and price_range sort ascending by
// price, as does any absent or unrecognized intent. earliest sorts ascending
// by the ISO-8601 departure string. direct drops everything with stops and
// keeps the accumulated order of what remains.
func applyIntent(flights []entity.Flight, intent string) []entity.Flight {
	switch intent {
	case entity.IntentEarliest:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].DepartureTime < flights[j].DepartureTime
		})
	case entity.IntentDirect:
		direct := make([]entity.Flight, 0, len(flights))
		for _, flight := range flights {
			if flight.Stops == 0 {
				direct = append(direct, flight)
			}
		}
		return direct
	default:
		// cheapest, price_range, and everything else
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].Price < flights[j].Price
		})
	}
	return flights
}

func truncate(flights []entity.Flight, limit int) []entity.Flight {
	if limit > 0 && len(flights) > limit {
		return flights[:limit]
	}
	return flights
}
