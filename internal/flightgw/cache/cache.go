package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

const keyPrefix = "flightgw:results:"

// Results memoizes aggregation output in Redis, keyed by a normalized
// fingerprint of the query. Store failures read as misses; the pipeline falls
// through to live computation.
type Results struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResults(rdb *redis.Client, ttl time.Duration) *Results {
	return &Results{rdb: rdb, ttl: ttl}
}

// Fingerprint derives the cache key from origin, destination, passenger count,
// cabin class, currency, intent, and the price bounds. Departure date, region,
// airline, and limit are deliberately ignored: two queries differing only in
// those map to the same entry until its TTL runs out.
func Fingerprint(query entity.Query) string {
	return strings.Join([]string{
		normalizeField(query.Origin),
		normalizeField(query.Destination),
		strconv.Itoa(query.Passengers),
		normalizeField(query.CabinClass),
		normalizeField(query.Currency),
		normalizeField(query.Intent),
		formatBound(query.MinPrice),
		formatBound(query.MaxPrice),
	}, "_")
}

// normalizeField strips all whitespace and uppercases; an empty field
// serializes as "NA" so adjacent fields cannot bleed into each other.
func normalizeField(value string) string {
	value = strings.ToUpper(strings.Join(strings.Fields(value), ""))
	if value == "" {
		return "NA"
	}
	return value
}

func formatBound(value *float64) string {
	if value == nil {
		return "null"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

// GetOrCompute returns the cached result sequence for the query's fingerprint
// when a fresh entry exists, otherwise computes, stores with the configured
// TTL, and returns. The second return reports a cache hit.
func (r *Results) GetOrCompute(ctx context.Context, query entity.Query, compute func(ctx context.Context) []entity.Flight) ([]entity.Flight, bool) {
	fingerprint := Fingerprint(query)
	if flights, ok := r.get(ctx, fingerprint); ok {
		return flights, true
	}

	flights := compute(ctx)
	r.set(ctx, fingerprint, flights)
	return flights, false
}

func (r *Results) get(ctx context.Context, fingerprint string) ([]entity.Flight, bool) {
	data, err := r.rdb.Get(ctx, keyPrefix+fingerprint).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "result cache read failed, treating as miss", "error", err)
		}
		return nil, false
	}

	var flights []entity.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		slog.WarnContext(ctx, "result cache holds malformed entry, treating as miss", "error", err)
		return nil, false
	}
	return flights, true
}

func (r *Results) set(ctx context.Context, fingerprint string, flights []entity.Flight) {
	data, err := json.Marshal(flights)
	if err != nil {
		slog.WarnContext(ctx, "result cache marshal failed", "error", err)
		return
	}
	if err := r.rdb.Set(ctx, keyPrefix+fingerprint, data, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "result cache write failed", "error", err)
	}
}
