package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/skyworth-dev/flightgw/internal/flightgw/entity"
)

type stubProvider struct {
	err   error
	calls int32
}

func (s *stubProvider) Name() string {
	return "Stub"
}

func (s *stubProvider) Supports(entity.Query) bool {
	return true
}

func (s *stubProvider) Search(context.Context, entity.Query) ([]entity.Flight, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return []entity.Flight{{Provider: "Stub", OfferID: "1", Price: 1000}}, nil
}

func TestRateLimitedProviderSpacesCalls(t *testing.T) {
	stub := &stubProvider{}
	limited := NewRateLimitedProvider(stub, 50*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := limited.Search(context.Background(), entity.Query{})
		require.NoError(t, err)
	}

	require.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond,
		"three calls at one per 50ms need at least two waits")
	require.EqualValues(t, 3, atomic.LoadInt32(&stub.calls))
}

func TestRateLimitedProviderZeroIntervalIsPassthrough(t *testing.T) {
	stub := &stubProvider{}
	require.Same(t, Provider(stub), NewRateLimitedProvider(stub, 0))
}

func TestRateLimitedProviderHonorsContext(t *testing.T) {
	stub := &stubProvider{}
	limited := NewRateLimitedProvider(stub, time.Hour)

	_, err := limited.Search(context.Background(), entity.Query{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = limited.Search(ctx, entity.Query{})
	require.Error(t, err)
	require.EqualValues(t, 1, atomic.LoadInt32(&stub.calls), "a cancelled wait must not reach the upstream")
}

func TestBreakerProviderOpensAfterConsecutiveFailures(t *testing.T) {
	stub := &stubProvider{err: errors.New("upstream down")}
	guarded := NewBreakerProvider(stub)

	for i := 0; i < 5; i++ {
		_, err := guarded.Search(context.Background(), entity.Query{})
		require.Error(t, err)
	}
	require.EqualValues(t, 5, atomic.LoadInt32(&stub.calls))

	_, err := guarded.Search(context.Background(), entity.Query{})
	require.Error(t, err)
	require.EqualValues(t, 5, atomic.LoadInt32(&stub.calls), "an open circuit must fail fast without calling the upstream")
}

func TestBreakerProviderPassesResultsThrough(t *testing.T) {
	stub := &stubProvider{}
	guarded := NewBreakerProvider(stub)

	require.Equal(t, "Stub", guarded.Name())
	require.True(t, guarded.Supports(entity.Query{}))

	flights, err := guarded.Search(context.Background(), entity.Query{})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	require.Equal(t, "1", flights[0].OfferID)
}
