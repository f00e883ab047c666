package price

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/solburn/burnwatch/service/burn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJupiterSource_PriceUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/price/v2", r.URL.Path)
		assert.Equal(t, testMint, r.URL.Query().Get("ids"))
		fmt.Fprintf(w, `{"data":{%q:{"id":%q,"price":"3.085"}}}`, testMint, testMint)
	}))
	defer srv.Close()

	src := NewJupiterSource(srv.URL, srv.Client())
	price, err := src.PriceUSD(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 3.085, price)
}

func TestJupiterSource_NoPriceForMint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer srv.Close()

	src := NewJupiterSource(srv.URL, srv.Client())
	_, err := src.PriceUSD(context.Background(), testMint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no price")
}

func TestJupiterSource_UnparsablePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"data":{%q:{"id":%q,"price":"not-a-number"}}}`, testMint, testMint)
	}))
	defer srv.Close()

	src := NewJupiterSource(srv.URL, srv.Client())
	_, err := src.PriceUSD(context.Background(), testMint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparsable")
}

func TestJupiterSource_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprintf(w, `{"data":{%q:{"id":%q,"price":"1.5"}}}`, testMint, testMint)
	}))
	defer srv.Close()

	src := NewJupiterSource(srv.URL, srv.Client())
	src.retryBase = 0 // no backoff sleeps in tests

	price, err := src.PriceUSD(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 1.5, price)
	assert.Equal(t, 3, calls)
}

func TestJupiterSource_DoesNotRetryClientErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	src := NewJupiterSource(srv.URL, srv.Client())
	src.retryBase = 0

	_, err := src.PriceUSD(context.Background(), testMint)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDexScreenerSource_PicksHighestLiquidityPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/tokens/"+testMint, r.URL.Path)
		fmt.Fprint(w, `{"pairs":[
			{"priceUsd":"1.00","liquidity":{"usd":5000}},
			{"priceUsd":"1.02","liquidity":{"usd":250000}},
			{"priceUsd":"0.98","liquidity":{"usd":100}}
		]}`)
	}))
	defer srv.Close()

	src := NewDexScreenerSource(srv.URL, srv.Client())
	price, err := src.PriceUSD(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 1.02, price)
}

func TestDexScreenerSource_SkipsUnusablePairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pairs":[
			{"priceUsd":"","liquidity":{"usd":900000}},
			{"priceUsd":"2.5","liquidity":{"usd":100}}
		]}`)
	}))
	defer srv.Close()

	src := NewDexScreenerSource(srv.URL, srv.Client())
	price, err := src.PriceUSD(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 2.5, price)
}

func TestDexScreenerSource_NoPairs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"pairs":[]}`)
	}))
	defer srv.Close()

	src := NewDexScreenerSource(srv.URL, srv.Client())
	_, err := src.PriceUSD(context.Background(), testMint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no usable pairs")
}

// stubSource is a canned Source for resolver tests.
type stubSource struct {
	name  string
	price float64
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) PriceUSD(ctx context.Context, mint string) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.price, nil
}

func TestResolver_FirstSourceWins(t *testing.T) {
	primary := &stubSource{name: "primary", price: 2.0}
	fallback := &stubSource{name: "fallback", price: 9.0}

	r := NewResolver([]Source{primary, fallback}, nil, discardLogger())
	price, provider, err := r.Resolve(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 2.0, price)
	assert.Equal(t, "primary", provider)
	assert.Equal(t, 0, fallback.calls)
}

func TestResolver_FallsBackInOrder(t *testing.T) {
	primary := &stubSource{name: "primary", err: errors.New("down")}
	fallback := &stubSource{name: "fallback", price: 9.0}

	r := NewResolver([]Source{primary, fallback}, nil, discardLogger())
	price, provider, err := r.Resolve(context.Background(), testMint)
	require.NoError(t, err)
	assert.Equal(t, 9.0, price)
	assert.Equal(t, "fallback", provider)
}

func TestResolver_AllSourcesFail(t *testing.T) {
	a := &stubSource{name: "a", err: errors.New("down")}
	b := &stubSource{name: "b", err: errors.New("also down")}

	r := NewResolver([]Source{a, b}, nil, discardLogger())
	_, _, err := r.Resolve(context.Background(), testMint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all price sources failed")
	assert.Contains(t, err.Error(), "also down")
}

func TestBuildSnapshot(t *testing.T) {
	report := &burn.Report{
		Count:   2,
		TotalUI: "0.75",
		Burns:   []burn.Record{{AmountUI: "0.5"}, {AmountUI: "0.25"}},
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	snap, err := BuildSnapshot(testMint, 2.0, report, 1000000, 6, now)
	require.NoError(t, err)
	assert.Equal(t, testMint, snap.Mint)
	assert.Equal(t, 2.0, snap.PriceUSD)
	assert.Equal(t, 0.75, snap.BurnTotalTokens)
	assert.Equal(t, 1.5, snap.BurnTotalUSD)
	assert.Equal(t, 1000000.0, snap.TotalSupplyTokens)
	assert.Equal(t, uint8(6), snap.Decimals)
	assert.Equal(t, now, snap.UpdatedAt)
}

func TestBuildSnapshot_EmptyReport(t *testing.T) {
	// A never-scanned data dir yields a zero-valued report; pricing must not
	// fail on it.
	snap, err := BuildSnapshot(testMint, 2.0, &burn.Report{}, 0, 6, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap.BurnTotalTokens)
	assert.Equal(t, 0.0, snap.BurnTotalUSD)
}
