package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var (
	testFrom = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	testTo   = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
)

func newTestMassive(url string, secondary Provider) *massiveDataProvider {
	p := NewMassiveDataProvider("test", secondary)
	p.client.SetBaseURL(url).
		SetRetryWaitTime(time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Millisecond)
	return p
}

const aggsBody = `{
	"ticker": "AAPL",
	"adjusted": true,
	"status": "OK",
	"results": [
		{"t": 1735776000000, "o": 100, "h": 102, "l": 99, "c": 101, "v": 1000},
		{"t": 1735862400000, "o": 101, "h": 104, "l": 100, "c": 103, "v": 1200}
	]
}`

func TestMassiveProvider_GetBars(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(aggsBody))
	}))
	defer srv.Close()

	p := newTestMassive(srv.URL, nil)
	bars, err := p.GetBars(context.Background(), "aapl", testFrom, testTo)
	if err != nil {
		t.Fatalf("GetBars: %v", err)
	}

	if want := "/v2/aggs/ticker/AAPL/range/1/day/2025-01-02/2025-01-10"; gotPath != want {
		t.Errorf("path = %s, want %s", gotPath, want)
	}
	if gotKey != "test" {
		t.Errorf("apiKey = %q", gotKey)
	}
	if len(bars) != 2 {
		t.Fatalf("got %d bars, want 2", len(bars))
	}
	if bars[1].Close != 103 || bars[0].Vol != 1000 {
		t.Errorf("unexpected bars %+v", bars)
	}
	if !bars[0].Date.Equal(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", bars[0].Date)
	}
}

func TestMassiveProvider_GetBars_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"internal error"}`))
	}))
	defer srv.Close()

	p := newTestMassive(srv.URL, nil)
	_, err := p.GetBars(context.Background(), "AAPL", testFrom, testTo)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "internal error") {
		t.Errorf("error should carry the API message, got %v", err)
	}
}

func TestMassiveProvider_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"slow down"}`))
			return
		}
		w.Write([]byte(aggsBody))
	}))
	defer srv.Close()

	p := newTestMassive(srv.URL, nil)
	bars, err := p.GetBars(context.Background(), "AAPL", testFrom, testTo)
	if err != nil {
		t.Fatalf("GetBars: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("got %d bars", len(bars))
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
}

func TestMassiveProvider_FallsBackToSecondary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p := newTestMassive(srv.URL, NewSyntheticProvider(7))
	if p.Secondary() == nil {
		t.Fatal("secondary not set")
	}
	bars, err := p.GetBars(context.Background(), "AAPL", testFrom, testTo)
	if err != nil {
		t.Fatalf("fallback should succeed: %v", err)
	}
	if len(bars) == 0 {
		t.Error("expected synthetic bars")
	}
}
