package data

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contactkeval/option-calc/internal/testutil"
)

func TestAnnualizedVolatility(t *testing.T) {
	a := math.Log(1.1)
	closes := []float64{100, 110, 100, 110, 100}
	want := a * math.Sqrt(4.0/3.0) * math.Sqrt(TradingDaysPerYear)
	testutil.AssertRel(t, "alternating", AnnualizedVolatility(closes), want, 1e-12)

	if got := AnnualizedVolatility([]float64{100, 101, 102.01}); got > 1e-9 {
		t.Errorf("constant growth should have ~0 vol, got %v", got)
	}
}

func TestAnnualizedVolatility_Fallback(t *testing.T) {
	for _, closes := range [][]float64{nil, {100}, {100, 101}, {100, 0, -3}} {
		if got := AnnualizedVolatility(closes); got != DefaultVolatility {
			t.Errorf("AnnualizedVolatility(%v) = %v, want %v", closes, got, DefaultVolatility)
		}
	}
}

func TestSynthetic_Deterministic(t *testing.T) {
	ctx := context.Background()
	a, _ := NewSyntheticProvider(42).GetBars(ctx, "SPY", testFrom, testTo)
	b, _ := NewSyntheticProvider(42).GetBars(ctx, "SPY", testFrom, testTo)
	c, _ := NewSyntheticProvider(43).GetBars(ctx, "SPY", testFrom, testTo)

	if len(a) != 7 {
		t.Fatalf("expected 7 weekday bars, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("bar %d differs for same seed", i)
		}
		if wd := a[i].Date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Errorf("weekend bar %v", a[i].Date)
		}
		if a[i].Close <= 0 || a[i].Low > a[i].High {
			t.Errorf("malformed bar %+v", a[i])
		}
	}
	if a[len(a)-1].Close == c[len(c)-1].Close {
		t.Error("different seeds produced the same path")
	}
}

func TestSynthetic_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSyntheticProvider(1).GetBars(ctx, "SPY", testFrom, testTo); err == nil {
		t.Fatal("expected context error")
	}
}

func writeCSV(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

const spyCSV = `date,open,high,low,close,volume
2025-01-06,100,101,99,100.5,1000
2025-01-02,98,99,97,98.5,1000
2025-01-03,98.5,100,98,99.5,1000
2024-12-31,97,98,96,97.5,1000
`

func TestLocalCSV_GetBars(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY.csv", spyCSV)

	bars, err := NewLocalCSVProvider(dir, nil).GetBars(context.Background(), "spy", testFrom, testTo)
	if err != nil {
		t.Fatalf("GetBars: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("got %d bars, want 3 inside range", len(bars))
	}
	if bars[0].Close != 98.5 || bars[2].Close != 100.5 {
		t.Errorf("bars not sorted by date: %+v", bars)
	}
}

func TestLocalCSV_Errors(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "BAD.csv", "date,open,close\n2025-01-02,1,2\n")
	writeCSV(t, dir, "NUM.csv", "date,open,high,low,close,volume\n2025-01-02,1,x,1,1,1\n")

	p := NewLocalCSVProvider(dir, nil)
	for _, ticker := range []string{"BAD", "NUM", "MISSING"} {
		if _, err := p.GetBars(context.Background(), ticker, testFrom, testTo); err == nil {
			t.Errorf("%s: expected error", ticker)
		}
	}

	fallback := NewLocalCSVProvider(dir, NewSyntheticProvider(1))
	bars, err := fallback.GetBars(context.Background(), "MISSING", testFrom, testTo)
	if err != nil || len(bars) == 0 {
		t.Errorf("fallback: bars=%d err=%v", len(bars), err)
	}
}

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY.csv", spyCSV)

	snap, err := Snapshot(context.Background(), NewLocalCSVProvider(dir, nil), "SPY", testTo, 30)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Spot != 100.5 {
		t.Errorf("spot = %v, want last close 100.5", snap.Spot)
	}
	if snap.Bars != 4 || snap.Source != "csv" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	testutil.AssertRel(t, "vol", snap.Volatility, AnnualizedVolatility([]float64{97.5, 98.5, 99.5, 100.5}), 1e-12)

	if _, err := Snapshot(context.Background(), NewLocalCSVProvider(dir, nil), "SPY", testFrom.AddDate(-1, 0, 0), 30); err == nil {
		t.Error("expected error for empty window")
	}
}

func TestNewProvider(t *testing.T) {
	t.Setenv("POLYGON_API_KEY", "")
	if _, err := NewProvider("massive", "", "", 1); err == nil {
		t.Error("massive without key should fail")
	}
	if p, err := NewProvider("massive", "k", "", 1); err != nil || p.Name() != "massive" || p.Secondary() == nil {
		t.Errorf("massive provider: %v", err)
	}
	if p, err := NewProvider("", "", "", 1); err != nil || p.Name() != "synthetic" {
		t.Errorf("default provider: %v", err)
	}
	if _, err := NewProvider("bloomberg", "", "", 1); err == nil {
		t.Error("unknown provider should fail")
	}
}
