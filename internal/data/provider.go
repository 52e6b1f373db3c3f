// Package data supplies market inputs (spot and historical volatility) for a
// ticker so that options can be priced without typing every parameter.
package data

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/contactkeval/option-calc/internal/logger"
)

const (
	// TradingDaysPerYear annualises daily log-return volatility.
	TradingDaysPerYear = 252.0

	// DefaultVolatility is used when too few closes are available to
	// estimate volatility.
	DefaultVolatility = 0.30

	dateLayout = "2006-01-02"
)

// Provider supplies daily bars. Implementations may delegate to a secondary
// provider when they cannot serve a request.
type Provider interface {
	Name() string
	Secondary() Provider
	GetBars(ctx context.Context, ticker string, fromDate, toDate time.Time) ([]Bar, error)
}

// Bar simplified OHLC
type Bar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
	Vol   float64   `json:"volume"`
}

// MarketSnapshot is what the pricer needs from market data.
type MarketSnapshot struct {
	Ticker     string    `json:"ticker"`
	AsOf       time.Time `json:"as_of"`
	Spot       float64   `json:"spot"`
	Volatility float64   `json:"volatility"`
	Bars       int       `json:"bars"`
	Source     string    `json:"source"`
}

// NewProvider picks a provider by name: "massive" (requires an API key,
// falls back to synthetic data), "csv" (reads dir) or "synthetic".
func NewProvider(name, apiKey, dir string, seed int64) (Provider, error) {
	switch name {
	case "massive", "polygon":
		if apiKey == "" {
			apiKey = os.Getenv("POLYGON_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("massive provider needs an API key (POLYGON_API_KEY)")
		}
		return NewMassiveDataProvider(apiKey, NewSyntheticProvider(seed)), nil
	case "csv", "local":
		return NewLocalCSVProvider(dir, nil), nil
	case "synthetic", "":
		return NewSyntheticProvider(seed), nil
	}
	return nil, fmt.Errorf("unknown data provider %q", name)
}

// Snapshot resolves spot (last close on or before asOf) and annualised
// historical volatility over the preceding lookbackDays calendar days.
func Snapshot(ctx context.Context, prov Provider, ticker string, asOf time.Time, lookbackDays int) (MarketSnapshot, error) {
	if lookbackDays <= 0 {
		lookbackDays = 90
	}
	from := asOf.AddDate(0, 0, -lookbackDays)

	logger.Debugf("snapshot %s via %s [%s → %s]", ticker, prov.Name(),
		from.Format(dateLayout), asOf.Format(dateLayout))

	bars, err := prov.GetBars(ctx, ticker, from, asOf)
	if err != nil {
		return MarketSnapshot{}, fmt.Errorf("snapshot %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return MarketSnapshot{}, fmt.Errorf("snapshot %s: no bars between %s and %s",
			ticker, from.Format(dateLayout), asOf.Format(dateLayout))
	}

	closes := Closes(bars)
	last := bars[len(bars)-1]
	snap := MarketSnapshot{
		Ticker:     ticker,
		AsOf:       last.Date,
		Spot:       last.Close,
		Volatility: AnnualizedVolatility(closes),
		Bars:       len(bars),
		Source:     prov.Name(),
	}
	logger.Infof("%s spot=%.2f hist vol=%.2f%% (%d bars)", ticker, snap.Spot, snap.Volatility*100, snap.Bars)
	return snap, nil
}

// Closes extracts closing prices in bar order.
func Closes(bars []Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out
}

// AnnualizedVolatility is the sample standard deviation of daily log returns
// scaled by √252. Fewer than two usable closes yield DefaultVolatility.
func AnnualizedVolatility(closes []float64) float64 {
	rets := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	if len(rets) < 2 {
		return DefaultVolatility
	}
	return stat.StdDev(rets, nil) * math.Sqrt(TradingDaysPerYear)
}
