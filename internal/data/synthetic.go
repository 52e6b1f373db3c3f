package data

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"time"
)

// synthDataProvider generates reproducible geometric Brownian motion bars.
// It never fails and is the usual last resort in a provider chain.
type synthDataProvider struct {
	seed      int64
	drift     float64
	vol       float64
	secondary Provider
}

// NewSyntheticProvider returns a provider whose bars depend only on seed,
// ticker and the requested dates. Annual drift is 5% and volatility 25%.
func NewSyntheticProvider(seed int64) Provider {
	return &synthDataProvider{seed: seed, drift: 0.05, vol: 0.25}
}

func (synthDataProv *synthDataProvider) Name() string { return "synthetic" }

func (synthDataProv *synthDataProvider) Secondary() Provider {
	return synthDataProv.secondary
}

func (synthDataProv *synthDataProvider) GetBars(ctx context.Context, ticker string, fromDate, toDate time.Time) ([]Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(synthDataProv.seed + tickerSeed(ticker)))
	price := 100.0 + float64(rng.Intn(200))

	dt := 1 / TradingDaysPerYear
	mu := (synthDataProv.drift - 0.5*synthDataProv.vol*synthDataProv.vol) * dt
	sd := synthDataProv.vol * math.Sqrt(dt)

	var out []Bar
	for cur := fromDate; !cur.After(toDate); cur = cur.AddDate(0, 0, 1) {
		if cur.Weekday() == time.Saturday || cur.Weekday() == time.Sunday {
			continue
		}
		open := price
		close := price * math.Exp(mu+sd*rng.NormFloat64())
		high := math.Max(open, close) * (1 + math.Abs(rng.NormFloat64())*0.002)
		low := math.Min(open, close) * (1 - math.Abs(rng.NormFloat64())*0.002)
		out = append(out, Bar{Date: cur, Open: open, High: high, Low: low, Close: close, Vol: float64(1000 + rng.Intn(5000))})
		price = close
	}
	return out, nil
}

// tickerSeed gives each ticker its own path for a given seed.
func tickerSeed(ticker string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return int64(h.Sum64() >> 1)
}
