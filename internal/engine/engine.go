// Package engine ties the pricers, the Greeks and optional market data
// together into a single quote.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/contactkeval/option-calc/internal/data"
	"github.com/contactkeval/option-calc/internal/logger"
	"github.com/contactkeval/option-calc/internal/pricing"
)

// DefaultSteps is the lattice size used for American quotes when none is given.
const DefaultSteps = 100

// Request describes one quote. When Ticker is set, zero Spot or Volatility
// are filled from market data. A non-empty StrikeRule replaces
// Params.Strike once spot is known (see ResolveStrike).
type Request struct {
	Model      Model              `json:"model"`
	Kind       pricing.OptionKind `json:"kind"`
	Params     pricing.Params     `json:"params"`
	Steps      int                `json:"steps,omitempty"`
	Ticker     string             `json:"ticker,omitempty"`
	StrikeRule string             `json:"strike_rule,omitempty"`
}

// Quote is the priced result. Greeks are always the Black-Scholes analytic
// sensitivities, whichever model produced Price.
type Quote struct {
	Model      Model              `json:"model"`
	Kind       pricing.OptionKind `json:"kind"`
	Params     pricing.Params     `json:"params"`
	Steps      int                `json:"steps,omitempty"`
	StrikeRule string             `json:"strike_rule,omitempty"`
	Price      float64            `json:"price"`
	Greeks     pricing.Greeks     `json:"greeks"`
	Source     string             `json:"source"`
}

// Engine prices requests. The zero value works without market data.
type Engine struct {
	prov     data.Provider
	lookback int
	now      func() time.Time
}

// New returns an Engine. prov may be nil, in which case ticker requests fail.
func New(prov data.Provider, lookbackDays int) *Engine {
	return &Engine{prov: prov, lookback: lookbackDays, now: time.Now}
}

// Quote prices a single option.
func (e *Engine) Quote(ctx context.Context, req Request) (Quote, error) {
	if !req.Model.Valid() {
		return Quote{}, fmt.Errorf("%w: %d", ErrInvalidModel, int(req.Model))
	}
	if !req.Kind.Valid() {
		return Quote{}, fmt.Errorf("%w: %d", pricing.ErrInvalidOptionKind, int(req.Kind))
	}

	q := Quote{Model: req.Model, Kind: req.Kind, Params: req.Params, StrikeRule: req.StrikeRule, Source: "input"}

	if req.Ticker != "" && (req.Params.Spot == 0 || req.Params.Volatility == 0) {
		if err := e.fillMarket(ctx, req.Ticker, &q); err != nil {
			return Quote{}, err
		}
	}

	if req.StrikeRule != "" {
		strike, err := ResolveStrike(req.StrikeRule, q.Params.Spot)
		if err != nil {
			return Quote{}, err
		}
		logger.Debugf("strike rule %q at spot %.4f → %.4f", req.StrikeRule, q.Params.Spot, strike)
		q.Params.Strike = strike
	}

	var err error
	switch req.Model {
	case European:
		q.Price, err = pricing.PriceEuropean(q.Kind, q.Params)
	case American:
		q.Steps = req.Steps
		if q.Steps == 0 {
			q.Steps = DefaultSteps
		}
		q.Price, err = pricing.PriceAmerican(q.Kind, q.Params, q.Steps)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("%s %s price: %w", q.Model, q.Kind, err)
	}

	q.Greeks, err = pricing.ComputeGreeks(q.Kind, q.Params)
	if err != nil {
		return Quote{}, fmt.Errorf("%s greeks: %w", q.Kind, err)
	}

	logger.Debugf("quote %s %s S=%.4f K=%.4f T=%.4f r=%.4f σ=%.4f → %.6f",
		q.Model, q.Kind, q.Params.Spot, q.Params.Strike, q.Params.Maturity,
		q.Params.Rate, q.Params.Volatility, q.Price)
	return q, nil
}

// QuoteBoth prices the call and the put for the same request, ignoring req.Kind.
func (e *Engine) QuoteBoth(ctx context.Context, req Request) (call, put Quote, err error) {
	req.Kind = pricing.Call
	call, err = e.Quote(ctx, req)
	if err != nil {
		return Quote{}, Quote{}, err
	}
	// Reuse the resolved market inputs so both legs see the same snapshot.
	req.Kind = pricing.Put
	req.Params = call.Params
	req.Ticker = ""
	req.StrikeRule = ""
	put, err = e.Quote(ctx, req)
	if err != nil {
		return Quote{}, Quote{}, err
	}
	put.Source = call.Source
	put.StrikeRule = call.StrikeRule
	return call, put, nil
}

func (e *Engine) fillMarket(ctx context.Context, ticker string, q *Quote) error {
	if e == nil || e.prov == nil {
		return fmt.Errorf("ticker %s: no market data provider configured", ticker)
	}
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	snap, err := data.Snapshot(ctx, e.prov, ticker, now(), e.lookback)
	if err != nil {
		return err
	}
	if q.Params.Spot == 0 {
		q.Params.Spot = snap.Spot
	}
	if q.Params.Volatility == 0 {
		q.Params.Volatility = snap.Volatility
	}
	q.Source = snap.Source
	return nil
}
