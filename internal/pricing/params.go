package pricing

import (
	"fmt"
	"math"
)

// Params holds the market and contract inputs shared by every pricer.
//
// Spot, Strike, Maturity (years) and Volatility (annualised, decimal) must be
// strictly positive. Rate is the continuously compounded annual risk-free rate
// and may be any finite value.
type Params struct {
	Spot       float64 `json:"spot" yaml:"spot"`
	Strike     float64 `json:"strike" yaml:"strike"`
	Maturity   float64 `json:"maturity" yaml:"maturity"`
	Rate       float64 `json:"rate" yaml:"rate"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
}

// Validate returns ErrDomain if any input would make the closed-form or the
// lattice undefined.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"spot", p.Spot},
		{"strike", p.Strike},
		{"maturity", p.Maturity},
		{"volatility", p.Volatility},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%w: %s must be > 0, got %v", ErrDomain, f.name, f.v)
		}
	}
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) {
		return fmt.Errorf("%w: rate must be finite, got %v", ErrDomain, p.Rate)
	}
	return nil
}

// discount is e^(-rT).
func (p Params) discount() float64 {
	return math.Exp(-p.Rate * p.Maturity)
}
