package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormCDF is the standard normal cumulative distribution function Φ(x).
func NormCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

// NormPDF is the standard normal density φ(x).
func NormPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

// D1D2 returns the standardized distances used by every Black-Scholes formula:
//
//	d1 = (ln(S/K) + (r + σ²/2)·T) / (σ·√T)
//	d2 = d1 − σ·√T
//
// The European pricer and all Greeks go through this one function so that a
// quoted price and its sensitivities share identical rounding.
func D1D2(p Params) (d1, d2 float64, err error) {
	if err := p.Validate(); err != nil {
		return 0, 0, err
	}
	volSqrtT := p.Volatility * math.Sqrt(p.Maturity)
	d1 = (math.Log(p.Spot/p.Strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*p.Maturity) / volSqrtT
	d2 = d1 - volSqrtT
	return d1, d2, nil
}
