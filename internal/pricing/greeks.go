package pricing

import "math"

// Scaling applied to the raw partial derivatives so that the reported values
// read as "per unit the user actually thinks in".
const (
	perVolPoint  = 100.0 // Vega: per 1 percentage point of volatility
	perRatePoint = 100.0 // Rho: per 1 percentage point of rate
	daysPerYear  = 365.0 // Theta: per calendar day
)

// Greeks are the Black-Scholes sensitivities of one option.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// ComputeGreeks evaluates all five sensitivities from a single d1/d2 pair.
// The values are always the closed-form European ones, whichever model
// produced the headline price.
func ComputeGreeks(kind OptionKind, p Params) (Greeks, error) {
	if err := checkKind(kind); err != nil {
		return Greeks{}, err
	}
	d1, d2, err := D1D2(p)
	if err != nil {
		return Greeks{}, err
	}
	return Greeks{
		Delta: delta(kind, d1),
		Gamma: gamma(p, d1),
		Vega:  vega(p, d1),
		Theta: theta(kind, p, d1, d2),
		Rho:   rho(kind, p, d2),
	}, nil
}

// Delta is ∂V/∂S: Φ(d1) for a call, Φ(d1) − 1 for a put.
func Delta(kind OptionKind, p Params) (float64, error) {
	d1, _, err := prepare(kind, p)
	if err != nil {
		return 0, err
	}
	return delta(kind, d1), nil
}

// Gamma is ∂²V/∂S² = φ(d1) / (S·σ·√T). It is the same for calls and puts;
// kind is only validated.
func Gamma(kind OptionKind, p Params) (float64, error) {
	d1, _, err := prepare(kind, p)
	if err != nil {
		return 0, err
	}
	return gamma(p, d1), nil
}

// Vega is S·φ(d1)·√T per 1 percentage point of volatility. Kind-independent.
//
// Vega is positive for every valid input, but φ(d1) underflows to 0 in
// float64 once |d1| exceeds about 38.6 (deep in or out of the money with a
// small σ√T), so the returned value is ≥ 0 rather than > 0. Gamma shares
// the same limit.
func Vega(kind OptionKind, p Params) (float64, error) {
	d1, _, err := prepare(kind, p)
	if err != nil {
		return 0, err
	}
	return vega(p, d1), nil
}

// Theta is the time decay per calendar day. Usually negative, though deep
// in-the-money puts at high rates can decay upwards.
func Theta(kind OptionKind, p Params) (float64, error) {
	d1, d2, err := prepare(kind, p)
	if err != nil {
		return 0, err
	}
	return theta(kind, p, d1, d2), nil
}

// Rho is the sensitivity to a 1 percentage point move in the rate.
// Positive for calls, negative for puts.
func Rho(kind OptionKind, p Params) (float64, error) {
	_, d2, err := prepare(kind, p)
	if err != nil {
		return 0, err
	}
	return rho(kind, p, d2), nil
}

func prepare(kind OptionKind, p Params) (d1, d2 float64, err error) {
	if err := checkKind(kind); err != nil {
		return 0, 0, err
	}
	return D1D2(p)
}

func delta(kind OptionKind, d1 float64) float64 {
	if kind == Call {
		return NormCDF(d1)
	}
	return NormCDF(d1) - 1
}

func gamma(p Params, d1 float64) float64 {
	return NormPDF(d1) / (p.Spot * p.Volatility * math.Sqrt(p.Maturity))
}

func vega(p Params, d1 float64) float64 {
	return p.Spot * NormPDF(d1) * math.Sqrt(p.Maturity) / perVolPoint
}

func theta(kind OptionKind, p Params, d1, d2 float64) float64 {
	decay := -p.Spot * NormPDF(d1) * p.Volatility / (2 * math.Sqrt(p.Maturity))
	carry := p.Rate * p.Strike * p.discount()
	if kind == Call {
		return (decay - carry*NormCDF(d2)) / daysPerYear
	}
	return (decay + carry*NormCDF(-d2)) / daysPerYear
}

func rho(kind OptionKind, p Params, d2 float64) float64 {
	base := p.Strike * p.Maturity * p.discount()
	if kind == Call {
		return base * NormCDF(d2) / perRatePoint
	}
	return -base * NormCDF(-d2) / perRatePoint
}
