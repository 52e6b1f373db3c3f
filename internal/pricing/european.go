package pricing

// PriceEuropean prices a European option with the Black-Scholes closed form
// (no dividends).
//
// Parameters:
//   - kind: Call or Put
//   - p: spot, strike, maturity (years), rate and volatility
//
// Returns:
//
//	Call: S·Φ(d1) − K·e^(−rT)·Φ(d2)
//	Put:  K·e^(−rT)·Φ(−d2) − S·Φ(−d1)
//
// ErrInvalidOptionKind is returned for an unknown kind, ErrDomain when the
// inputs are not strictly positive.
func PriceEuropean(kind OptionKind, p Params) (float64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	d1, d2, err := D1D2(p)
	if err != nil {
		return 0, err
	}

	df := p.discount()
	if kind == Call {
		return p.Spot*NormCDF(d1) - p.Strike*df*NormCDF(d2), nil
	}
	return p.Strike*df*NormCDF(-d2) - p.Spot*NormCDF(-d1), nil
}
