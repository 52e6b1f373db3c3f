package pricing

import "errors"

// Errors returned by the pricing functions. Callers should match them with
// errors.Is since most call sites wrap them with extra context.
var (
	// ErrInvalidOptionKind is returned when the option kind is neither Call nor Put.
	ErrInvalidOptionKind = errors.New("invalid option kind")

	// ErrDomain is returned when spot, strike, maturity or volatility is not
	// strictly positive (log/sqrt/division would be undefined).
	ErrDomain = errors.New("parameter outside pricing domain")

	// ErrInvalidStepCount is returned when the lattice step count is < 1
	// or above MaxSteps.
	ErrInvalidStepCount = errors.New("invalid binomial step count")

	// ErrArbitrageParameter is returned when the risk-neutral up probability
	// of the lattice falls outside (0,1).
	ErrArbitrageParameter = errors.New("risk-neutral probability outside (0,1)")
)
