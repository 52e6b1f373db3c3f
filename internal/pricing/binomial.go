package pricing

import (
	"fmt"
	"math"
)

// MaxSteps bounds the lattice size accepted by PriceAmerican.
const MaxSteps = 10000

// lattice holds the Cox-Ross-Rubinstein parameters for one pricing call.
type lattice struct {
	dt   float64 // length of one step in years
	u    float64 // up factor e^(σ√dt)
	d    float64 // down factor 1/u, so up-then-down recombines
	p    float64 // risk-neutral probability of an up move
	disc float64 // one-step discount factor e^(−r·dt)
}

func newLattice(p Params, steps int) (lattice, error) {
	dt := p.Maturity / float64(steps)
	u := math.Exp(p.Volatility * math.Sqrt(dt))
	d := 1 / u
	prob := (math.Exp(p.Rate*dt) - d) / (u - d)

	// !(0 < prob < 1) also catches NaN
	if !(prob > 0 && prob < 1) {
		return lattice{}, fmt.Errorf("%w: p=%v (r=%v σ=%v dt=%v)",
			ErrArbitrageParameter, prob, p.Rate, p.Volatility, dt)
	}

	return lattice{
		dt:   dt,
		u:    u,
		d:    d,
		p:    prob,
		disc: math.Exp(-p.Rate * dt),
	}, nil
}

// spotAt returns the underlying price after j up moves out of i steps.
func (l lattice) spotAt(s0 float64, i, j int) float64 {
	return s0 * math.Pow(l.u, float64(j)) * math.Pow(l.d, float64(i-j))
}

// PriceAmerican prices an American option on a Cox-Ross-Rubinstein binomial
// tree with `steps` time increments.
//
// The terminal layer holds intrinsic payoffs. Each earlier layer is resolved
// by backward induction: a node's value is the larger of its intrinsic value
// and the discounted risk-neutral expectation of its two children. The working
// buffer has steps+1 entries and is overwritten layer by layer, so memory is
// O(steps) and time is O(steps²).
//
// Errors: ErrInvalidOptionKind, ErrDomain, ErrInvalidStepCount (steps < 1 or
// > MaxSteps) and ErrArbitrageParameter when the up probability leaves (0,1).
func PriceAmerican(kind OptionKind, p Params, steps int) (float64, error) {
	if err := checkKind(kind); err != nil {
		return 0, err
	}
	if steps < 1 || steps > MaxSteps {
		return 0, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidStepCount, steps, MaxSteps)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	lat, err := newLattice(p, steps)
	if err != nil {
		return 0, err
	}

	values := make([]float64, steps+1)
	for j := 0; j <= steps; j++ {
		values[j] = kind.intrinsic(lat.spotAt(p.Spot, steps, j), p.Strike)
	}

	for i := steps - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			continuation := lat.disc * (lat.p*values[j+1] + (1-lat.p)*values[j])
			exercise := kind.intrinsic(lat.spotAt(p.Spot, i, j), p.Strike)
			values[j] = max(exercise, continuation)
		}
	}

	return values[0], nil
}
