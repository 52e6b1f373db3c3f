// Package surface evaluates European prices over a spot × volatility grid,
// the data behind a price heatmap.
package surface

import (
	"errors"
	"fmt"

	"github.com/contactkeval/option-calc/internal/pricing"
)

// ErrInvalidAxis is returned for an empty or non-positive axis.
var ErrInvalidAxis = errors.New("invalid surface axis")

const (
	// DefaultPoints is the resolution of each axis when none is given.
	DefaultPoints = 100
	// MaxPoints caps each axis.
	MaxPoints = 1000
)

// Axis is an inclusive, evenly spaced range. A zero Axis means "use the default".
type Axis struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Points int     `json:"points"`
}

// Values returns the Points coordinates from Min to Max.
func (a Axis) Values() []float64 {
	if a.Points == 1 {
		return []float64{a.Min}
	}
	out := make([]float64, a.Points)
	step := (a.Max - a.Min) / float64(a.Points-1)
	for i := range out {
		out[i] = a.Min + float64(i)*step
	}
	out[len(out)-1] = a.Max
	return out
}

func (a Axis) validate(name string) error {
	if a.Points < 1 || a.Points > MaxPoints {
		return fmt.Errorf("%w: %s points must be in [1, %d], got %d", ErrInvalidAxis, name, MaxPoints, a.Points)
	}
	if a.Min <= 0 || a.Max < a.Min {
		return fmt.Errorf("%w: %s needs 0 < min ≤ max, got [%g, %g]", ErrInvalidAxis, name, a.Min, a.Max)
	}
	return nil
}

// Grid holds Prices[i][j] for Vols[i] and Spots[j].
type Grid struct {
	Kind   pricing.OptionKind `json:"kind"`
	Base   pricing.Params     `json:"base"`
	Spots  []float64          `json:"spots"`
	Vols   []float64          `json:"vols"`
	Prices [][]float64        `json:"prices"`
}

// DefaultSpotAxis spans half to one and a half times spot.
func DefaultSpotAxis(spot float64) Axis {
	return Axis{Min: 0.5 * spot, Max: 1.5 * spot, Points: DefaultPoints}
}

// DefaultVolAxis spans 1% to 100% volatility.
func DefaultVolAxis() Axis {
	return Axis{Min: 0.01, Max: 1.0, Points: DefaultPoints}
}

// Build prices every (vol, spot) cell with the Black-Scholes formula, keeping
// strike, maturity and rate from base. The first pricing error aborts the build.
func Build(kind pricing.OptionKind, base pricing.Params, spot, vol Axis) (*Grid, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", pricing.ErrInvalidOptionKind, int(kind))
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if spot == (Axis{}) {
		spot = DefaultSpotAxis(base.Spot)
	}
	if vol == (Axis{}) {
		vol = DefaultVolAxis()
	}
	if err := spot.validate("spot"); err != nil {
		return nil, err
	}
	if err := vol.validate("volatility"); err != nil {
		return nil, err
	}

	g := &Grid{Kind: kind, Base: base, Spots: spot.Values(), Vols: vol.Values()}
	g.Prices = make([][]float64, len(g.Vols))
	for i, sigma := range g.Vols {
		row := make([]float64, len(g.Spots))
		for j, s := range g.Spots {
			p := base
			p.Spot, p.Volatility = s, sigma
			price, err := pricing.PriceEuropean(kind, p)
			if err != nil {
				return nil, fmt.Errorf("cell (σ=%g, S=%g): %w", sigma, s, err)
			}
			row[j] = price
		}
		g.Prices[i] = row
	}
	return g, nil
}
