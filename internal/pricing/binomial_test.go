package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/contactkeval/option-calc/internal/testutil"
)

// Without dividends an American call is never exercised early, so the
// lattice should converge to Black-Scholes.
func TestPriceAmericanCallConvergence(t *testing.T) {
	bs, _ := PriceEuropean(Call, atm)
	binom, err := PriceAmerican(Call, atm, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertRel(t, "american call", binom, bs, 1e-2)
}

func TestPriceAmericanPutReference(t *testing.T) {
	binom, err := PriceAmerican(Put, atm, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertRel(t, "american put", binom, 6.0877, 1e-3)
}

// American put should be ≥ European put for any step count
func TestPriceAmericanPutPremiumNonNegative(t *testing.T) {
	bs, _ := PriceEuropean(Put, atm)
	for steps := 1; steps <= 150; steps++ {
		binom, err := PriceAmerican(Put, atm, steps)
		if err != nil {
			t.Fatalf("steps=%d: unexpected error: %v", steps, err)
		}
		if binom < bs {
			t.Fatalf("steps=%d: american put %f < european put %f", steps, binom, bs)
		}
	}
}

func TestPriceAmericanSingleStep(t *testing.T) {
	for _, kind := range []OptionKind{Call, Put} {
		got, err := PriceAmerican(kind, atm, 1)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if math.IsNaN(got) {
			t.Fatalf("%s: got NaN", kind)
		}

		u := math.Exp(atm.Volatility)
		d := 1 / u
		p := (math.Exp(atm.Rate) - d) / (u - d)
		up := kind.intrinsic(atm.Spot*u, atm.Strike)
		down := kind.intrinsic(atm.Spot*d, atm.Strike)
		want := max(kind.intrinsic(atm.Spot, atm.Strike), math.Exp(-atm.Rate)*(p*up+(1-p)*down))

		testutil.AssertAbs(t, kind.String(), got, want, 1e-12)
	}
}

// Deep in-the-money put: immediate exercise dominates.
func TestPriceAmericanEarlyExercise(t *testing.T) {
	p := Params{Spot: 100, Strike: 110, Maturity: 0.25, Rate: 0.08, Volatility: 0.15}
	got, err := PriceAmerican(Put, p, 200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertAbs(t, "deep ITM put", got, 10.0, 1e-9)
}

func TestPriceAmericanInvalidSteps(t *testing.T) {
	for _, steps := range []int{0, -5, MaxSteps + 1} {
		_, err := PriceAmerican(Put, atm, steps)
		if !errors.Is(err, ErrInvalidStepCount) {
			t.Fatalf("steps=%d: expected ErrInvalidStepCount, got %v", steps, err)
		}
	}
}

func TestPriceAmericanArbitrageParameters(t *testing.T) {
	// e^(r·dt) > u when the rate dwarfs the volatility over one step
	p := Params{Spot: 100, Strike: 100, Maturity: 1, Rate: 0.5, Volatility: 0.05}
	_, err := PriceAmerican(Call, p, 1)
	if !errors.Is(err, ErrArbitrageParameter) {
		t.Fatalf("expected ErrArbitrageParameter, got %v", err)
	}
}

func TestPriceAmericanDomainError(t *testing.T) {
	p := atm
	p.Maturity = 0
	_, err := PriceAmerican(Put, p, 10)
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("expected ErrDomain, got %v", err)
	}
}

func TestPriceAmericanIdempotent(t *testing.T) {
	a, _ := PriceAmerican(Put, atm, 250)
	b, _ := PriceAmerican(Put, atm, 250)
	if math.Float64bits(a) != math.Float64bits(b) {
		t.Fatalf("expected bit-identical results, got %v and %v", a, b)
	}
}
