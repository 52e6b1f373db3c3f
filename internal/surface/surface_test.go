package surface

import (
	"errors"
	"testing"

	"github.com/contactkeval/option-calc/internal/pricing"
	"github.com/contactkeval/option-calc/internal/testutil"
)

var base = pricing.Params{Spot: 100, Strike: 100, Maturity: 1, Rate: 0.05, Volatility: 0.20}

func TestAxisValues(t *testing.T) {
	got := Axis{Min: 1, Max: 2, Points: 5}.Values()
	want := []float64{1, 1.25, 1.5, 1.75, 2}
	for i := range want {
		testutil.AssertAbs(t, "axis", got[i], want[i], 1e-12)
	}
	if v := (Axis{Min: 3, Max: 9, Points: 1}).Values(); len(v) != 1 || v[0] != 3 {
		t.Errorf("single point axis = %v", v)
	}
}

func TestBuild_Defaults(t *testing.T) {
	g, err := Build(pricing.Call, base, Axis{}, Axis{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(g.Spots) != DefaultPoints || len(g.Vols) != DefaultPoints || len(g.Prices) != DefaultPoints {
		t.Fatalf("unexpected shape %dx%d", len(g.Vols), len(g.Spots))
	}
	if g.Spots[0] != 50 || g.Spots[DefaultPoints-1] != 150 {
		t.Errorf("spot axis [%v, %v]", g.Spots[0], g.Spots[DefaultPoints-1])
	}
	if g.Vols[0] != 0.01 || g.Vols[DefaultPoints-1] != 1.0 {
		t.Errorf("vol axis [%v, %v]", g.Vols[0], g.Vols[DefaultPoints-1])
	}

	// Call prices rise with spot and with volatility.
	for i := range g.Prices {
		for j := 1; j < len(g.Prices[i]); j++ {
			if g.Prices[i][j] < g.Prices[i][j-1]-1e-12 {
				t.Fatalf("price not monotone in spot at σ=%v", g.Vols[i])
			}
		}
	}
	for i := 1; i < len(g.Prices); i++ {
		if g.Prices[i][50] < g.Prices[i-1][50]-1e-12 {
			t.Fatalf("price not monotone in vol at row %d", i)
		}
	}
}

func TestBuild_CellMatchesPricer(t *testing.T) {
	g, err := Build(pricing.Put, base, Axis{Min: 90, Max: 110, Points: 3}, Axis{Min: 0.1, Max: 0.3, Points: 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := base
	p.Spot, p.Volatility = 110, 0.2
	want, _ := pricing.PriceEuropean(pricing.Put, p)
	testutil.AssertAbs(t, "cell", g.Prices[1][2], want, 1e-12)
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(pricing.OptionKind(0), base, Axis{}, Axis{}); !errors.Is(err, pricing.ErrInvalidOptionKind) {
		t.Errorf("kind: %v", err)
	}
	bad := base
	bad.Strike = -1
	if _, err := Build(pricing.Call, bad, Axis{}, Axis{}); !errors.Is(err, pricing.ErrDomain) {
		t.Errorf("base: %v", err)
	}
	if _, err := Build(pricing.Call, base, Axis{}, Axis{Min: 0, Max: 1, Points: 4}); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("zero vol axis: %v", err)
	}
	if _, err := Build(pricing.Call, base, Axis{Min: 1, Max: 2, Points: 0}, Axis{}); !errors.Is(err, ErrInvalidAxis) {
		t.Error("zero points should fail")
	}
}
