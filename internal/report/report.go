// Package report renders quotes and price surfaces for people and files.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-calc/internal/engine"
	"github.com/contactkeval/option-calc/internal/pricing"
	"github.com/contactkeval/option-calc/internal/surface"
)

// Explain turns Greek values into one plain-language sentence each, in the
// order Delta, Gamma, Vega, Theta, Rho.
func Explain(g pricing.Greeks) []string {
	return []string{
		fmt.Sprintf("Delta: A $1 change in stock price will %s the option price by approximately $%.2f.",
			direction(g.Delta), math.Abs(g.Delta)),
		fmt.Sprintf("Gamma: For every $1 change in stock price, Delta changes by approximately %.4f.", g.Gamma),
		fmt.Sprintf("Vega: A 1%% increase in volatility will change the option price by approximately $%.2f.", g.Vega),
		fmt.Sprintf("Theta: The option will lose approximately $%.2f per day due to time decay.", -g.Theta),
		fmt.Sprintf("Rho: A 1%% rise in interest rate will %s the option price by approximately $%.2f.",
			direction(g.Rho), math.Abs(g.Rho)),
	}
}

func direction(v float64) string {
	if v >= 0 {
		return "increase"
	}
	return "decrease"
}

// WriteQuoteJSON writes quotes to <outdir>/quotes.json.
func WriteQuoteJSON(quotes []engine.Quote, outdir string) error {
	b, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "quotes.json"), b, 0644)
}

// WriteQuotesCSV writes one row per quote with fixed-precision numbers.
func WriteQuotesCSV(w io.Writer, quotes []engine.Quote) error {
	cw := csv.NewWriter(w)
	headers := []string{"model", "kind", "spot", "strike", "maturity", "rate", "volatility", "steps",
		"price", "delta", "gamma", "vega", "theta", "rho", "source"}
	if err := cw.Write(headers); err != nil {
		return err
	}
	for _, q := range quotes {
		row := []string{
			q.Model.String(), q.Kind.String(),
			fixed(q.Params.Spot, 4), fixed(q.Params.Strike, 4), fixed(q.Params.Maturity, 6),
			fixed(q.Params.Rate, 6), fixed(q.Params.Volatility, 6),
			fmt.Sprintf("%d", q.Steps),
			fixed(q.Price, 6),
			fixed(q.Greeks.Delta, 6), fixed(q.Greeks.Gamma, 6), fixed(q.Greeks.Vega, 6),
			fixed(q.Greeks.Theta, 6), fixed(q.Greeks.Rho, 6),
			q.Source,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSurfaceCSV writes a grid as a matrix: the header row holds the spot
// axis and each following row starts with its volatility.
func WriteSurfaceCSV(w io.Writer, g *surface.Grid) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(g.Spots)+1)
	header = append(header, "volatility\\spot")
	for _, s := range g.Spots {
		header = append(header, fixed(s, 4))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, sigma := range g.Vols {
		row := make([]string, 0, len(g.Spots)+1)
		row = append(row, fixed(sigma, 4))
		for _, price := range g.Prices[i] {
			row = append(row, fixed(price, 4))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSurfaceFile writes the grid to <outdir>/surface_<kind>.csv.
func WriteSurfaceFile(g *surface.Grid, outdir string) (string, error) {
	path := filepath.Join(outdir, "surface_"+g.Kind.String()+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteSurfaceCSV(f, g); err != nil {
		return "", err
	}
	return path, nil
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
