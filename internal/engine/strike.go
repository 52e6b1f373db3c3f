package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// ErrInvalidStrikeRule is returned when a strike rule cannot be evaluated to a number.
var ErrInvalidStrikeRule = errors.New("invalid strike rule")

// ResolveStrike turns a strike rule into a price. A rule is either a plain
// number or an arithmetic expression over the underlying price, available as
// ATM, spot or S:
//
//	"105"        → 105
//	"ATM"        → spot
//	"ATM+5"      → spot + 5
//	"spot*1.05"  → 5% out of the money for a call
func ResolveStrike(rule string, spot float64) (float64, error) {
	rule = strings.TrimSpace(rule)
	if v, err := strconv.ParseFloat(rule, 64); err == nil {
		return v, nil
	}

	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidStrikeRule, rule, err)
	}
	result, err := expr.Evaluate(map[string]interface{}{
		"ATM":  spot,
		"atm":  spot,
		"spot": spot,
		"SPOT": spot,
		"S":    spot,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidStrikeRule, rule, err)
	}

	f, ok := result.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q evaluated to %v", ErrInvalidStrikeRule, rule, result)
	}
	return f, nil
}
