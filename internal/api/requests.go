package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/contactkeval/option-calc/internal/engine"
	"github.com/contactkeval/option-calc/internal/pricing"
	"github.com/contactkeval/option-calc/internal/surface"
)

const daysPerYear = 365.0

// OptionRequest is the body shared by every pricing route. Maturity may be
// given in years or, as in the web form, in calendar days. Spot and
// volatility may be left at zero when Ticker is set. StrikeRule, such as
// "ATM+5" or "spot*1.05", takes the place of Strike.
type OptionRequest struct {
	Model        string  `json:"model" validate:"omitempty,oneof=european eu american us"`
	Kind         string  `json:"kind" validate:"omitempty,oneof=call c put p"`
	Spot         float64 `json:"spot" validate:"gte=0"`
	Strike       float64 `json:"strike" validate:"required_without=StrikeRule,gte=0"`
	StrikeRule   string  `json:"strike_rule" validate:"omitempty,max=64"`
	Maturity     float64 `json:"maturity" validate:"gte=0"`
	MaturityDays float64 `json:"maturity_days" validate:"gte=0"`
	Rate         float64 `json:"rate" validate:"gte=-1,lte=1"`
	Volatility   float64 `json:"volatility" validate:"gte=0"`
	Steps        int     `json:"steps" validate:"gte=0,lte=10000"`
	Ticker       string  `json:"ticker" validate:"omitempty,max=12"`
}

// SurfaceRequest adds optional axes to an OptionRequest.
type SurfaceRequest struct {
	OptionRequest
	SpotAxis surface.Axis `json:"spot_axis"`
	VolAxis  surface.Axis `json:"vol_axis"`
}

func (s *Server) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode body: %v", errBadRequest, err)
	}
	return nil
}

// toEngine validates the body and converts it to an engine request.
func (s *Server) toEngine(req OptionRequest) (engine.Request, error) {
	req.Model = strings.ToLower(strings.TrimSpace(req.Model))
	req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
	if err := s.validate.Struct(req); err != nil {
		return engine.Request{}, err
	}

	out := engine.Request{
		Model:      engine.European,
		Kind:       pricing.Call,
		Steps:      req.Steps,
		Ticker:     req.Ticker,
		StrikeRule: req.StrikeRule,
	}
	var err error
	if req.Model != "" {
		if out.Model, err = engine.ParseModel(req.Model); err != nil {
			return engine.Request{}, err
		}
	}
	if req.Kind != "" {
		if out.Kind, err = pricing.ParseOptionKind(req.Kind); err != nil {
			return engine.Request{}, err
		}
	}

	maturity := req.Maturity
	if maturity == 0 && req.MaturityDays > 0 {
		maturity = req.MaturityDays / daysPerYear
	}
	out.Params = pricing.Params{
		Spot:       req.Spot,
		Strike:     req.Strike,
		Maturity:   maturity,
		Rate:       req.Rate,
		Volatility: req.Volatility,
	}
	return out, nil
}
