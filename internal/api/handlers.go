package api

import (
	"net/http"
	"strings"

	"github.com/contactkeval/option-calc/internal/engine"
	"github.com/contactkeval/option-calc/internal/pricing"
	"github.com/contactkeval/option-calc/internal/report"
	"github.com/contactkeval/option-calc/internal/surface"
)

// PriceResponse carries both prices for the selected model.
type PriceResponse struct {
	Model  engine.Model   `json:"model"`
	Params pricing.Params `json:"params"`
	Steps  int            `json:"steps,omitempty"`
	Call   float64        `json:"call"`
	Put    float64        `json:"put"`
	Source string         `json:"source"`
}

// GreeksResponse carries the Greeks and their explanations.
type GreeksResponse struct {
	Kind         pricing.OptionKind `json:"kind"`
	Greeks       pricing.Greeks     `json:"greeks"`
	Explanations []string           `json:"explanations"`
}

// QuoteResponse is a full quote with explanations.
type QuoteResponse struct {
	engine.Quote
	Explanations []string `json:"explanations"`
}

// PriceHandler prices the call and the put with the requested model.
func (s *Server) PriceHandler(w http.ResponseWriter, r *http.Request) {
	var body OptionRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.toEngine(body)
	if err != nil {
		writeError(w, err)
		return
	}
	call, put, err := s.eng.QuoteBoth(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PriceResponse{
		Model:  call.Model,
		Params: call.Params,
		Steps:  call.Steps,
		Call:   call.Price,
		Put:    put.Price,
		Source: call.Source,
	})
}

// GreeksHandler returns the five Greeks for the requested kind.
func (s *Server) GreeksHandler(w http.ResponseWriter, r *http.Request) {
	var body OptionRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.toEngine(body)
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := s.eng.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GreeksResponse{Kind: q.Kind, Greeks: q.Greeks, Explanations: report.Explain(q.Greeks)})
}

// QuoteHandler returns price and Greeks for the requested model and kind.
func (s *Server) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	var body OptionRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.toEngine(body)
	if err != nil {
		writeError(w, err)
		return
	}
	q, err := s.eng.Quote(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{Quote: q, Explanations: report.Explain(q.Greeks)})
}

// SurfaceHandler returns the European price grid, as CSV when the client
// asks for text/csv and JSON otherwise.
func (s *Server) SurfaceHandler(w http.ResponseWriter, r *http.Request) {
	var body SurfaceRequest
	if err := s.decode(r, &body); err != nil {
		writeError(w, err)
		return
	}
	req, err := s.toEngine(body.OptionRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	// Resolve market inputs through the engine so ticker requests work here too.
	q, err := s.eng.Quote(r.Context(), engine.Request{
		Model:      engine.European,
		Kind:       req.Kind,
		Params:     req.Params,
		Ticker:     req.Ticker,
		StrikeRule: req.StrikeRule,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	g, err := surface.Build(req.Kind, q.Params, body.SpotAxis, body.VolAxis)
	if err != nil {
		writeError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/csv") {
		w.Header().Set("Content-Type", "text/csv")
		if err := report.WriteSurfaceCSV(w, g); err != nil {
			writeError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, g)
}
