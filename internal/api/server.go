// Package api exposes the pricing engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/contactkeval/option-calc/internal/engine"
	"github.com/contactkeval/option-calc/internal/logger"
	"github.com/contactkeval/option-calc/internal/pricing"
	"github.com/contactkeval/option-calc/internal/surface"
)

// Server holds the handlers' dependencies.
type Server struct {
	eng      *engine.Engine
	validate *validator.Validate
}

// NewServer returns a Server pricing through eng.
func NewServer(eng *engine.Engine) *Server {
	return &Server{eng: eng, validate: validator.New()}
}

// Router wires every route onto a new gorilla/mux router.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(logRequests)

	r.HandleFunc("/api/v1/price", s.PriceHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/greeks", s.GreeksHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/quote", s.QuoteHandler).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/surface", s.SurfaceHandler).Methods(http.MethodPost)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debugf("%s %s in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("encode response: %v", err)
	}
}

// writeError maps validation and pricing errors to client statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, errBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, pricing.ErrInvalidOptionKind),
		errors.Is(err, pricing.ErrDomain),
		errors.Is(err, pricing.ErrInvalidStepCount),
		errors.Is(err, pricing.ErrArbitrageParameter),
		errors.Is(err, engine.ErrInvalidModel),
		errors.Is(err, engine.ErrInvalidStrikeRule),
		errors.Is(err, surface.ErrInvalidAxis):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
