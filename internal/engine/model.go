package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModel is returned for a pricing model name that is not recognised.
var ErrInvalidModel = errors.New("invalid pricing model")

// Model selects the pricer used for the headline price.
type Model int

const (
	European Model = iota + 1 // Black-Scholes closed form
	American                  // CRR binomial lattice
)

// ParseModel accepts european|eu|american|us, case-insensitively.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "european", "eu", "e":
		return European, nil
	case "american", "us", "a":
		return American, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidModel, s)
}

func (m Model) Valid() bool { return m == European || m == American }

func (m Model) String() string {
	switch m {
	case European:
		return "european"
	case American:
		return "american"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

func (m Model) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidModel, int(m))
	}
	return json.Marshal(m.String())
}

func (m *Model) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseModel(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
