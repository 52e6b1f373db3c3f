package pricing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OptionKind is the exercise right of a vanilla option.
type OptionKind int

const (
	Call OptionKind = iota + 1 // right to buy at the strike
	Put                        // right to sell at the strike
)

// ParseOptionKind converts user input ("call", "C", "put", "p") into an
// OptionKind. Matching is case-insensitive and ignores surrounding spaces.
func ParseOptionKind(s string) (OptionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOptionKind, s)
}

// Valid reports whether k is Call or Put.
func (k OptionKind) Valid() bool {
	return k == Call || k == Put
}

func (k OptionKind) String() string {
	switch k {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("OptionKind(%d)", int(k))
}

// MarshalJSON encodes the kind as "call" or "put".
func (k OptionKind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOptionKind, int(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the same spellings as ParseOptionKind.
func (k *OptionKind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseOptionKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// intrinsic returns the immediate exercise value at underlying price s.
func (k OptionKind) intrinsic(s, strike float64) float64 {
	if k == Call {
		return max(s-strike, 0)
	}
	return max(strike-s, 0)
}

func checkKind(k OptionKind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOptionKind, int(k))
	}
	return nil
}
