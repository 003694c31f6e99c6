package lattice

import "fmt"

// Anonymity classifies a node.
type Anonymity uint8

const (
	// Unknown means no usable information was recorded.
	Unknown Anonymity = iota
	Anonymous
	NotAnonymous
	// ProbablyAnonymous is Anonymous inferred under a heuristic monotonicity assumption.
	ProbablyAnonymous
	// ProbablyNotAnonymous is NotAnonymous inferred under a heuristic monotonicity assumption.
	ProbablyNotAnonymous
)

var anonymityNames = [...]string{
	Unknown:              "UNKNOWN",
	Anonymous:            "ANONYMOUS",
	NotAnonymous:         "NOT_ANONYMOUS",
	ProbablyAnonymous:    "PROBABLY_ANONYMOUS",
	ProbablyNotAnonymous: "PROBABLY_NOT_ANONYMOUS",
}

func (a Anonymity) String() string {
	if int(a) < len(anonymityNames) {
		return anonymityNames[a]
	}
	return fmt.Sprintf("Anonymity(%d)", a)
}

// MarshalText implements encoding.TextMarshaler.
func (a Anonymity) MarshalText() ([]byte, error) {
	if int(a) >= len(anonymityNames) {
		return nil, fmt.Errorf("lattice: invalid anonymity %d", a)
	}
	return []byte(anonymityNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Anonymity) UnmarshalText(text []byte) error {
	for i, n := range anonymityNames {
		if n == string(text) {
			*a = Anonymity(i) //nolint:gosec // bounded by the name table
			return nil
		}
	}
	return fmt.Errorf("lattice: unknown anonymity %q", text)
}
