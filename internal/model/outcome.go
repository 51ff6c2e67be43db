package model

import "fmt"

// Status is the classified outcome of one trial.
type Status int

const (
	// Survived means the mutant ran and every test passed.
	Survived Status = iota
	// Detected means at least one test failed against the mutant.
	Detected
	// Error means the test run itself failed to execute (build failure, crash).
	Error
	// Unknown means the outcome is indeterminate (timeout, mutation not applicable).
	Unknown
)

// Statuses lists every status in declaration order.
var Statuses = []Status{Survived, Detected, Error, Unknown}

func (s Status) String() string {
	switch s {
	case Survived:
		return "survived"
	case Detected:
		return "detected"
	case Error:
		return "error"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case Survived, Detected, Error, Unknown:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range Statuses {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}

	return fmt.Errorf("unknown status %q", string(text))
}
