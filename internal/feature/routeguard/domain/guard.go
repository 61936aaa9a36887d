// Package domain holds the route guard decision table.
package domain

// Status is the authentication state of a visitor.
type Status int

const (
	// StatusUnknown means the check has not resolved yet (still loading).
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Outcome is what a guarded route renders.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeRedirect
	OutcomeContent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeContent:
		return "content"
	default:
		return "loading"
	}
}

// Decide maps a status to exactly one outcome. Unrecognised values are treated as unresolved.
func Decide(s Status) Outcome {
	switch s {
	case StatusAuthenticated:
		return OutcomeContent
	case StatusUnauthenticated:
		return OutcomeRedirect
	default:
		return OutcomeLoading
	}
}
