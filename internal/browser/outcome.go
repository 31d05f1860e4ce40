package browser

// Outcome is the result of a single page interaction. The extractors decide
// per step whether not-found or timed-out is recoverable; nothing in this
// package swallows failures silently.
type Outcome int

const (
	// OutcomeFound means the element was located and the action completed.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means the element is absent from the page.
	OutcomeNotFound
	// OutcomeTimedOut means the wait window elapsed before the element
	// appeared or the action completed.
	OutcomeTimedOut
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not-found"
	case OutcomeTimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// OK reports whether the interaction completed.
func (o Outcome) OK() bool {
	return o == OutcomeFound
}
