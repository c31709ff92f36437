package window

// Outcome describes what a visibility operation did.
type Outcome uint8

const (
	OutcomeShown Outcome = iota
	OutcomeAlreadyVisible
	OutcomeHidden
	OutcomeNotFound
	OutcomeFailed
)

var outcomeNames = map[Outcome]string{
	OutcomeShown:          "shown",
	OutcomeAlreadyVisible: "already-visible",
	OutcomeHidden:         "hidden",
	OutcomeNotFound:       "not-found",
	OutcomeFailed:         "failed",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// ShowResult is returned instead of an error so callers decide explicitly
// whether a missing window or platform failure matters to them. Event
// handlers log it and move on.
type ShowResult struct {
	Outcome Outcome
	Err     error
}

// OK reports whether the window ended up in the requested state.
func (r ShowResult) OK() bool {
	return r.Outcome == OutcomeShown || r.Outcome == OutcomeAlreadyVisible || r.Outcome == OutcomeHidden
}
