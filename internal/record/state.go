package record

import (
	"errors"
	"fmt"
)

// State is the derived primary state of a moderation record, computed once
// from its label set. EXECUTED, AUTOMATIC_RESPONSE and RESPONSE_CLEANED are
// orthogonal flags layered on top, not states.
type State uint8

const (
	// StateNew is an open record with no labels at all: created but not
	// yet touched by a moderator.
	StateNew State = iota

	// StateAwaitingModerator is an open record with no decision label
	// (orthogonal flags may be present).
	StateAwaitingModerator

	// StateApproved carries APPROVE and none of the excluding labels.
	StateApproved

	// StateRejected carries REJECT and none of the excluding labels.
	StateRejected

	// StateAppealed carries APPEALED, which takes precedence over every
	// other decision label.
	StateAppealed

	// StateExpired is the terminal tombstone state. Expired records are
	// never reactivated, not even by an appeal.
	StateExpired

	// StateDecisionMissing is a closed record without a usable decision
	// label: a moderator closed it without choosing.
	StateDecisionMissing
)

// ErrAmbiguousLabels is returned when a record carries a contradictory
// decision label combination, e.g. both APPROVE and REJECT.
var ErrAmbiguousLabels = errors.New("ambiguous decision labels")

// String renders the state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAwaitingModerator:
		return "awaiting_moderator"
	case StateApproved:
		return "approved"
	case StateRejected:
		return "rejected"
	case StateAppealed:
		return "appealed"
	case StateExpired:
		return "expired"
	case StateDecisionMissing:
		return "decision_missing"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// IsTerminal reports whether the state is the tombstone state.
func (s State) IsTerminal() bool {
	return s == StateExpired
}

// DeriveState computes the record's primary state from its label set via the
// fixed precedence: APPEALED first, then EXPIRED, then APPROVE or REJECT
// (each only when its excluding labels are absent). Contradictory decision
// combinations fail with ErrAmbiguousLabels instead of silently falling
// through.
func (r *Record) DeriveState() (State, error) {
	switch {
	case r.HasLabel(LabelAppealed):
		return StateAppealed, nil

	case r.HasLabel(LabelExpired):
		return StateExpired, nil

	case r.HasLabel(LabelApprove) && !r.HasLabel(LabelReject) &&
		!r.HasLabel(LabelAutomaticResponse):

		return StateApproved, nil

	case r.HasLabel(LabelReject) && !r.HasLabel(LabelApprove) &&
		!r.HasLabel(LabelAutomaticResponse):

		return StateRejected, nil

	case r.HasLabel(LabelApprove) && r.HasLabel(LabelReject):
		return 0, fmt.Errorf("%w: record #%d carries both "+
			"APPROVE and REJECT", ErrAmbiguousLabels, r.Number)

	case r.HasLabel(LabelApprove) || r.HasLabel(LabelReject):
		// A decision label next to AUTOMATIC_RESPONSE: a moderator
		// labeled a record the bot already acted on.
		return 0, fmt.Errorf("%w: record #%d mixes a decision "+
			"label with AUTOMATIC_RESPONSE", ErrAmbiguousLabels,
			r.Number)

	case r.Open && r.LabelCount() == 0:
		return StateNew, nil

	case r.Open:
		return StateAwaitingModerator, nil

	default:
		return StateDecisionMissing, nil
	}
}
