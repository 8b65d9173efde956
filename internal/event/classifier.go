package event

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned when an (event, action) pair has no entry in
// the classification table.
var ErrUnknownEvent = errors.New("unknown event")

// Classify maps a raw webhook event name and action string to its canonical
// Type descriptor. Pure lookup, no side effects.
func Classify(eventName, action string) (Type, error) {
	for _, t := range allTypes {
		if t.Event == eventName && string(t.Action) == action {
			return t, nil
		}
	}

	return Type{}, fmt.Errorf("%w: %s.%s", ErrUnknownEvent, eventName,
		action)
}

// TypeFromFullName resolves a dotted <event>.<action> name back to its
// descriptor. This is the inverse of Type.FullName and is used when decoding
// the EVENT_TYPE metadata field out of a moderation record body.
func TypeFromFullName(fullName string) (Type, error) {
	for _, t := range allTypes {
		if t.FullName() == fullName {
			return t, nil
		}
	}

	return Type{}, fmt.Errorf("%w: %q", ErrUnknownEvent, fullName)
}
