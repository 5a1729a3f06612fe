package covault

import (
	"fmt"
)

// CheckResult captures any non-error result of a check, to make sure
// people use error for error cases.
type CheckResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte
	// Log is a human-readable informational string.
	Log string
	// GasAllocated is the maximum units of work we allow this tx to
	// perform.
	GasAllocated int64
}

// NewCheck sets the gas allocated and the log, the most common info
// needed from a Handler.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{
		GasAllocated: gasAllocated,
		Log:          log,
	}
}

// DeliverResult captures any non-error result of a delivery, to make
// sure people use error for error cases.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte
	// Log is a human-readable informational string.
	Log string
	// Events, if present, are forwarded to the notification sink after
	// the state transition commits. They are audit records only and can
	// never influence nor roll back the transition.
	Events []Event
	// GasUsed is the units of work the delivery consumed.
	GasUsed int64
}

// Event is a single notification payload emitted by a handler. Events
// are fire-and-forget: they index and describe a committed state
// transition for the outside world.
type Event struct {
	// Type names the event kind, prefixed with the emitting extension,
	// for example "vault/proposal_created".
	Type string
	// Attributes carry the event payload as ordered key/value pairs.
	Attributes []EventAttribute
}

// EventAttribute is a single key/value entry of an event payload.
type EventAttribute struct {
	Key   string
	Value string
}

// Attr is a shorthand constructor for an event attribute.
func Attr(key string, value interface{}) EventAttribute {
	return EventAttribute{Key: key, Value: fmt.Sprint(value)}
}

// NewEvent builds an event of the given type with the given attributes.
func NewEvent(typ string, attrs ...EventAttribute) Event {
	return Event{Type: typ, Attributes: attrs}
}

// AttrValue returns the value of the named attribute, or false when the
// event carries no such attribute.
func (e Event) AttrValue(key string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
