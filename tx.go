package covault

import (
	"reflect"

	"github.com/covault/covault/errors"
)

// Msg is a request for the engine to take an action (make a state
// transition). It is just the request, and must be validated by the
// Handlers. All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Path returns the routing path for this message, used by the Router
	// to locate the proper Handler. Must be of the form
	// "extension/action", alphanumeric with underscores.
	Path() string

	// Validate performs a sanity check on the message content without
	// access to any state. Stateful checks belong to the Handler.
	Validate() error
}

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and unless you
// previously validated the struct, errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as Unmarshal almost always requires
// a pointer, and functions that only need to marshal bytes can use the
// Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represents the data sent from the user to the engine. It includes
// the actual message, along with information needed to authenticate the
// sender, and anything else needed to pass through middleware.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message from the transaction and unpacks it into
// the given destination. The message is validated before it is returned,
// so a handler can rely on a sane payload.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "validate msg")
	}
	if !setMsg(msg, destination) {
		return errors.Wrapf(errors.ErrType, "want %T, got %T", destination, msg)
	}
	return nil
}

// setMsg copies the message value into the destination. Both must be
// pointers to the same concrete message type.
func setMsg(msg, destination Msg) bool {
	dv := reflect.ValueOf(destination)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return false
	}
	mv := reflect.ValueOf(msg)
	if mv.Type() != dv.Type() {
		return false
	}
	dv.Elem().Set(mv.Elem())
	return true
}
