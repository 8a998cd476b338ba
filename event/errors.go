package event

import (
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

/*
Error types for the event package. A TypeMismatchError is terminal: the stream
position after one is undefined, so traversal unwinds to the caller without
any recovery attempt.
*/

////////////////////////////////////////////////////////////////////////////////

// TypeMismatchError is returned when the wire type observed in a field or
// element header differs from the type a consumer was constructed for. FieldID
// is -1 when the mismatch occurred on a collection element rather than a
// struct field.
type TypeMismatchError struct {
	FieldID  int16
	Expected thrift.TType
	Actual   thrift.TType
}

func (e TypeMismatchError) Error() string {
	if e.FieldID < 0 {
		return fmt.Sprintf("incorrect type in stream: expected %s but got %s",
			e.Expected, e.Actual)
	}
	return fmt.Sprintf("incorrect type in stream for field %d: expected %s but got %s",
		e.FieldID, e.Expected, e.Actual)
}

func (e TypeMismatchError) Is(err error) bool {
	_, ok := err.(TypeMismatchError)
	return ok
}

// UnknownTypeError is returned when a header carries a type tag outside the
// set of wire types the skip engine knows how to traverse.
type UnknownTypeError struct {
	Type thrift.TType
}

func (e UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown wire type %d", int(e.Type))
}

func (e UnknownTypeError) Is(err error) bool {
	_, ok := err.(UnknownTypeError)
	return ok
}
