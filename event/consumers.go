package event

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

/*
Combinators for assembling consumers of nested shapes out of consumers for
their parts: typed collections, typed map entries, and structs decoded through
their own field registries.
*/

////////////////////////////////////////////////////////////////////////////////

// ElementOf adapts a typed consumer into an element consumer that validates
// each element's wire type before decoding it.
func ElementOf(c TypedConsumer) ElementConsumer {
	return func(ctx context.Context, p thrift.TProtocol, r *Reader, elemType thrift.TType) error {
		return c.Read(ctx, p, r, elemType, -1)
	}
}

// ListOf returns a list consumer whose elements are all decoded by elem.
func ListOf(elem TypedConsumer) TypedConsumer {
	return List(ElementOf(elem))
}

// SetOf returns a set consumer whose elements are all decoded by elem.
func SetOf(elem TypedConsumer) TypedConsumer {
	return Set(ElementOf(elem))
}

// MapOf returns a map consumer whose keys are decoded by key and values by
// value, in wire order within each entry.
func MapOf(key, value TypedConsumer) TypedConsumer {
	return Map(func(ctx context.Context, p thrift.TProtocol, r *Reader, keyType, valueType thrift.TType) error {
		if err := key.Read(ctx, p, r, keyType, -1); err != nil {
			return err
		}
		return value.Read(ctx, p, r, valueType, -1)
	})
}

// ListThen returns a list consumer that decodes every element with elem and
// runs done once the final element has been consumed. Callers that accumulate
// elements deliver the completed collection from done.
func ListThen(elem TypedConsumer, done func()) TypedConsumer {
	return TypedConsumer{typ: thrift.LIST, read: func(ctx context.Context, p thrift.TProtocol, r *Reader) error {
		elemType, size, err := p.ReadListBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read list header: %w", err)
		}
		if err := r.ReadListContent(ctx, ElementOf(elem), elemType, size); err != nil {
			return err
		}
		if err := p.ReadListEnd(ctx); err != nil {
			return fmt.Errorf("failed to read list end: %w", err)
		}
		done()
		return nil
	}}
}

// StructOf returns a struct consumer that decodes each occurrence of the
// struct with the supplied registry. done, if non-nil, runs after each
// complete struct, which is where callers typically hand off an accumulated
// record.
func StructOf(fields *Fields, done func()) TypedConsumer {
	return Struct(func(ctx context.Context, p thrift.TProtocol, r *Reader) error {
		if err := r.ReadStruct(ctx, fields); err != nil {
			return err
		}
		if done != nil {
			done()
		}
		return nil
	})
}
