package event

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

/*
TypedConsumer is the receiver for decoded values of a single wire type. One is
constructed bound to a type tag and handed to the reader through a Fields
registry (for struct fields) or directly (for collection elements). The reader
validates the observed tag against the bound tag once, centrally, before any
bytes of the value are consumed; the per-type read functions can therefore
assume the stream is positioned on a value of their type.

Scalar consumers read one primitive and hand it to a callback. Aggregate
consumers receive the protocol and the reader so that they can delegate back
into the traversal for their contents, which is what makes selective decoding
compose through arbitrary nesting.
*/

////////////////////////////////////////////////////////////////////////////////

// TypedConsumer accepts decoded values of exactly one wire type.
type TypedConsumer struct {
	typ  thrift.TType
	read func(ctx context.Context, p thrift.TProtocol, r *Reader) error
}

// Type returns the wire type this consumer was constructed for.
func (c TypedConsumer) Type() thrift.TType {
	return c.typ
}

// Read validates the observed wire type against the consumer's bound type and
// then decodes one value. fieldID is carried into the error on mismatch; pass
// -1 for collection elements.
func (c TypedConsumer) Read(
	ctx context.Context, p thrift.TProtocol, r *Reader, observed thrift.TType, fieldID int16,
) error {
	if c.typ != observed {
		return TypeMismatchError{FieldID: fieldID, Expected: c.typ, Actual: observed}
	}
	return c.read(ctx, p, r)
}

// Bool returns a consumer for boolean fields.
func Bool(add func(bool)) TypedConsumer {
	return TypedConsumer{typ: thrift.BOOL, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadBool(ctx)
		if err != nil {
			return fmt.Errorf("failed to read bool: %w", err)
		}
		add(v)
		return nil
	}}
}

// Byte returns a consumer for byte fields.
func Byte(add func(int8)) TypedConsumer {
	return TypedConsumer{typ: thrift.BYTE, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadByte(ctx)
		if err != nil {
			return fmt.Errorf("failed to read byte: %w", err)
		}
		add(v)
		return nil
	}}
}

// I16 returns a consumer for 16-bit integer fields.
func I16(add func(int16)) TypedConsumer {
	return TypedConsumer{typ: thrift.I16, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadI16(ctx)
		if err != nil {
			return fmt.Errorf("failed to read i16: %w", err)
		}
		add(v)
		return nil
	}}
}

// I32 returns a consumer for 32-bit integer fields.
func I32(add func(int32)) TypedConsumer {
	return TypedConsumer{typ: thrift.I32, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadI32(ctx)
		if err != nil {
			return fmt.Errorf("failed to read i32: %w", err)
		}
		add(v)
		return nil
	}}
}

// I64 returns a consumer for 64-bit integer fields.
func I64(add func(int64)) TypedConsumer {
	return TypedConsumer{typ: thrift.I64, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadI64(ctx)
		if err != nil {
			return fmt.Errorf("failed to read i64: %w", err)
		}
		add(v)
		return nil
	}}
}

// Double returns a consumer for double fields.
func Double(add func(float64)) TypedConsumer {
	return TypedConsumer{typ: thrift.DOUBLE, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadDouble(ctx)
		if err != nil {
			return fmt.Errorf("failed to read double: %w", err)
		}
		add(v)
		return nil
	}}
}

// String returns a consumer for string fields.
func String(add func(string)) TypedConsumer {
	return TypedConsumer{typ: thrift.STRING, read: func(ctx context.Context, p thrift.TProtocol, _ *Reader) error {
		v, err := p.ReadString(ctx)
		if err != nil {
			return fmt.Errorf("failed to read string: %w", err)
		}
		add(v)
		return nil
	}}
}

// Struct returns a consumer for struct fields. add receives the protocol and
// the reader and is expected to consume exactly one struct, typically by
// calling r.ReadStruct with its own registry. It must not retain either
// argument beyond the call.
func Struct(add func(ctx context.Context, p thrift.TProtocol, r *Reader) error) TypedConsumer {
	return TypedConsumer{typ: thrift.STRUCT, read: add}
}

// ElementConsumer consumes one list or set element. The observed element type
// from the collection header is passed through so the consumer can validate
// it.
type ElementConsumer func(ctx context.Context, p thrift.TProtocol, r *Reader, elemType thrift.TType) error

// EntryConsumer consumes one map entry, key then value.
type EntryConsumer func(ctx context.Context, p thrift.TProtocol, r *Reader, keyType, valueType thrift.TType) error

// List returns a consumer for list fields. It reads the list header and then
// applies elem to each of the declared elements.
func List(elem ElementConsumer) TypedConsumer {
	return TypedConsumer{typ: thrift.LIST, read: func(ctx context.Context, p thrift.TProtocol, r *Reader) error {
		elemType, size, err := p.ReadListBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read list header: %w", err)
		}
		if err := r.ReadListContent(ctx, elem, elemType, size); err != nil {
			return err
		}
		if err := p.ReadListEnd(ctx); err != nil {
			return fmt.Errorf("failed to read list end: %w", err)
		}
		return nil
	}}
}

// Set returns a consumer for set fields, applying elem to each element.
func Set(elem ElementConsumer) TypedConsumer {
	return TypedConsumer{typ: thrift.SET, read: func(ctx context.Context, p thrift.TProtocol, r *Reader) error {
		elemType, size, err := p.ReadSetBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read set header: %w", err)
		}
		if err := r.ReadSetContent(ctx, elem, elemType, size); err != nil {
			return err
		}
		if err := p.ReadSetEnd(ctx); err != nil {
			return fmt.Errorf("failed to read set end: %w", err)
		}
		return nil
	}}
}

// Map returns a consumer for map fields, applying entry to each key/value
// pair.
func Map(entry EntryConsumer) TypedConsumer {
	return TypedConsumer{typ: thrift.MAP, read: func(ctx context.Context, p thrift.TProtocol, r *Reader) error {
		keyType, valueType, size, err := p.ReadMapBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read map header: %w", err)
		}
		if err := r.ReadMapContent(ctx, entry, keyType, valueType, size); err != nil {
			return err
		}
		if err := p.ReadMapEnd(ctx); err != nil {
			return fmt.Errorf("failed to read map end: %w", err)
		}
		return nil
	}}
}
