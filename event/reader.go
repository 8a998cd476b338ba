package event

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

/*
Reader drives a single forward-only pass over a thrift-encoded struct. For
each field header it either dispatches to a registered consumer or skips the
value generically, so callers pay materialization costs only for the fields
they registered interest in. Recursion depth tracks the nesting depth of the
encoded data; no state is retained across sibling fields.
*/

////////////////////////////////////////////////////////////////////////////////

// Reader reads thrift structs and collections from a protocol, dispatching
// values to registered consumers and skipping the rest.
type Reader struct {
	prot thrift.TProtocol
}

// NewReader returns a reader over the supplied protocol. The reader borrows
// the protocol for the duration of each call and holds no other state.
func NewReader(prot thrift.TProtocol) *Reader {
	return &Reader{prot: prot}
}

// ReadStruct consumes one struct from the stream, through the terminating
// stop marker. Fields with a registered consumer are dispatched after the
// observed wire type is checked against the consumer's bound type; all other
// fields are skipped. A nil registry skips every field. Duplicate field ids
// are dispatched once per occurrence, in wire order.
func (r *Reader) ReadStruct(ctx context.Context, fields *Fields) error {
	if _, err := r.prot.ReadStructBegin(ctx); err != nil {
		return fmt.Errorf("failed to read struct begin: %w", err)
	}
	for {
		_, typ, id, err := r.prot.ReadFieldBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read field header: %w", err)
		}
		if typ == thrift.STOP {
			break
		}
		if c, ok := fields.Lookup(id); ok {
			if err := c.Read(ctx, r.prot, r, typ, id); err != nil {
				return err
			}
		} else if err := r.Skip(ctx, typ); err != nil {
			return fmt.Errorf("failed to skip field %d: %w", id, err)
		}
		if err := r.prot.ReadFieldEnd(ctx); err != nil {
			return fmt.Errorf("failed to read field end: %w", err)
		}
	}
	if err := r.prot.ReadStructEnd(ctx); err != nil {
		return fmt.Errorf("failed to read struct end: %w", err)
	}
	return nil
}

// ReadListContent consumes exactly size list elements of the supplied element
// type, dispatching each to elem, or skipping each if elem is nil. The list
// header must already have been read.
func (r *Reader) ReadListContent(
	ctx context.Context, elem ElementConsumer, elemType thrift.TType, size int,
) error {
	for i := 0; i < size; i++ {
		if elem == nil {
			if err := r.Skip(ctx, elemType); err != nil {
				return fmt.Errorf("failed to skip list element: %w", err)
			}
			continue
		}
		if err := elem(ctx, r.prot, r, elemType); err != nil {
			return err
		}
	}
	return nil
}

// ReadSetContent consumes exactly size set elements, dispatching each to
// elem, or skipping each if elem is nil.
func (r *Reader) ReadSetContent(
	ctx context.Context, elem ElementConsumer, elemType thrift.TType, size int,
) error {
	for i := 0; i < size; i++ {
		if elem == nil {
			if err := r.Skip(ctx, elemType); err != nil {
				return fmt.Errorf("failed to skip set element: %w", err)
			}
			continue
		}
		if err := elem(ctx, r.prot, r, elemType); err != nil {
			return err
		}
	}
	return nil
}

// ReadMapContent consumes exactly size key/value pairs, dispatching each to
// entry, or skipping both members of each pair if entry is nil.
func (r *Reader) ReadMapContent(
	ctx context.Context, entry EntryConsumer, keyType, valueType thrift.TType, size int,
) error {
	for i := 0; i < size; i++ {
		if entry == nil {
			if err := r.Skip(ctx, keyType); err != nil {
				return fmt.Errorf("failed to skip map key: %w", err)
			}
			if err := r.Skip(ctx, valueType); err != nil {
				return fmt.Errorf("failed to skip map value: %w", err)
			}
			continue
		}
		if err := entry(ctx, r.prot, r, keyType, valueType); err != nil {
			return err
		}
	}
	return nil
}

// Skip discards one value of the supplied wire type, recursing into nested
// structs and collections. Memory usage is bounded by the nesting depth of
// the skipped value, not its size.
func (r *Reader) Skip(ctx context.Context, typ thrift.TType) error {
	switch typ {
	case thrift.BOOL:
		if _, err := r.prot.ReadBool(ctx); err != nil {
			return fmt.Errorf("failed to skip bool: %w", err)
		}
	case thrift.BYTE:
		if _, err := r.prot.ReadByte(ctx); err != nil {
			return fmt.Errorf("failed to skip byte: %w", err)
		}
	case thrift.I16:
		if _, err := r.prot.ReadI16(ctx); err != nil {
			return fmt.Errorf("failed to skip i16: %w", err)
		}
	case thrift.I32:
		if _, err := r.prot.ReadI32(ctx); err != nil {
			return fmt.Errorf("failed to skip i32: %w", err)
		}
	case thrift.I64:
		if _, err := r.prot.ReadI64(ctx); err != nil {
			return fmt.Errorf("failed to skip i64: %w", err)
		}
	case thrift.DOUBLE:
		if _, err := r.prot.ReadDouble(ctx); err != nil {
			return fmt.Errorf("failed to skip double: %w", err)
		}
	case thrift.STRING:
		if _, err := r.prot.ReadBinary(ctx); err != nil {
			return fmt.Errorf("failed to skip string: %w", err)
		}
	case thrift.STRUCT:
		if err := r.ReadStruct(ctx, nil); err != nil {
			return err
		}
	case thrift.LIST:
		elemType, size, err := r.prot.ReadListBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read list header: %w", err)
		}
		if err := r.ReadListContent(ctx, nil, elemType, size); err != nil {
			return err
		}
		if err := r.prot.ReadListEnd(ctx); err != nil {
			return fmt.Errorf("failed to read list end: %w", err)
		}
	case thrift.SET:
		elemType, size, err := r.prot.ReadSetBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read set header: %w", err)
		}
		if err := r.ReadSetContent(ctx, nil, elemType, size); err != nil {
			return err
		}
		if err := r.prot.ReadSetEnd(ctx); err != nil {
			return fmt.Errorf("failed to read set end: %w", err)
		}
	case thrift.MAP:
		keyType, valueType, size, err := r.prot.ReadMapBegin(ctx)
		if err != nil {
			return fmt.Errorf("failed to read map header: %w", err)
		}
		if err := r.ReadMapContent(ctx, nil, keyType, valueType, size); err != nil {
			return err
		}
		if err := r.prot.ReadMapEnd(ctx); err != nil {
			return fmt.Errorf("failed to read map end: %w", err)
		}
	default:
		return UnknownTypeError{Type: typ}
	}
	return nil
}
