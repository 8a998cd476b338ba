package footer

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/wbenoit/sift/event"
	"github.com/wbenoit/sift/intern"
)

/*
Entry points for reading and writing file metadata. Footers are encoded with
the thrift compact protocol; on the read side the compact protocol is wrapped
in the interning shim so repeated path components and key names share one
instance for the duration of the call.

Reads are driven through the event package: callers receive data through a
Consumer as the traversal advances, and any field the options disable is
skipped at the wire level without being materialized.
*/

////////////////////////////////////////////////////////////////////////////////

// Consumer receives footer fields in wire order as they are decoded.
type Consumer interface {
	SetVersion(version int32)
	SetSchema(schema []SchemaElement)
	SetNumRows(numRows int64)
	AddRowGroup(rg RowGroup)
	AddKeyValue(kv KeyValue)
	SetCreatedBy(createdBy string)
}

// metaDataConsumer populates a FileMetaData in place.
type metaDataConsumer struct {
	md *FileMetaData
}

func (c metaDataConsumer) SetVersion(version int32) { c.md.Version = version }

func (c metaDataConsumer) SetSchema(schema []SchemaElement) { c.md.Schema = schema }

func (c metaDataConsumer) SetNumRows(numRows int64) { c.md.NumRows = numRows }

func (c metaDataConsumer) AddRowGroup(rg RowGroup) { c.md.RowGroups = append(c.md.RowGroups, rg) }

func (c metaDataConsumer) AddKeyValue(kv KeyValue) {
	c.md.KeyValueMetadata = append(c.md.KeyValueMetadata, kv)
}

func (c metaDataConsumer) SetCreatedBy(createdBy string) { c.md.CreatedBy = createdBy }

// NewMetaDataConsumer returns a consumer that populates md in place.
func NewMetaDataConsumer(md *FileMetaData) Consumer {
	return metaDataConsumer{md: md}
}

// FieldIDs maps footer field names to their field ids.
func FieldIDs() map[string]int16 {
	return map[string]int16{
		"version":            FieldVersion,
		"schema":             FieldSchema,
		"num_rows":           FieldNumRows,
		"row_groups":         FieldRowGroups,
		"key_value_metadata": FieldKeyValueMetadata,
		"created_by":         FieldCreatedBy,
	}
}

////////////////////////////////////////////////////////////////////////////////

// Option configures a footer read.
type Option func(*config)

type config struct {
	omit map[int16]bool
	pool *intern.Pool
}

// WithSkipRowGroups drops the row_groups field from the registry, so row
// groups are walked past on the wire and never materialized.
func WithSkipRowGroups() Option {
	return func(c *config) {
		c.omit[FieldRowGroups] = true
	}
}

// WithOmitFields drops the supplied field ids from the registry.
func WithOmitFields(ids ...int16) Option {
	return func(c *config) {
		for _, id := range ids {
			c.omit[id] = true
		}
	}
}

// WithPool substitutes a caller-owned intern pool for the per-call default,
// allowing strings to be shared across decode calls.
func WithPool(pool *intern.Pool) Option {
	return func(c *config) {
		c.pool = pool
	}
}

////////////////////////////////////////////////////////////////////////////////

// schemaListConsumer collects the schema list and delivers it whole once the
// final element has been read, matching the consumer contract.
func schemaListConsumer(set func([]SchemaElement)) event.TypedConsumer {
	var schema []SchemaElement
	return event.ListThen(schemaElementConsumer(func(el SchemaElement) {
		schema = append(schema, el)
	}), func() {
		set(schema)
		schema = nil
	})
}

// consumerFields builds the field registry routing footer fields into c,
// minus any omitted ids.
func consumerFields(c Consumer, omit map[int16]bool) *event.Fields {
	fields := event.NewFields().
		OnField(FieldVersion, event.I32(c.SetVersion)).
		OnField(FieldSchema, schemaListConsumer(c.SetSchema)).
		OnField(FieldNumRows, event.I64(c.SetNumRows)).
		OnField(FieldRowGroups, event.ListOf(rowGroupConsumer(c.AddRowGroup))).
		OnField(FieldKeyValueMetadata, event.ListOf(keyValueConsumer(c.AddKeyValue))).
		OnField(FieldCreatedBy, event.String(c.SetCreatedBy))
	for id := range omit {
		fields.OmitField(id)
	}
	return fields
}

// ReadFileMetaData decodes a footer from the supplied reader, delivering
// fields to c in wire
// order. Fields disabled through options are skipped without materialization.
func ReadFileMetaData(ctx context.Context, from io.Reader, c Consumer, opts ...Option) error {
	cfg := config{omit: map[int16]bool{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pool == nil {
		cfg.pool = intern.NewPool()
	}
	prot := readProtocol(from, cfg.pool)
	if err := event.NewReader(prot).ReadStruct(ctx, consumerFields(c, cfg.omit)); err != nil {
		return fmt.Errorf("failed to read file metadata: %w", err)
	}
	return nil
}

// Read decodes a footer into md. Options apply as in ReadFileMetaData.
func (md *FileMetaData) Read(ctx context.Context, from io.Reader, opts ...Option) error {
	return ReadFileMetaData(ctx, from, metaDataConsumer{md: md}, opts...)
}

// WriteFileMetaData encodes md to w with the compact protocol.
func WriteFileMetaData(ctx context.Context, md *FileMetaData, to io.Writer) error {
	prot := writeProtocol(to)
	if err := md.Write(ctx, prot); err != nil {
		return fmt.Errorf("failed to write file metadata: %w", err)
	}
	if err := prot.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush file metadata: %w", err)
	}
	return nil
}

// ReadPageHeader decodes one page header from the supplied reader.
func ReadPageHeader(ctx context.Context, from io.Reader) (*PageHeader, error) {
	ph := &PageHeader{}
	prot := readProtocol(from, intern.NewPool())
	if err := event.NewReader(prot).ReadStruct(ctx, ph.fields()); err != nil {
		return nil, fmt.Errorf("failed to read page header: %w", err)
	}
	return ph, nil
}

// WritePageHeader encodes ph to w with the compact protocol.
func WritePageHeader(ctx context.Context, ph *PageHeader, to io.Writer) error {
	prot := writeProtocol(to)
	if err := ph.Write(ctx, prot); err != nil {
		return fmt.Errorf("failed to write page header: %w", err)
	}
	if err := prot.Flush(ctx); err != nil {
		return fmt.Errorf("failed to flush page header: %w", err)
	}
	return nil
}

func readProtocol(from io.Reader, pool *intern.Pool) thrift.TProtocol {
	trans := thrift.NewStreamTransportR(from)
	return intern.NewProtocol(thrift.NewTCompactProtocolConf(trans, nil), pool)
}

func writeProtocol(to io.Writer) thrift.TProtocol {
	trans := thrift.NewStreamTransportW(to)
	return thrift.NewTCompactProtocolConf(trans, nil)
}
