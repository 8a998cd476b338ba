package footer

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"

	"github.com/wbenoit/sift/event"
)

/*
Struct shapes for the parquet file footer, with hand-written thrift
serialization. Field ids follow parquet.thrift. The read side is built on the
event package: each struct exposes its field registry, so nested shapes decode
through the same lookup-or-skip traversal the selective entry points use.
*/

////////////////////////////////////////////////////////////////////////////////

// FileMetaData field ids.
const (
	FieldVersion          int16 = 1
	FieldSchema           int16 = 2
	FieldNumRows          int16 = 3
	FieldRowGroups        int16 = 4
	FieldKeyValueMetadata int16 = 5
	FieldCreatedBy        int16 = 6
)

// FileMetaData is the file-level footer: schema, row group locations, and
// bookkeeping.
type FileMetaData struct {
	Version          int32           `json:"version"`
	Schema           []SchemaElement `json:"schema"`
	NumRows          int64           `json:"num_rows"`
	RowGroups        []RowGroup      `json:"row_groups,omitempty"`
	KeyValueMetadata []KeyValue      `json:"key_value_metadata,omitempty"`
	CreatedBy        string          `json:"created_by,omitempty"`
}

// SchemaElement is one node of the flattened schema tree.
type SchemaElement struct {
	Type           int32  `json:"type"`
	TypeLength     int32  `json:"type_length,omitempty"`
	RepetitionType int32  `json:"repetition_type"`
	Name           string `json:"name"`
	NumChildren    int32  `json:"num_children,omitempty"`
	ConvertedType  int32  `json:"converted_type,omitempty"`
}

// RowGroup locates one horizontal slice of the file.
type RowGroup struct {
	Columns       []ColumnChunk `json:"columns"`
	TotalByteSize int64         `json:"total_byte_size"`
	NumRows       int64         `json:"num_rows"`
}

// ColumnChunk locates one column's data within a row group.
type ColumnChunk struct {
	FilePath   string         `json:"file_path,omitempty"`
	FileOffset int64          `json:"file_offset"`
	MetaData   ColumnMetaData `json:"meta_data"`
}

// ColumnMetaData carries per-chunk statistics and layout.
type ColumnMetaData struct {
	Type                  int32    `json:"type"`
	Encodings             []int32  `json:"encodings"`
	PathInSchema          []string `json:"path_in_schema"`
	Codec                 int32    `json:"codec"`
	NumValues             int64    `json:"num_values"`
	TotalUncompressedSize int64    `json:"total_uncompressed_size"`
	TotalCompressedSize   int64    `json:"total_compressed_size"`
	DataPageOffset        int64    `json:"data_page_offset"`
}

// KeyValue is one entry of the free-form key/value metadata.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// PageHeader precedes each data page in the file body.
type PageHeader struct {
	Type                 int32 `json:"type"`
	UncompressedPageSize int32 `json:"uncompressed_page_size"`
	CompressedPageSize   int32 `json:"compressed_page_size"`
	CRC                  int32 `json:"crc,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////

func writeI32Field(ctx context.Context, p thrift.TProtocol, name string, id int16, v int32) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.I32, id); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	if err := p.WriteI32(ctx, v); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	return nil
}

func writeI64Field(ctx context.Context, p thrift.TProtocol, name string, id int16, v int64) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.I64, id); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	if err := p.WriteI64(ctx, v); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	return nil
}

func writeStringField(ctx context.Context, p thrift.TProtocol, name string, id int16, v string) error {
	if err := p.WriteFieldBegin(ctx, name, thrift.STRING, id); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	if err := p.WriteString(ctx, v); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field %s: %w", name, err)
	}
	return nil
}

func finishStruct(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteFieldStop(ctx); err != nil {
		return fmt.Errorf("failed to write stop marker: %w", err)
	}
	if err := p.WriteStructEnd(ctx); err != nil {
		return fmt.Errorf("failed to write struct end: %w", err)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

// Write serializes the footer to the protocol.
func (md *FileMetaData) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "FileMetaData"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if err := writeI32Field(ctx, p, "version", FieldVersion, md.Version); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "schema", thrift.LIST, FieldSchema); err != nil {
		return fmt.Errorf("failed to write field schema: %w", err)
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(md.Schema)); err != nil {
		return fmt.Errorf("failed to write schema list: %w", err)
	}
	for i := range md.Schema {
		if err := md.Schema[i].Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return fmt.Errorf("failed to write schema list: %w", err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field schema: %w", err)
	}
	if err := writeI64Field(ctx, p, "num_rows", FieldNumRows, md.NumRows); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "row_groups", thrift.LIST, FieldRowGroups); err != nil {
		return fmt.Errorf("failed to write field row_groups: %w", err)
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(md.RowGroups)); err != nil {
		return fmt.Errorf("failed to write row_groups list: %w", err)
	}
	for i := range md.RowGroups {
		if err := md.RowGroups[i].Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return fmt.Errorf("failed to write row_groups list: %w", err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field row_groups: %w", err)
	}
	if len(md.KeyValueMetadata) > 0 {
		if err := p.WriteFieldBegin(ctx, "key_value_metadata", thrift.LIST, FieldKeyValueMetadata); err != nil {
			return fmt.Errorf("failed to write field key_value_metadata: %w", err)
		}
		if err := p.WriteListBegin(ctx, thrift.STRUCT, len(md.KeyValueMetadata)); err != nil {
			return fmt.Errorf("failed to write key_value_metadata list: %w", err)
		}
		for i := range md.KeyValueMetadata {
			if err := md.KeyValueMetadata[i].Write(ctx, p); err != nil {
				return err
			}
		}
		if err := p.WriteListEnd(ctx); err != nil {
			return fmt.Errorf("failed to write key_value_metadata list: %w", err)
		}
		if err := p.WriteFieldEnd(ctx); err != nil {
			return fmt.Errorf("failed to write field key_value_metadata: %w", err)
		}
	}
	if md.CreatedBy != "" {
		if err := writeStringField(ctx, p, "created_by", FieldCreatedBy, md.CreatedBy); err != nil {
			return err
		}
	}
	return finishStruct(ctx, p)
}

// Write serializes one schema element to the protocol.
func (s *SchemaElement) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "SchemaElement"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if err := writeI32Field(ctx, p, "type", 1, s.Type); err != nil {
		return err
	}
	if s.TypeLength != 0 {
		if err := writeI32Field(ctx, p, "type_length", 2, s.TypeLength); err != nil {
			return err
		}
	}
	if err := writeI32Field(ctx, p, "repetition_type", 3, s.RepetitionType); err != nil {
		return err
	}
	if err := writeStringField(ctx, p, "name", 4, s.Name); err != nil {
		return err
	}
	if s.NumChildren != 0 {
		if err := writeI32Field(ctx, p, "num_children", 5, s.NumChildren); err != nil {
			return err
		}
	}
	if s.ConvertedType != 0 {
		if err := writeI32Field(ctx, p, "converted_type", 6, s.ConvertedType); err != nil {
			return err
		}
	}
	return finishStruct(ctx, p)
}

// Write serializes one row group to the protocol.
func (rg *RowGroup) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "RowGroup"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if err := p.WriteFieldBegin(ctx, "columns", thrift.LIST, 1); err != nil {
		return fmt.Errorf("failed to write field columns: %w", err)
	}
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(rg.Columns)); err != nil {
		return fmt.Errorf("failed to write columns list: %w", err)
	}
	for i := range rg.Columns {
		if err := rg.Columns[i].Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return fmt.Errorf("failed to write columns list: %w", err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field columns: %w", err)
	}
	if err := writeI64Field(ctx, p, "total_byte_size", 2, rg.TotalByteSize); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "num_rows", 3, rg.NumRows); err != nil {
		return err
	}
	return finishStruct(ctx, p)
}

// Write serializes one column chunk to the protocol.
func (cc *ColumnChunk) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "ColumnChunk"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if cc.FilePath != "" {
		if err := writeStringField(ctx, p, "file_path", 1, cc.FilePath); err != nil {
			return err
		}
	}
	if err := writeI64Field(ctx, p, "file_offset", 2, cc.FileOffset); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "meta_data", thrift.STRUCT, 3); err != nil {
		return fmt.Errorf("failed to write field meta_data: %w", err)
	}
	if err := cc.MetaData.Write(ctx, p); err != nil {
		return err
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field meta_data: %w", err)
	}
	return finishStruct(ctx, p)
}

// Write serializes column metadata to the protocol.
func (cm *ColumnMetaData) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "ColumnMetaData"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if err := writeI32Field(ctx, p, "type", 1, cm.Type); err != nil {
		return err
	}
	if err := p.WriteFieldBegin(ctx, "encodings", thrift.LIST, 3); err != nil {
		return fmt.Errorf("failed to write field encodings: %w", err)
	}
	if err := p.WriteListBegin(ctx, thrift.I32, len(cm.Encodings)); err != nil {
		return fmt.Errorf("failed to write encodings list: %w", err)
	}
	for _, enc := range cm.Encodings {
		if err := p.WriteI32(ctx, enc); err != nil {
			return fmt.Errorf("failed to write encoding: %w", err)
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return fmt.Errorf("failed to write encodings list: %w", err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field encodings: %w", err)
	}
	if err := p.WriteFieldBegin(ctx, "path_in_schema", thrift.LIST, 4); err != nil {
		return fmt.Errorf("failed to write field path_in_schema: %w", err)
	}
	if err := p.WriteListBegin(ctx, thrift.STRING, len(cm.PathInSchema)); err != nil {
		return fmt.Errorf("failed to write path_in_schema list: %w", err)
	}
	for _, part := range cm.PathInSchema {
		if err := p.WriteString(ctx, part); err != nil {
			return fmt.Errorf("failed to write path component: %w", err)
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return fmt.Errorf("failed to write path_in_schema list: %w", err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return fmt.Errorf("failed to write field path_in_schema: %w", err)
	}
	if err := writeI32Field(ctx, p, "codec", 5, cm.Codec); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "num_values", 6, cm.NumValues); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "total_uncompressed_size", 7, cm.TotalUncompressedSize); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "total_compressed_size", 8, cm.TotalCompressedSize); err != nil {
		return err
	}
	if err := writeI64Field(ctx, p, "data_page_offset", 9, cm.DataPageOffset); err != nil {
		return err
	}
	return finishStruct(ctx, p)
}

// Write serializes one key/value entry to the protocol.
func (kv *KeyValue) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "KeyValue"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if err := writeStringField(ctx, p, "key", 1, kv.Key); err != nil {
		return err
	}
	if kv.Value != "" {
		if err := writeStringField(ctx, p, "value", 2, kv.Value); err != nil {
			return err
		}
	}
	return finishStruct(ctx, p)
}

// Write serializes a page header to the protocol.
func (ph *PageHeader) Write(ctx context.Context, p thrift.TProtocol) error {
	if err := p.WriteStructBegin(ctx, "PageHeader"); err != nil {
		return fmt.Errorf("failed to write struct begin: %w", err)
	}
	if err := writeI32Field(ctx, p, "type", 1, ph.Type); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "uncompressed_page_size", 2, ph.UncompressedPageSize); err != nil {
		return err
	}
	if err := writeI32Field(ctx, p, "compressed_page_size", 3, ph.CompressedPageSize); err != nil {
		return err
	}
	if ph.CRC != 0 {
		if err := writeI32Field(ctx, p, "crc", 4, ph.CRC); err != nil {
			return err
		}
	}
	return finishStruct(ctx, p)
}

////////////////////////////////////////////////////////////////////////////////

func (s *SchemaElement) fields() *event.Fields {
	return event.NewFields().
		OnField(1, event.I32(func(v int32) { s.Type = v })).
		OnField(2, event.I32(func(v int32) { s.TypeLength = v })).
		OnField(3, event.I32(func(v int32) { s.RepetitionType = v })).
		OnField(4, event.String(func(v string) { s.Name = v })).
		OnField(5, event.I32(func(v int32) { s.NumChildren = v })).
		OnField(6, event.I32(func(v int32) { s.ConvertedType = v }))
}

func (cm *ColumnMetaData) fields() *event.Fields {
	return event.NewFields().
		OnField(1, event.I32(func(v int32) { cm.Type = v })).
		OnField(3, event.ListOf(event.I32(func(v int32) { cm.Encodings = append(cm.Encodings, v) }))).
		OnField(4, event.ListOf(event.String(func(v string) { cm.PathInSchema = append(cm.PathInSchema, v) }))).
		OnField(5, event.I32(func(v int32) { cm.Codec = v })).
		OnField(6, event.I64(func(v int64) { cm.NumValues = v })).
		OnField(7, event.I64(func(v int64) { cm.TotalUncompressedSize = v })).
		OnField(8, event.I64(func(v int64) { cm.TotalCompressedSize = v })).
		OnField(9, event.I64(func(v int64) { cm.DataPageOffset = v }))
}

func (cc *ColumnChunk) fields() *event.Fields {
	return event.NewFields().
		OnField(1, event.String(func(v string) { cc.FilePath = v })).
		OnField(2, event.I64(func(v int64) { cc.FileOffset = v })).
		OnField(3, event.StructOf(cc.MetaData.fields(), nil))
}

func (rg *RowGroup) fields() *event.Fields {
	return event.NewFields().
		OnField(1, event.ListOf(columnChunkConsumer(func(cc ColumnChunk) {
			rg.Columns = append(rg.Columns, cc)
		}))).
		OnField(2, event.I64(func(v int64) { rg.TotalByteSize = v })).
		OnField(3, event.I64(func(v int64) { rg.NumRows = v }))
}

// schemaElementConsumer decodes one SchemaElement struct per occurrence and
// hands it to add.
func schemaElementConsumer(add func(SchemaElement)) event.TypedConsumer {
	return event.Struct(func(ctx context.Context, _ thrift.TProtocol, r *event.Reader) error {
		var el SchemaElement
		if err := r.ReadStruct(ctx, el.fields()); err != nil {
			return err
		}
		add(el)
		return nil
	})
}

func columnChunkConsumer(add func(ColumnChunk)) event.TypedConsumer {
	return event.Struct(func(ctx context.Context, _ thrift.TProtocol, r *event.Reader) error {
		var cc ColumnChunk
		if err := r.ReadStruct(ctx, cc.fields()); err != nil {
			return err
		}
		add(cc)
		return nil
	})
}

func rowGroupConsumer(add func(RowGroup)) event.TypedConsumer {
	return event.Struct(func(ctx context.Context, _ thrift.TProtocol, r *event.Reader) error {
		var rg RowGroup
		if err := r.ReadStruct(ctx, rg.fields()); err != nil {
			return err
		}
		add(rg)
		return nil
	})
}

func keyValueConsumer(add func(KeyValue)) event.TypedConsumer {
	return event.Struct(func(ctx context.Context, _ thrift.TProtocol, r *event.Reader) error {
		kv := KeyValue{}
		if err := r.ReadStruct(ctx, event.NewFields().
			OnField(1, event.String(func(v string) { kv.Key = v })).
			OnField(2, event.String(func(v string) { kv.Value = v })),
		); err != nil {
			return err
		}
		add(kv)
		return nil
	})
}

func (ph *PageHeader) fields() *event.Fields {
	return event.NewFields().
		OnField(1, event.I32(func(v int32) { ph.Type = v })).
		OnField(2, event.I32(func(v int32) { ph.UncompressedPageSize = v })).
		OnField(3, event.I32(func(v int32) { ph.CompressedPageSize = v })).
		OnField(4, event.I32(func(v int32) { ph.CRC = v }))
}
