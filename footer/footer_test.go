package footer_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbenoit/sift/footer"
	"github.com/wbenoit/sift/intern"
	"github.com/wbenoit/sift/storage"
)

func newFileMetaData() *footer.FileMetaData {
	return &footer.FileMetaData{
		Version: 1,
		Schema: []footer.SchemaElement{
			{Name: "root", NumChildren: 2},
			{Type: 2, RepetitionType: 1, Name: "id"},
			{Type: 6, RepetitionType: 1, Name: "payload", ConvertedType: 0},
		},
		NumRows: 100,
		RowGroups: []footer.RowGroup{
			{
				Columns: []footer.ColumnChunk{
					{
						FileOffset: 4,
						MetaData: footer.ColumnMetaData{
							Type:                  2,
							Encodings:             []int32{0, 3},
							PathInSchema:          []string{"id"},
							Codec:                 1,
							NumValues:             100,
							TotalUncompressedSize: 1024,
							TotalCompressedSize:   512,
							DataPageOffset:        4,
						},
					},
					{
						FileOffset: 516,
						MetaData: footer.ColumnMetaData{
							Type:                  6,
							Encodings:             []int32{0},
							PathInSchema:          []string{"payload"},
							Codec:                 1,
							NumValues:             100,
							TotalUncompressedSize: 8192,
							TotalCompressedSize:   4096,
							DataPageOffset:        516,
						},
					},
				},
				TotalByteSize: 4608,
				NumRows:       100,
			},
		},
		KeyValueMetadata: []footer.KeyValue{
			{Key: "writer.model.name", Value: "example"},
		},
		CreatedBy: "sift version 0.1",
	}
}

func TestFileMetaDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	md := newFileMetaData()

	buf := &bytes.Buffer{}
	require.NoError(t, footer.WriteFileMetaData(ctx, md, buf))

	t.Run("full read reproduces the original", func(t *testing.T) {
		decoded := &footer.FileMetaData{}
		require.NoError(t, decoded.Read(ctx, bytes.NewReader(buf.Bytes())))
		require.Equal(t, md, decoded)
	})

	t.Run("skip row groups drops only row groups", func(t *testing.T) {
		decoded := &footer.FileMetaData{}
		require.NoError(t, decoded.Read(ctx, bytes.NewReader(buf.Bytes()),
			footer.WithSkipRowGroups()))
		assert.Empty(t, decoded.RowGroups)
		assert.Equal(t, md.Schema, decoded.Schema)
		assert.Equal(t, md.NumRows, decoded.NumRows)
		assert.Equal(t, md.CreatedBy, decoded.CreatedBy)
	})

	t.Run("omitted fields are never delivered", func(t *testing.T) {
		decoded := &footer.FileMetaData{}
		require.NoError(t, decoded.Read(ctx, bytes.NewReader(buf.Bytes()),
			footer.WithOmitFields(footer.FieldSchema, footer.FieldCreatedBy)))
		assert.Empty(t, decoded.Schema)
		assert.Empty(t, decoded.CreatedBy)
		assert.Equal(t, md.RowGroups, decoded.RowGroups)
	})

	t.Run("shared pool interns across calls", func(t *testing.T) {
		pool := intern.NewPool()
		for i := 0; i < 2; i++ {
			decoded := &footer.FileMetaData{}
			require.NoError(t, decoded.Read(ctx, bytes.NewReader(buf.Bytes()),
				footer.WithPool(pool)))
		}
		// Distinct string values in the footer: schema names, the path
		// component "id" and "payload" intern onto the names, plus the
		// key/value pair and created_by.
		assert.Equal(t, 6, pool.Len())
	})
}

func TestConsumerWireOrder(t *testing.T) {
	ctx := context.Background()
	md := newFileMetaData()
	buf := &bytes.Buffer{}
	require.NoError(t, footer.WriteFileMetaData(ctx, md, buf))

	order := []string{}
	c := recordingConsumer{order: &order}
	require.NoError(t, footer.ReadFileMetaData(ctx, bytes.NewReader(buf.Bytes()), c))
	require.Equal(t, []string{
		"version", "schema", "num_rows", "row_group", "key_value", "created_by",
	}, order)
}

type recordingConsumer struct {
	order *[]string
}

func (c recordingConsumer) SetVersion(int32) { *c.order = append(*c.order, "version") }

func (c recordingConsumer) SetSchema([]footer.SchemaElement) { *c.order = append(*c.order, "schema") }

func (c recordingConsumer) SetNumRows(int64) { *c.order = append(*c.order, "num_rows") }

func (c recordingConsumer) AddRowGroup(footer.RowGroup) { *c.order = append(*c.order, "row_group") }

func (c recordingConsumer) AddKeyValue(footer.KeyValue) { *c.order = append(*c.order, "key_value") }

func (c recordingConsumer) SetCreatedBy(string) { *c.order = append(*c.order, "created_by") }

func TestPageHeaderRoundTrip(t *testing.T) {
	ctx := context.Background()
	ph := &footer.PageHeader{
		Type:                 0,
		UncompressedPageSize: 4096,
		CompressedPageSize:   1024,
		CRC:                  7,
	}
	buf := &bytes.Buffer{}
	require.NoError(t, footer.WritePageHeader(ctx, ph, buf))
	decoded, err := footer.ReadPageHeader(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, ph, decoded)
}

func TestFetch(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemStore()
	md := newFileMetaData()

	t.Run("stored footer fetches back", func(t *testing.T) {
		require.NoError(t, footer.Store(ctx, store, "a.parquet", md))
		decoded := &footer.FileMetaData{}
		require.NoError(t, footer.Fetch(ctx, store, "a.parquet",
			footer.NewMetaDataConsumer(decoded)))
		require.Equal(t, md, decoded)
	})

	t.Run("fetch honors options", func(t *testing.T) {
		decoded := &footer.FileMetaData{}
		require.NoError(t, footer.Fetch(ctx, store, "a.parquet",
			footer.NewMetaDataConsumer(decoded), footer.WithSkipRowGroups()))
		assert.Empty(t, decoded.RowGroups)
		assert.Equal(t, md.Schema, decoded.Schema)
	})

	t.Run("missing object", func(t *testing.T) {
		err := footer.Fetch(ctx, store, "nope", footer.NewMetaDataConsumer(&footer.FileMetaData{}))
		require.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("bad magic", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "garbage", []byte("0123456789")))
		err := footer.Fetch(ctx, store, "garbage", footer.NewMetaDataConsumer(&footer.FileMetaData{}))
		require.ErrorIs(t, err, footer.ErrBadMagic)
	})

	t.Run("truncated object", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "tiny", []byte("PAR1")))
		err := footer.Fetch(ctx, store, "tiny", footer.NewMetaDataConsumer(&footer.FileMetaData{}))
		require.ErrorIs(t, err, footer.ErrTruncated)
	})

	t.Run("declared footer longer than object", func(t *testing.T) {
		trailer := []byte{0xff, 0xff, 0xff, 0x7f, 'P', 'A', 'R', '1'}
		require.NoError(t, store.Put(ctx, "lying", trailer))
		err := footer.Fetch(ctx, store, "lying", footer.NewMetaDataConsumer(&footer.FileMetaData{}))
		require.ErrorIs(t, err, footer.ErrTruncated)
	})
}
