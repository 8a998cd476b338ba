package footer

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/wbenoit/sift/storage"
	"github.com/wbenoit/sift/util"
	"github.com/wbenoit/sift/util/log"
)

/*
Footer fetch from object storage. A parquet file ends with the serialized
footer, a four byte little-endian footer length, and the magic "PAR1". Two
ranged reads are enough to decode the footer: one for the eight byte trailer
and one for the footer itself.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	magic       = "PAR1"
	trailerSize = 8
)

// ErrBadMagic is returned when the trailer does not end with the expected
// magic bytes.
var ErrBadMagic = errors.New("bad trailer magic")

// ErrTruncated is returned when an object is too small to hold a trailer or
// its declared footer.
var ErrTruncated = errors.New("truncated file")

// Fetch reads the footer of a stored object through ranged reads and decodes
// it into c. Options apply as in ReadFileMetaData.
func Fetch(ctx context.Context, store storage.Provider, id string, c Consumer, opts ...Option) error {
	size, err := store.Size(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", id, err)
	}
	if size < trailerSize {
		return ErrTruncated
	}
	trailer, err := store.GetRange(ctx, id, size-trailerSize, trailerSize)
	if err != nil {
		return fmt.Errorf("failed to read trailer of %s: %w", id, err)
	}
	if string(trailer[4:]) != magic {
		return ErrBadMagic
	}
	footerLen := int64(binary.LittleEndian.Uint32(trailer))
	if footerLen > size-trailerSize {
		return ErrTruncated
	}
	log.Debugf(ctx, "fetching %s footer from %s (%s)",
		util.HumanBytes(uint64(footerLen)), id, store)
	data, err := store.GetRange(ctx, id, size-trailerSize-footerLen, int(footerLen))
	if err != nil {
		return fmt.Errorf("failed to read footer of %s: %w", id, err)
	}
	if err := ReadFileMetaData(ctx, bytes.NewReader(data), c, opts...); err != nil {
		return fmt.Errorf("failed to decode footer of %s: %w", id, err)
	}
	return nil
}

// Store writes a minimal object consisting of md's serialized footer and the
// trailer. It is useful for tests and for rewriting footers in place.
func Store(ctx context.Context, store storage.Provider, id string, md *FileMetaData) error {
	buf := &bytes.Buffer{}
	buf.WriteString(magic)
	if err := WriteFileMetaData(ctx, md, buf); err != nil {
		return err
	}
	footerLen := buf.Len() - len(magic)
	trailer := make([]byte, trailerSize)
	binary.LittleEndian.PutUint32(trailer, uint32(footerLen))
	copy(trailer[4:], magic)
	buf.Write(trailer)
	if err := store.Put(ctx, id, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to store %s: %w", id, err)
	}
	return nil
}
