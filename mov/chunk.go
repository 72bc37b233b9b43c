package mov

import (
	"bytes"
	"fmt"
	"io"
)

// Chunk is a complete atom (header included) consumed from the stream.
type Chunk struct {
	Header
	Offset int64
	// Data is the whole atom. It points into the reader's buffer and is only
	// valid until the next call to Next.
	Data []byte
}

// IsMovieStart reports whether the chunk is an ftyp atom declaring the
// QuickTime brand, i.e. the first atom of a .mov file.
func (c Chunk) IsMovieStart() bool {
	return c.Type == TypeFtyp && len(c.Data) >= brandOffset+4 &&
		bytes.Equal(c.Data[brandOffset:brandOffset+4], BrandQuickTime[:])
}

// ChunkReader pulls whole atoms out of an unstructured stream. Anything that
// doesn't look like a valid atom is reported as "no chunk" rather than as an
// error, so callers can probe arbitrary offsets cheaply.
type ChunkReader struct {
	rs      io.ReadSeeker
	maxSize uint64
	buf     []byte
}

// NewChunkReader creates a ChunkReader accepting atoms of at most maxSize bytes.
func NewChunkReader(rs io.ReadSeeker, maxSize uint64) *ChunkReader {
	return &ChunkReader{rs: rs, maxSize: maxSize}
}

// Next reads the atom at the current position. If the header is not a
// valid atom it returns ok == false and leaves the position untouched.
// Otherwise the position advances past the atom.
func (cr *ChunkReader) Next() (c Chunk, ok bool, err error) {
	h, err := PeekHeader(cr.rs)
	if err != nil {
		return c, false, err
	}
	if !h.Valid(cr.maxSize) {
		return c, false, nil
	}
	offset, err := cr.rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return c, false, fmt.Errorf("get position: %w", err)
	}
	if uint64(cap(cr.buf)) < uint64(h.Size) {
		cr.buf = make([]byte, h.Size)
	}
	cr.buf = cr.buf[:h.Size]
	if err := readFull(cr.rs, cr.buf, offset); err != nil {
		return c, false, err
	}
	return Chunk{Header: h, Offset: offset, Data: cr.buf}, true, nil
}
