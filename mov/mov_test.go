package mov

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// Build a raw atom with the given type and total size. The payload is filled
// with the given byte.
func makeAtom(typ string, size int, fill byte) []byte {
	atom := make([]byte, size)
	binary.BigEndian.PutUint32(atom[0:4], uint32(size))
	copy(atom[4:8], typ)
	for i := HeaderSize; i < size; i++ {
		atom[i] = fill
	}
	return atom
}

func makeFtyp(brand string) []byte {
	atom := makeAtom("ftyp", 16, 0)
	copy(atom[8:12], brand)
	return atom
}

func position(t *testing.T, rs io.Seeker) int64 {
	pos, err := rs.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	return pos
}

func TestIsKnownAtomType(t *testing.T) {
	require.Len(t, KnownAtomTypes, 24)
	for _, typ := range []string{"ftyp", "mdat", "moov", "free", "skip", "wide", "jP2 ", "PICT"} {
		var at AtomType
		copy(at[:], typ)
		require.True(t, IsKnownAtomType(at), typ)
	}
	for _, typ := range []string{"FTYP", "trak", "\x00\x00\x00\x00", "mdia"} {
		var at AtomType
		copy(at[:], typ)
		require.False(t, IsKnownAtomType(at), typ)
	}
}

func TestHeaderValid(t *testing.T) {
	require.True(t, Header{Size: 8, Type: TypeFree}.Valid(8))
	require.True(t, Header{Size: 1024, Type: TypeMdat}.Valid(1024))
	require.False(t, Header{Size: 1025, Type: TypeMdat}.Valid(1024))
	require.False(t, Header{Size: 7, Type: TypeFree}.Valid(1024))
	require.False(t, Header{Size: 0, Type: TypeMdat}.Valid(1024))
	require.False(t, Header{Size: 1, Type: TypeMdat}.Valid(1024))
	require.False(t, Header{Size: 16, Type: AtomType{'t', 'r', 'a', 'k'}}.Valid(1024))
}

func TestPeekHeader(t *testing.T) {
	t.Run("Does not consume", func(t *testing.T) {
		data := append(make([]byte, 4), makeAtom("moov", 32, 1)...)
		r := bytes.NewReader(data)
		_, err := r.Seek(4, io.SeekStart)
		require.NoError(t, err)

		h, err := PeekHeader(r)
		require.NoError(t, err)
		require.Equal(t, uint32(32), h.Size)
		require.Equal(t, TypeMoov, h.Type)
		require.Equal(t, int64(4), position(t, r))
	})

	t.Run("Truncated restores position", func(t *testing.T) {
		r := bytes.NewReader([]byte{0, 0, 0, 8, 'f', 'r'})
		_, err := r.Seek(1, io.SeekStart)
		require.NoError(t, err)

		_, err = PeekHeader(r)
		require.Error(t, err)
		require.True(t, IsTruncated(err))
		var te *TruncatedError
		require.True(t, errors.As(err, &te))
		require.Equal(t, int64(1), te.Offset)
		require.Equal(t, HeaderSize, te.Want)
		require.Equal(t, 5, te.Got)
		require.Equal(t, int64(1), position(t, r))
	})

	t.Run("Empty stream", func(t *testing.T) {
		_, err := PeekHeader(bytes.NewReader(nil))
		require.True(t, IsTruncated(err))
	})
}

type failingReader struct {
	*bytes.Reader
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

func TestPeekHeader_IoFailure(t *testing.T) {
	boom := errors.New("device went away")
	r := &failingReader{Reader: bytes.NewReader(make([]byte, 64)), err: boom}
	_, err := PeekHeader(r)
	require.ErrorIs(t, err, boom)
	require.False(t, IsTruncated(err))
}

func TestChunkReader_Next(t *testing.T) {
	ftyp := makeFtyp("qt  ")
	free := makeAtom("free", 8, 0)
	mdat := makeAtom("mdat", 40, 0xAB)
	data := bytes.Join([][]byte{ftyp, free, mdat, []byte("garbage!")}, nil)
	r := bytes.NewReader(data)
	cr := NewChunkReader(r, 1<<20)

	c, ok, err := cr.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, TypeFtyp, c.Type)
	require.Equal(t, int64(0), c.Offset)
	require.Equal(t, ftyp, c.Data)
	require.True(t, c.IsMovieStart())

	c, ok, err = cr.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, TypeFree, c.Type)
	require.Equal(t, int64(16), c.Offset)
	require.Equal(t, free, c.Data)
	require.False(t, c.IsMovieStart())

	c, ok, err = cr.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, mdat, c.Data)

	// Garbage is not an atom; position must not move
	before := position(t, r)
	_, ok, err = cr.Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, before, position(t, r))
}

func TestChunkReader_Rejects(t *testing.T) {
	t.Run("Too big", func(t *testing.T) {
		r := bytes.NewReader(makeAtom("mdat", 64, 0))
		_, ok, err := NewChunkReader(r, 63).Next()
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, int64(0), position(t, r))
	})

	t.Run("Too small", func(t *testing.T) {
		atom := makeAtom("mdat", 16, 0)
		binary.BigEndian.PutUint32(atom[0:4], 4)
		_, ok, err := NewChunkReader(bytes.NewReader(atom), 1024).Next()
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, ok, err := NewChunkReader(bytes.NewReader(makeAtom("trak", 16, 0)), 1024).Next()
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestChunkReader_Truncated(t *testing.T) {
	atom := makeAtom("mdat", 100, 1)
	_, ok, err := NewChunkReader(bytes.NewReader(atom[:60]), 1024).Next()
	require.False(t, ok)
	require.True(t, IsTruncated(err))
	var te *TruncatedError
	require.True(t, errors.As(err, &te))
	require.Equal(t, 100, te.Want)
	require.Equal(t, 60, te.Got)
}

func TestIsMovieStart(t *testing.T) {
	c := Chunk{Header: Header{Size: 16, Type: TypeFtyp}, Data: makeFtyp("isom")}
	require.False(t, c.IsMovieStart())

	// ftyp too short to carry a brand
	short := makeAtom("ftyp", 8, 0)
	c = Chunk{Header: ParseHeader(short), Data: short}
	require.False(t, c.IsMovieStart())

	// Right brand, wrong type
	wide := makeFtyp("qt  ")
	copy(wide[4:8], "wide")
	c = Chunk{Header: ParseHeader(wide), Data: wide}
	require.False(t, c.IsMovieStart())
}

// Seeking back to an absolute position fails, as on a device that errors
// out after a partial read.
type noRewindReader struct {
	*bytes.Reader
}

func (r *noRewindReader) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekStart {
		return 0, errors.New("seek failed")
	}
	return r.Reader.Seek(offset, whence)
}

func TestPeekHeader_RestoreFailureIsNotTruncation(t *testing.T) {
	r := &noRewindReader{Reader: bytes.NewReader([]byte{0, 0, 0, 8})}
	_, err := PeekHeader(r)
	require.Error(t, err)
	require.False(t, IsTruncated(err))
	require.Contains(t, err.Error(), "restore position 0")
	require.EqualError(t, errors.Unwrap(err), "seek failed")
}

func TestChunkReader_GrowsBuffer(t *testing.T) {
	small := makeAtom("free", 8, 0)
	large := makeAtom("mdat", 4096, 0x5A)
	r := bytes.NewReader(bytes.Join([][]byte{small, large, small}, nil))
	cr := NewChunkReader(r, 1<<20)

	for _, expect := range [][]byte{small, large, small} {
		c, ok, err := cr.Next()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, expect, c.Data)
	}
}
