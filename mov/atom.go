// Package mov reads QuickTime atoms (ISO BMFF boxes) directly out of a raw
// byte stream, without trusting anything around them.
package mov

import "encoding/binary"

var be = binary.BigEndian

const (
	// HeaderSize is the size of the compact atom header: 4 bytes of size, 4 of type.
	HeaderSize = 8
	// brandOffset is where the major brand lives inside an ftyp atom
	brandOffset = HeaderSize
)

// AtomType is a 4-byte atom type identifier.
type AtomType [4]byte

func (t AtomType) String() string {
	return string(t[:])
}

var (
	TypeFtyp = AtomType{'f', 't', 'y', 'p'}
	TypeMdat = AtomType{'m', 'd', 'a', 't'}
	TypeMoov = AtomType{'m', 'o', 'o', 'v'}
	TypeFree = AtomType{'f', 'r', 'e', 'e'}
	TypeSkip = AtomType{'s', 'k', 'i', 'p'}
	TypeWide = AtomType{'w', 'i', 'd', 'e'}

	// BrandQuickTime is the ftyp major brand of a .mov file
	BrandQuickTime = [4]byte{'q', 't', ' ', ' '}
)

// Top level atom types that can legitimately follow each other in a movie
// file. Anything else ends a recovery.
var KnownAtomTypes = []AtomType{
	TypeFtyp, TypeMdat, TypeMoov, {'p', 'n', 'o', 't'},
	{'u', 'd', 't', 'a'}, {'u', 'u', 'i', 'd'}, {'m', 'o', 'o', 'f'}, TypeFree,
	TypeSkip, {'j', 'P', '2', ' '}, TypeWide, {'l', 'o', 'a', 'd'},
	{'c', 't', 'a', 'b'}, {'i', 'm', 'a', 'p'}, {'m', 'a', 't', 't'}, {'k', 'm', 'a', 't'},
	{'c', 'l', 'i', 'p'}, {'c', 'r', 'g', 'n'}, {'s', 'y', 'n', 'c'}, {'c', 'h', 'a', 'p'},
	{'t', 'm', 'c', 'd'}, {'s', 'c', 'p', 't'}, {'s', 's', 'r', 'c'}, {'P', 'I', 'C', 'T'},
}

// IsKnownAtomType reports whether t is in KnownAtomTypes.
func IsKnownAtomType(t AtomType) bool {
	for _, k := range KnownAtomTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Header is the compact 8 byte atom header. Extended (64 bit) sizes are not
// supported; a size of 0 or 1 simply fails validation.
type Header struct {
	Size uint32
	Type AtomType
}

// ParseHeader decodes the first HeaderSize bytes of data.
func ParseHeader(data []byte) Header {
	var h Header
	h.Size = be.Uint32(data[0:4])
	copy(h.Type[:], data[4:8])
	return h
}

// Valid reports whether the header describes an atom the chunk reader will
// accept: a known type and a size in [HeaderSize, maxSize].
func (h Header) Valid(maxSize uint64) bool {
	size := uint64(h.Size)
	return IsKnownAtomType(h.Type) && size >= HeaderSize && size <= maxSize
}
