package temporal

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/meosgo/meos/internal/basetype"
)

// Header is the persisted-state layout of spec.md §6: a temporal
// value is a header containing (temptype, subtype, flags, count,
// maxcount, bbox) followed by the instant array/offset table and the
// instant blob, which this type does not model — only the fixed-size
// header itself is implemented here; the codec's external type-OID
// resolution stays a caller-supplied basetype.Catalog value rather
// than anything this struct knows about. Byte order is not fixed by
// the spec ("the host must keep reads and writes in matched byte
// order"); this implementation commits to little-endian, matching
// friggdb/record.go's marshalRecord/unmarshalRecord convention.
type Header struct {
	TempType byte
	SubType  basetype.Tag
	Flags    HeaderFlags
	Count    uint32
	MaxCount uint32
	BBoxLo   int64
	BBoxHi   int64
}

// HeaderFlags packs interp, has_z, geodetic, byvalue, lower_inc, and
// upper_inc into one byte, per spec.md §6.
type HeaderFlags byte

const (
	flagInterpMask HeaderFlags = 0b0000_0011
	flagHasZ       HeaderFlags = 0b0000_0100
	flagGeodetic   HeaderFlags = 0b0000_1000
	flagByValue    HeaderFlags = 0b0001_0000
	flagLowerInc   HeaderFlags = 0b0010_0000
	flagUpperInc   HeaderFlags = 0b0100_0000
)

// NewHeaderFlags packs the six documented flag bits into one byte.
func NewHeaderFlags(interp Interpolation, hasZ, geodetic, byValue, lowerInc, upperInc bool) HeaderFlags {
	f := HeaderFlags(byte(interp)) & flagInterpMask
	if hasZ {
		f |= flagHasZ
	}
	if geodetic {
		f |= flagGeodetic
	}
	if byValue {
		f |= flagByValue
	}
	if lowerInc {
		f |= flagLowerInc
	}
	if upperInc {
		f |= flagUpperInc
	}
	return f
}

func (f HeaderFlags) Interpolation() Interpolation { return Interpolation(f & flagInterpMask) }
func (f HeaderFlags) HasZ() bool                   { return f&flagHasZ != 0 }
func (f HeaderFlags) Geodetic() bool               { return f&flagGeodetic != 0 }
func (f HeaderFlags) ByValue() bool                { return f&flagByValue != 0 }
func (f HeaderFlags) LowerInc() bool               { return f&flagLowerInc != 0 }
func (f HeaderFlags) UpperInc() bool               { return f&flagUpperInc != 0 }

// headerSize is the fixed on-wire size: 1 (temptype) + 1 (subtype) +
// 1 (flags) + 4 (count) + 4 (maxcount) + 8 + 8 (bbox lo/hi).
const headerSize = 1 + 1 + 1 + 4 + 4 + 8 + 8

// MarshalBinary encodes h per spec.md §6's documented layout.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize)
	buf[0] = h.TempType
	buf[1] = byte(h.SubType)
	buf[2] = byte(h.Flags)
	binary.LittleEndian.PutUint32(buf[3:7], h.Count)
	binary.LittleEndian.PutUint32(buf[7:11], h.MaxCount)
	binary.LittleEndian.PutUint64(buf[11:19], uint64(h.BBoxLo))
	binary.LittleEndian.PutUint64(buf[19:27], uint64(h.BBoxHi))
	return buf, nil
}

// UnmarshalBinary decodes buf into h, the inverse of MarshalBinary.
func (h *Header) UnmarshalBinary(buf []byte) error {
	if len(buf) < headerSize {
		return errors.New("temporal: header buffer shorter than the fixed header size")
	}
	h.TempType = buf[0]
	h.SubType = basetype.Tag(buf[1])
	h.Flags = HeaderFlags(buf[2])
	h.Count = binary.LittleEndian.Uint32(buf[3:7])
	h.MaxCount = binary.LittleEndian.Uint32(buf[7:11])
	h.BBoxLo = int64(binary.LittleEndian.Uint64(buf[11:19]))
	h.BBoxHi = int64(binary.LittleEndian.Uint64(buf[19:27]))
	return nil
}
