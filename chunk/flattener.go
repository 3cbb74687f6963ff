package chunk

import (
	"encoding/binary"
	"math"
)

// Flattener accumulates little-endian serialized data. All multi-byte
// values are little-endian; strings are NUL-terminated UTF-8; blobs are
// length-prefixed with a uint32.
type Flattener struct {
	buf []byte
}

// NewFlattener returns a flattener with the given initial capacity.
func NewFlattener(capacity int) *Flattener {
	return &Flattener{buf: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated buffer. The slice aliases the flattener's
// internal storage.
func (f *Flattener) Bytes() []byte { return f.buf }

// Len returns the number of bytes written so far.
func (f *Flattener) Len() int { return len(f.buf) }

// WriteUint8 appends a single byte.
func (f *Flattener) WriteUint8(v uint8) {
	f.buf = append(f.buf, v)
}

// WriteBool appends a bool as one byte (0 or 1).
func (f *Flattener) WriteBool(v bool) {
	if v {
		f.WriteUint8(1)
	} else {
		f.WriteUint8(0)
	}
}

// WriteUint16 appends a little-endian uint16.
func (f *Flattener) WriteUint16(v uint16) {
	f.buf = binary.LittleEndian.AppendUint16(f.buf, v)
}

// WriteUint32 appends a little-endian uint32.
func (f *Flattener) WriteUint32(v uint32) {
	f.buf = binary.LittleEndian.AppendUint32(f.buf, v)
}

// WriteUint64 appends a little-endian uint64.
func (f *Flattener) WriteUint64(v uint64) {
	f.buf = binary.LittleEndian.AppendUint64(f.buf, v)
}

// WriteFloat32 appends the IEEE-754 bits of v, little-endian.
func (f *Flattener) WriteFloat32(v float32) {
	f.WriteUint32(math.Float32bits(v))
}

// WriteString appends a NUL-terminated string.
func (f *Flattener) WriteString(s string) {
	f.buf = append(f.buf, s...)
	f.buf = append(f.buf, 0)
}

// WriteBlob appends a uint32 length prefix followed by the raw bytes.
func (f *Flattener) WriteBlob(b []byte) {
	f.WriteUint32(uint32(len(b)))
	f.buf = append(f.buf, b...)
}
