// Package codec implements the typed little-endian serialization MTP
// containers use: fixed-width unsigned integers, length-prefixed UTF-16
// strings, and length-prefixed arrays.
package codec

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func encodeUTF16LE(s string) ([]byte, error) {
	return utf16LE.NewEncoder().Bytes([]byte(s))
}

func decodeUTF16LE(b []byte) (string, error) {
	out, err := utf16LE.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Writer accumulates encoded values into a growable byte buffer.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len reports the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteU8 appends a single byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends a little-endian u16.
func (w *Writer) WriteU16(v uint16) {
	w.buf = append(w.buf, byte(v), byte(v>>8))
}

// WriteU32 appends a little-endian u32.
func (w *Writer) WriteU32(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// WriteU64 appends a little-endian u64.
func (w *Writer) WriteU64(v uint64) {
	for i := 0; i < 8; i++ {
		w.buf = append(w.buf, byte(v>>(8*uint(i))))
	}
}

// WriteString appends an MTP string: a one-byte unit count (including the
// terminating null, 0 for the empty string) followed by that many UTF-16LE
// code units. Strings of 255 or more units cannot be represented and are
// written as empty — callers must not pass such strings (see spec's codec
// invariant: this is only exercised for short, known-bounded wire labels).
func (w *Writer) WriteString(s string) {
	if s == "" {
		w.WriteU8(0)
		return
	}
	encoded, err := encodeUTF16LE(s)
	if err != nil {
		w.WriteU8(0)
		return
	}
	units := len(encoded)/2 + 1 // +1 for the terminating null unit
	if units > 0xFF {
		w.WriteU8(0)
		return
	}
	w.WriteU8(uint8(units))
	w.buf = append(w.buf, encoded...)
	w.WriteU16(0)
}

// WriteU32Array appends a u32 element count followed by each element.
func (w *Writer) WriteU32Array(vals []uint32) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU32(v)
	}
}

// WriteU16Array appends a u32 element count followed by each u16 element.
func (w *Writer) WriteU16Array(vals []uint16) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU16(v)
	}
}

// Reader extracts typed values from a fixed byte payload, tracking a read
// cursor. Reading past the end of the payload yields zeroed output rather
// than an error, mirroring the wire's tolerance of short Command payloads.
type Reader struct {
	buf    []byte
	cursor int
}

// NewReader wraps buf for sequential typed reads.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) remaining() int {
	return len(r.buf) - r.cursor
}

// Cursor returns the current read offset into the payload.
func (r *Reader) Cursor() int {
	return r.cursor
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int {
	return r.remaining()
}

// ReadU8 reads one byte, or 0 if the payload is exhausted.
func (r *Reader) ReadU8() uint8 {
	if r.remaining() < 1 {
		r.cursor = len(r.buf)
		return 0
	}
	v := r.buf[r.cursor]
	r.cursor++
	return v
}

// ReadU16 reads a little-endian u16, or 0 if the payload is exhausted.
func (r *Reader) ReadU16() uint16 {
	if r.remaining() < 2 {
		r.cursor = len(r.buf)
		return 0
	}
	v := uint16(r.buf[r.cursor]) | uint16(r.buf[r.cursor+1])<<8
	r.cursor += 2
	return v
}

// ReadU32 reads a little-endian u32, or 0 if the payload is exhausted.
func (r *Reader) ReadU32() uint32 {
	if r.remaining() < 4 {
		r.cursor = len(r.buf)
		return 0
	}
	v := uint32(r.buf[r.cursor]) | uint32(r.buf[r.cursor+1])<<8 |
		uint32(r.buf[r.cursor+2])<<16 | uint32(r.buf[r.cursor+3])<<24
	r.cursor += 4
	return v
}

// ReadU64 reads a little-endian u64, or 0 if the payload is exhausted.
func (r *Reader) ReadU64() uint64 {
	if r.remaining() < 8 {
		r.cursor = len(r.buf)
		return 0
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(r.buf[r.cursor+i]) << (8 * uint(i))
	}
	r.cursor += 8
	return v
}

// ReadString reads an MTP string: a one-byte unit count followed by that
// many UTF-16LE code units, the last of which is the terminating null.
// Returns the string with the terminating null stripped.
func (r *Reader) ReadString() string {
	n := int(r.ReadU8())
	if n == 0 {
		return ""
	}
	byteLen := n * 2
	if r.remaining() < byteLen {
		r.cursor = len(r.buf)
		return ""
	}
	raw := r.buf[r.cursor : r.cursor+byteLen]
	r.cursor += byteLen
	s, err := decodeUTF16LE(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(s, "\x00")
}
