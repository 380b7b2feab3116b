// Package codec implements the declarative, composable encoders and
// decoders PTP uses for its primitive types, enumerations, arrays,
// strings and datasets. Every codec exposes Encode/Decode and round-trips
// (decode(encode(v)) == v) for every value in its declared domain.
package codec

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

// ErrShortRead is returned when a decode call needs more bytes than the
// cursor has remaining.
var ErrShortRead = errors.New("codec: short read")

// ErrMalformedString is returned decoding a PTP string whose code-unit
// sequence does not end in a trailing NUL, when strict mode is enabled.
var ErrMalformedString = errors.New("codec: malformed string: missing trailing NUL")

// ErrMalformedArray is returned decoding an array whose declared element
// count does not fit in the remaining bytes.
var ErrMalformedArray = errors.New("codec: malformed array: short of declared element count")

// ErrStringTooLong is returned encoding a string whose code-unit count
// plus its trailing NUL exceeds 255, the largest length a PTP string's
// u8 length prefix can hold.
var ErrStringTooLong = errors.New("codec: string exceeds 254 UTF-16 code units, u8 length prefix would overflow")

// Cursor owns or borrows a byte slice and tracks a read/write offset.
// All multi-byte integers are little-endian, per the PTP/USB mandate.
// Endianness is kept behind the Cursor rather than hardcoded into every
// call site so a future PTP/IP transport (big- or little-endian per
// negotiation) can supply its own cursor without touching codecs built
// on top of it.
type Cursor struct {
	buf    []byte
	off    int
	Strict bool // when set, string decode fails on a missing trailing NUL
}

// NewCursor wraps an existing byte slice for decoding.
func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

// NewWriteCursor returns a cursor with no backing bytes, ready for
// repeated Write* calls; Bytes returns the accumulated buffer.
func NewWriteCursor() *Cursor {
	return &Cursor{buf: make([]byte, 0, 64)}
}

// Bytes returns the full underlying buffer (not just the unread tail).
func (c *Cursor) Bytes() []byte { return c.buf }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Offset returns the current read/write offset.
func (c *Cursor) Offset() int { return c.off }

func (c *Cursor) need(n int) error {
	if c.Remaining() < n {
		return ErrShortRead
	}
	return nil
}

// ReadU8 reads one unsigned byte.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

// ReadI8 reads one signed byte.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadU16LE reads a little-endian uint16.
func (c *Cursor) ReadU16LE() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

// ReadI16LE reads a little-endian int16.
func (c *Cursor) ReadI16LE() (int16, error) {
	v, err := c.ReadU16LE()
	return int16(v), err
}

// ReadU32LE reads a little-endian uint32.
func (c *Cursor) ReadU32LE() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

// ReadI32LE reads a little-endian int32.
func (c *Cursor) ReadI32LE() (int32, error) {
	v, err := c.ReadU32LE()
	return int32(v), err
}

// ReadU64LE reads a little-endian uint64.
func (c *Cursor) ReadU64LE() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// ReadI64LE reads a little-endian int64.
func (c *Cursor) ReadI64LE() (int64, error) {
	v, err := c.ReadU64LE()
	return int64(v), err
}

// U128 holds a 128-bit PTP integer as two 64-bit halves (lo, hi), since
// Go has no native 128-bit integer type.
type U128 struct {
	Lo, Hi uint64
}

// ReadU128LE reads a little-endian uint128.
func (c *Cursor) ReadU128LE() (U128, error) {
	lo, err := c.ReadU64LE()
	if err != nil {
		return U128{}, err
	}
	hi, err := c.ReadU64LE()
	if err != nil {
		return U128{}, err
	}
	return U128{Lo: lo, Hi: hi}, nil
}

// ReadBytes reads and returns the next n bytes verbatim.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.buf[c.off : c.off+n]
	c.off += n
	return v, nil
}

// ReadString decodes a PTP string: a u8 length (code-unit count,
// including the trailing NUL when non-zero) followed by that many
// UTF-16LE code units. A zero length decodes to the empty string.
func (c *Cursor) ReadString() (string, error) {
	n, err := c.ReadU8()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	raw, err := c.ReadBytes(int(n) * 2)
	if err != nil {
		return "", err
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	if units[len(units)-1] == 0 {
		units = units[:len(units)-1]
	} else if c.Strict {
		return "", ErrMalformedString
	}
	return string(utf16.Decode(units)), nil
}

// WriteU8 appends one unsigned byte.
func (c *Cursor) WriteU8(v uint8) { c.buf = append(c.buf, v) }

// WriteI8 appends one signed byte.
func (c *Cursor) WriteI8(v int8) { c.buf = append(c.buf, byte(v)) }

// WriteU16LE appends a little-endian uint16.
func (c *Cursor) WriteU16LE(v uint16) {
	c.buf = append(c.buf, byte(v), byte(v>>8))
}

// WriteI16LE appends a little-endian int16.
func (c *Cursor) WriteI16LE(v int16) { c.WriteU16LE(uint16(v)) }

// WriteU32LE appends a little-endian uint32.
func (c *Cursor) WriteU32LE(v uint32) {
	c.buf = append(c.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// WriteI32LE appends a little-endian int32.
func (c *Cursor) WriteI32LE(v int32) { c.WriteU32LE(uint32(v)) }

// WriteU64LE appends a little-endian uint64.
func (c *Cursor) WriteU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	c.buf = append(c.buf, b[:]...)
}

// WriteI64LE appends a little-endian int64.
func (c *Cursor) WriteI64LE(v int64) { c.WriteU64LE(uint64(v)) }

// WriteU128LE appends a little-endian uint128.
func (c *Cursor) WriteU128LE(v U128) {
	c.WriteU64LE(v.Lo)
	c.WriteU64LE(v.Hi)
}

// WriteBytes appends raw bytes verbatim.
func (c *Cursor) WriteBytes(b ...byte) { c.buf = append(c.buf, b...) }

// WriteString encodes a PTP string: empty input writes a single 0x00
// length byte; otherwise writes the code-unit count (including the
// trailing NUL) followed by UTF-16LE code units ending in NUL. A
// string whose code-unit count (plus the trailing NUL) exceeds 255,
// the u8 length prefix's range, returns ErrStringTooLong instead of
// silently wrapping the length byte.
func (c *Cursor) WriteString(s string) error {
	if s == "" {
		c.WriteU8(0)
		return nil
	}
	units := utf16.Encode([]rune(s))
	n := len(units) + 1 // +1 for the trailing NUL
	if n > 255 {
		return ErrStringTooLong
	}
	c.WriteU8(uint8(n))
	for _, u := range units {
		c.WriteU16LE(u)
	}
	c.WriteU16LE(0)
	return nil
}
