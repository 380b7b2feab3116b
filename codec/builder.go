package codec

import "fmt"

// ErrUnknownEnumName is returned encoding a symbolic name absent from an
// enum codec's table.
type ErrUnknownEnumName struct{ Name string }

func (e *ErrUnknownEnumName) Error() string {
	return fmt.Sprintf("codec: unknown enum name %q", e.Name)
}

// ErrUnknownEnumCode is never returned by Decode (unknown numerics decode
// to Raw instead, per the enum alias/unknown-code policy); no codec in
// this package returns it.
type ErrUnknownEnumCode struct{ Code uint64 }

func (e *ErrUnknownEnumCode) Error() string {
	return fmt.Sprintf("codec: unknown enum code 0x%x", e.Code)
}

// Codec is the common shape every codec variant satisfies: encode a Go
// value to bytes, decode bytes to a Go value plus the number of bytes
// consumed. Encode is infallible for well-typed input except for the
// Enum variant, whose Encode fails on a name outside its table.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (v any, consumed int, err error)
	// FixedSize returns the encoded size in bytes and true if the codec
	// is fixed-width (used by Array to validate declared counts without
	// decoding every element).
	FixedSize() (int, bool)
}

// primitiveKind enumerates the primitive PTP data type tags this package
// has a built-in encoder/decoder for.
type primitiveKind uint16

// Primitive data type tags, mirrored from the PTP type-code space
// (§3, "Data type tag"). Array variants share the element's base tag
// with the 0x4000 bit set and are represented by the Array codec, not
// by a primitiveKind of their own.
const (
	KindUint8 primitiveKind = 0x0001 + iota
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindUint128
	KindInt128
)

// KindString is the PTP string type tag (0xFFFF), kept separate from the
// iota run above since it is not contiguous with the fixed-width kinds.
const KindString primitiveKind = 0xFFFF

type primitiveCodec struct {
	kind primitiveKind
}

// NewPrimitive returns the built-in codec for one of the fixed-width
// numeric kinds or the PTP string kind.
func NewPrimitive(kind primitiveKind) Codec {
	return primitiveCodec{kind: kind}
}

func (p primitiveCodec) FixedSize() (int, bool) {
	switch p.kind {
	case KindUint8, KindInt8:
		return 1, true
	case KindUint16, KindInt16:
		return 2, true
	case KindUint32, KindInt32:
		return 4, true
	case KindUint64, KindInt64:
		return 8, true
	case KindUint128, KindInt128:
		return 16, true
	default: // KindString
		return 0, false
	}
}

func (p primitiveCodec) Encode(v any) ([]byte, error) {
	c := NewWriteCursor()
	switch p.kind {
	case KindUint8:
		c.WriteU8(v.(uint8))
	case KindInt8:
		c.WriteI8(v.(int8))
	case KindUint16:
		c.WriteU16LE(v.(uint16))
	case KindInt16:
		c.WriteI16LE(v.(int16))
	case KindUint32:
		c.WriteU32LE(v.(uint32))
	case KindInt32:
		c.WriteI32LE(v.(int32))
	case KindUint64:
		c.WriteU64LE(v.(uint64))
	case KindInt64:
		c.WriteI64LE(v.(int64))
	case KindUint128, KindInt128:
		c.WriteU128LE(v.(U128))
	case KindString:
		if err := c.WriteString(v.(string)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("codec: unsupported primitive kind 0x%x", p.kind)
	}
	return c.Bytes(), nil
}

func (p primitiveCodec) Decode(b []byte) (any, int, error) {
	c := NewCursor(b)
	var v any
	var err error
	switch p.kind {
	case KindUint8:
		v, err = c.ReadU8()
	case KindInt8:
		v, err = c.ReadI8()
	case KindUint16:
		v, err = c.ReadU16LE()
	case KindInt16:
		v, err = c.ReadI16LE()
	case KindUint32:
		v, err = c.ReadU32LE()
	case KindInt32:
		v, err = c.ReadI32LE()
	case KindUint64:
		v, err = c.ReadU64LE()
	case KindInt64:
		v, err = c.ReadI64LE()
	case KindUint128, KindInt128:
		v, err = c.ReadU128LE()
	case KindString:
		v, err = c.ReadString()
	default:
		return nil, 0, fmt.Errorf("codec: unsupported primitive kind 0x%x", p.kind)
	}
	if err != nil {
		return nil, 0, err
	}
	return v, c.Offset(), nil
}

// arrayCodec decodes a u32 count followed by that many instances of an
// inner codec.
type arrayCodec struct {
	inner Codec
}

// NewArray returns a codec for a PTP array: u32 count then count
// instances of inner.
func NewArray(inner Codec) Codec {
	return arrayCodec{inner: inner}
}

func (a arrayCodec) FixedSize() (int, bool) { return 0, false }

func (a arrayCodec) Encode(v any) ([]byte, error) {
	elems := v.([]any)
	c := NewWriteCursor()
	c.WriteU32LE(uint32(len(elems)))
	for _, e := range elems {
		eb, err := a.inner.Encode(e)
		if err != nil {
			return nil, err
		}
		c.WriteBytes(eb...)
	}
	return c.Bytes(), nil
}

func (a arrayCodec) Decode(b []byte) (any, int, error) {
	c := NewCursor(b)
	count, err := c.ReadU32LE()
	if err != nil {
		return nil, 0, err
	}
	if size, fixed := a.inner.FixedSize(); fixed {
		if c.Remaining() < int(count)*size {
			return nil, 0, ErrMalformedArray
		}
	}
	elems := make([]any, 0, count)
	for i := uint32(0); i < count; i++ {
		v, n, err := a.inner.Decode(b[c.Offset():])
		if err != nil {
			return nil, 0, err
		}
		elems = append(elems, v)
		// advance the cursor by re-reading n raw bytes
		if _, err := c.ReadBytes(n); err != nil {
			return nil, 0, err
		}
	}
	return elems, c.Offset(), nil
}

// EnumEntry is one row of an enum codec's lookup table: a numeric value
// paired with a symbolic name and an optional human-readable description.
type EnumEntry struct {
	Value       uint64
	Name        string
	Description string
}

// Raw is the decode result for a numeric value absent from an enum
// codec's table: the underlying bits are preserved rather than lost.
type Raw struct {
	Value uint64
}

// enumCodec is a base numeric codec plus a symbolic name table. Encode
// looks up name -> numeric; unmatched names fail. Decode looks up
// numeric -> the first matching name (aliases resolve to the first
// declared entry); unmatched numerics decode to Raw.
type enumCodec struct {
	base    Codec
	entries []EnumEntry
}

// NewEnum builds an enum codec over base (typically a fixed-width
// primitive codec) and the given table. When two entries share a
// numeric value, the first declared one wins on decode — this is how
// display aliases are expressed.
func NewEnum(base Codec, entries []EnumEntry) Codec {
	return enumCodec{base: base, entries: entries}
}

func (e enumCodec) FixedSize() (int, bool) { return e.base.FixedSize() }

func (e enumCodec) valueOf(name string) (uint64, bool) {
	for _, ent := range e.entries {
		if ent.Name == name {
			return ent.Value, true
		}
	}
	return 0, false
}

func (e enumCodec) nameOf(value uint64) (string, bool) {
	for _, ent := range e.entries {
		if ent.Value == value {
			return ent.Name, true
		}
	}
	return "", false
}

func (e enumCodec) Encode(v any) ([]byte, error) {
	name, ok := v.(string)
	if !ok {
		// Already-numeric callers (e.g. Raw) bypass name resolution.
		if raw, ok := v.(Raw); ok {
			return e.base.Encode(toBaseValue(e.base, raw.Value))
		}
		return nil, fmt.Errorf("codec: enum encode expects string or Raw, got %T", v)
	}
	num, ok := e.valueOf(name)
	if !ok {
		return nil, &ErrUnknownEnumName{Name: name}
	}
	return e.base.Encode(toBaseValue(e.base, num))
}

func (e enumCodec) Decode(b []byte) (any, int, error) {
	baseVal, n, err := e.base.Decode(b)
	if err != nil {
		return nil, 0, err
	}
	num := fromBaseValue(baseVal)
	if name, ok := e.nameOf(num); ok {
		return name, n, nil
	}
	return Raw{Value: num}, n, nil
}

// toBaseValue narrows a uint64 back to whatever concrete numeric type
// the base primitive codec expects.
func toBaseValue(base Codec, num uint64) any {
	size, _ := base.FixedSize()
	switch size {
	case 1:
		return uint8(num)
	case 2:
		return uint16(num)
	case 4:
		return uint32(num)
	default:
		return num
	}
}

// fromBaseValue widens whatever concrete numeric type a primitive codec
// decoded into a uint64 for table lookup.
func fromBaseValue(v any) uint64 {
	switch n := v.(type) {
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	case int8:
		return uint64(uint8(n))
	case int16:
		return uint64(uint16(n))
	case int32:
		return uint64(uint32(n))
	case int64:
		return uint64(n)
	default:
		return 0
	}
}

// Field is one named, codec-typed member of a Dataset codec.
type Field struct {
	Name     string
	Codec    Codec
	Optional bool // absent when zero bytes remain at this field's turn
}

// datasetCodec decodes fields strictly in declared order into a
// map[string]any; encodes them back out in the same order.
type datasetCodec struct {
	fields []Field
}

// NewDataset builds a struct/record codec from an ordered field list.
// It is used for DeviceInfo, StorageInfo, ObjectInfo, property
// descriptors and any other composite PTP dataset.
func NewDataset(fields []Field) Codec {
	return datasetCodec{fields: fields}
}

func (d datasetCodec) FixedSize() (int, bool) { return 0, false }

func (d datasetCodec) Encode(v any) ([]byte, error) {
	rec := v.(map[string]any)
	c := NewWriteCursor()
	for _, f := range d.fields {
		fv, present := rec[f.Name]
		if !present {
			if f.Optional {
				continue
			}
			return nil, fmt.Errorf("codec: dataset missing required field %q", f.Name)
		}
		eb, err := f.Codec.Encode(fv)
		if err != nil {
			return nil, fmt.Errorf("codec: dataset field %q: %w", f.Name, err)
		}
		c.WriteBytes(eb...)
	}
	return c.Bytes(), nil
}

func (d datasetCodec) Decode(b []byte) (any, int, error) {
	rec := make(map[string]any, len(d.fields))
	off := 0
	for _, f := range d.fields {
		if off >= len(b) {
			if f.Optional {
				continue
			}
			return nil, 0, fmt.Errorf("codec: dataset missing required field %q: %w", f.Name, ErrShortRead)
		}
		v, n, err := f.Codec.Decode(b[off:])
		if err != nil {
			if f.Optional {
				continue
			}
			return nil, 0, fmt.Errorf("codec: dataset field %q: %w", f.Name, err)
		}
		rec[f.Name] = v
		off += n
	}
	return rec, off, nil
}

// customCodec wraps an opaque encode/decode pair supplied by a vendor
// registry for formats not reducible to primitive/array/enum/dataset —
// e.g. Canon's event-stream parser or Sony's SDIO OSD image parser.
type customCodec struct {
	encode func(v any) ([]byte, error)
	decode func(b []byte) (any, int, error)
	fixed  int
	isFxd  bool
}

// NewCustom wraps a hand-written encode/decode pair as a Codec. Pass
// fixedSize >= 0 when the custom format has a constant encoded width
// (enables Array's fast-path remaining-bytes check); pass -1 otherwise.
func NewCustom(encode func(any) ([]byte, error), decode func([]byte) (any, int, error), fixedSize int) Codec {
	return customCodec{encode: encode, decode: decode, fixed: fixedSize, isFxd: fixedSize >= 0}
}

func (c customCodec) FixedSize() (int, bool) { return c.fixed, c.isFxd }
func (c customCodec) Encode(v any) ([]byte, error) { return c.encode(v) }
func (c customCodec) Decode(b []byte) (any, int, error) { return c.decode(b) }
