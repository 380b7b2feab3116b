package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		kind primitiveKind
		in   any
	}{
		{"uint8", KindUint8, uint8(7)},
		{"int8", KindInt8, int8(-7)},
		{"uint16", KindUint16, uint16(1234)},
		{"uint32", KindUint32, uint32(0xdeadbeef)},
		{"uint64", KindUint64, uint64(0x1122334455667788)},
		{"string", KindString, "Canon"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewPrimitive(tc.kind)
			b, err := c.Encode(tc.in)
			require.NoError(t, err)
			v, n, err := c.Decode(b)
			require.NoError(t, err)
			assert.Equal(t, len(b), n)
			assert.Equal(t, tc.in, v)
		})
	}
}

func TestPrimitiveStringEmptyRoundTrip(t *testing.T) {
	c := NewPrimitive(KindString)
	b, err := c.Encode("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, b)
	v, n, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "", v)
}

func TestPrimitiveStringAtMaxLengthRoundTrips(t *testing.T) {
	c := NewPrimitive(KindString)
	// 254 code units + trailing NUL = 255, the largest length the u8
	// prefix can hold.
	runes := make([]rune, 254)
	for i := range runes {
		runes[i] = 'a'
	}
	s := string(runes)

	b, err := c.Encode(s)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), b[0])
	v, _, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, s, v)
}

func TestPrimitiveStringOverMaxLengthFails(t *testing.T) {
	c := NewPrimitive(KindString)
	runes := make([]rune, 255)
	for i := range runes {
		runes[i] = 'a'
	}
	_, err := c.Encode(string(runes))
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestEnumDecodeUnknownReturnsRaw(t *testing.T) {
	e := NewEnum(NewPrimitive(KindUint16), []EnumEntry{
		{Value: 1, Name: "A"},
		{Value: 2, Name: "B"},
	})
	b, err := e.Encode("A")
	require.NoError(t, err)
	v, _, err := e.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "A", v)

	unknown := NewPrimitive(KindUint16)
	ub, err := unknown.Encode(uint16(99))
	require.NoError(t, err)
	v, _, err = e.Decode(ub)
	require.NoError(t, err)
	assert.Equal(t, Raw{Value: 99}, v)
}

func TestEnumAliasFirstNameWins(t *testing.T) {
	e := NewEnum(NewPrimitive(KindUint8), []EnumEntry{
		{Value: 1, Name: "Primary"},
		{Value: 1, Name: "Alias"},
	})
	b, _ := NewPrimitive(KindUint8).Encode(uint8(1))
	v, _, err := e.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "Primary", v)
}

func TestEnumEncodeUnknownNameFails(t *testing.T) {
	e := NewEnum(NewPrimitive(KindUint8), []EnumEntry{{Value: 1, Name: "A"}})
	_, err := e.Encode("Z")
	require.Error(t, err)
	var target *ErrUnknownEnumName
	assert.ErrorAs(t, err, &target)
}

func TestArrayRoundTrip(t *testing.T) {
	a := NewArray(NewPrimitive(KindUint16))
	in := []any{uint16(1), uint16(2), uint16(3)}
	b, err := a.Encode(in)
	require.NoError(t, err)
	v, n, err := a.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, in, v)
}

func TestArrayEmptyRoundTrip(t *testing.T) {
	a := NewArray(NewPrimitive(KindUint32))
	b, err := a.Encode([]any{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
	v, n, err := a.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []any{}, v)
}

func TestDatasetRoundTripWithOptionalField(t *testing.T) {
	ds := NewDataset([]Field{
		{Name: "A", Codec: NewPrimitive(KindUint16)},
		{Name: "B", Codec: NewPrimitive(KindString), Optional: true},
	})

	full := map[string]any{"A": uint16(5), "B": "hi"}
	b, err := ds.Encode(full)
	require.NoError(t, err)
	v, _, err := ds.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, full, v)

	withoutOptional := map[string]any{"A": uint16(5)}
	b2, err := ds.Encode(withoutOptional)
	require.NoError(t, err)
	v2, _, err := ds.Decode(b2)
	require.NoError(t, err)
	assert.Equal(t, withoutOptional, v2)
}

func TestDatasetMissingRequiredFieldFails(t *testing.T) {
	ds := NewDataset([]Field{{Name: "A", Codec: NewPrimitive(KindUint16)}})
	_, err := ds.Encode(map[string]any{})
	require.Error(t, err)
}
