package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericOperationLookup(t *testing.T) {
	r := NewGeneric()
	op, ok := r.Operation("GetDeviceInfo")
	require.True(t, ok)
	assert.Equal(t, uint16(0x1001), op.Code)

	byCode, ok := r.OperationByCode(0x1001)
	require.True(t, ok)
	assert.Equal(t, "GetDeviceInfo", byCode.Name)
}

func TestGenericPropertyLookup(t *testing.T) {
	r := NewGeneric()
	p, ok := r.Property("WhiteBalance")
	require.True(t, ok)
	assert.Equal(t, uint16(0x5005), p.Code)
	assert.True(t, p.Access.CanRead())
	assert.True(t, p.Access.CanWrite())
}

func TestResponseNameFallsBackToHex(t *testing.T) {
	r := NewGeneric()
	assert.Equal(t, "OK", r.ResponseName(RC_OK))
	assert.Equal(t, "0x9999", r.ResponseName(0x9999))
}

func TestVendorOverridesByNameAndCode(t *testing.T) {
	generic := NewGeneric()
	vendorOps := []OperationDefinition{
		{Name: "GetDeviceInfo", Code: 0x9001, ParamCount: 0}, // shadow by name
	}
	vendorProps := []PropertyDefinition{
		{Name: "VendorOnly", Code: 0xD001, Codec: nil, Access: AccessGet},
	}
	v := NewVendor(generic, vendorOps, vendorProps, nil, nil)

	op, ok := v.Operation("GetDeviceInfo")
	require.True(t, ok)
	assert.Equal(t, uint16(0x9001), op.Code, "vendor entry must shadow the generic one by name")

	// The generic code 0x1001 is untouched; only the name lookup shadows.
	byGenericCode, ok := v.OperationByCode(0x1001)
	require.True(t, ok)
	assert.Equal(t, "GetDeviceInfo", byGenericCode.Name)

	p, ok := v.Property("VendorOnly")
	require.True(t, ok)
	assert.Equal(t, uint16(0xD001), p.Code)

	// Falls through to generic for anything the vendor doesn't override.
	wb, ok := v.Property("WhiteBalance")
	require.True(t, ok)
	assert.Equal(t, uint16(0x5005), wb.Code)
}

func TestClassifyCode(t *testing.T) {
	assert.Equal(t, SpaceStandardOperation, ClassifyCode(0x1001))
	assert.Equal(t, SpaceVendorOperation, ClassifyCode(0x9001))
	assert.Equal(t, SpaceStandardProperty, ClassifyCode(0x5005))
	assert.Equal(t, SpaceVendorProperty, ClassifyCode(0xD001))
	assert.Equal(t, SpaceStandardEvent, ClassifyCode(0x4002))
	assert.Equal(t, SpaceResponse, ClassifyCode(0x2001))
}

func TestDeviceInfoCodecRoundTrip(t *testing.T) {
	rec := map[string]any{
		"StandardVersion":           uint16(100),
		"VendorExtensionID":         uint32(6),
		"VendorExtensionVersion":    uint16(100),
		"VendorExtensionDesc":       "",
		"FunctionalMode":            uint16(0),
		"OperationsSupported":       []any{uint16(0x1001), uint16(0x1002)},
		"EventsSupported":           []any{uint16(0x4002)},
		"DevicePropertiesSupported": []any{uint16(0x5005)},
		"CaptureFormats":            []any{uint16(0x3801)},
		"ImageFormats":              []any{uint16(0x3801)},
		"Manufacturer":              "Acme",
		"Model":                     "X100",
		"DeviceVersion":             "1.0",
		"SerialNumber":              "SN1",
	}
	b, err := deviceInfoCodec.Encode(rec)
	require.NoError(t, err)
	v, _, err := deviceInfoCodec.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, rec, v)
}
