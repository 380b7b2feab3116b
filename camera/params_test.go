package camera

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkgrade/darkgrade/container"
	"github.com/darkgrade/darkgrade/engine"
	"github.com/darkgrade/darkgrade/ptperr"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

func TestOpenSessionParamsWireOrder(t *testing.T) {
	p := OpenSessionParams{SessionID: 7}
	assert.Equal(t, []uint32{7}, p.Params())
}

func TestSetDevicePropValueParamsWireOrder(t *testing.T) {
	p := SetDevicePropValueParams{PropCode: 0x5005}
	assert.Equal(t, []uint32{0x5005}, p.Params())
}

func TestGetPartialObjectParamsWireOrder(t *testing.T) {
	p := GetPartialObjectParams{ObjectHandle: 1, Offset: 2, MaxBytes: 3}
	assert.Equal(t, []uint32{1, 2, 3}, p.Params())
}

func TestInvokeTypedSendsParamsOverWire(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()

	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	c := New(f, reg, engine.DefaultConfig())
	require.NoError(t, c.Connect(context.Background(), 1))

	// SetDevicePropValue (DirectionIn) sends COMMAND then an empty DATA
	// container before the device answers with RESPONSE.
	dataResp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, dataResp)

	_, err = c.InvokeTyped(context.Background(), "SetDevicePropValue", SetDevicePropValueParams{PropCode: 0x5005}, nil)
	require.NoError(t, err)

	cmd, err := container.Parse(f.Sent[1])
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x5005}, cmd.Params)
}

func TestInvokeNamedBindsMapIntoTypedParams(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()

	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	c := New(f, reg, engine.DefaultConfig())
	require.NoError(t, c.Connect(context.Background(), 1))

	dataResp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, dataResp)

	into := &SetDevicePropValueParams{}
	_, err = c.InvokeNamed(context.Background(), "SetDevicePropValue", map[string]any{"prop_code": 0x5005}, into, nil)
	require.NoError(t, err)

	cmd, err := container.Parse(f.Sent[1])
	require.NoError(t, err)
	assert.Equal(t, []uint32{0x5005}, cmd.Params)
}

func TestInvokeNamedFailsOnUnboundableMap(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()
	c := New(f, reg, engine.DefaultConfig())

	into := &GetPartialObjectParams{}
	_, err := c.InvokeNamed(context.Background(), "GetPartialObject", map[string]any{"object_handle": "not-a-number!"}, into, nil)
	require.Error(t, err)
	var ve *ptperr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestInvokeRejectsGetPartialObjectOffsetAtBoundary(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()
	c := New(f, reg, engine.DefaultConfig())

	_, err := c.Invoke(context.Background(), "GetPartialObject", []uint32{1, math.MaxUint32, 10}, nil)
	require.Error(t, err)
	var ve *ptperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Offset", ve.Field)
	assert.Empty(t, f.Sent, "an invalid offset must never reach the wire")
}

func TestInvokeTypedRejectsGetPartialObjectOffsetAtBoundary(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()
	c := New(f, reg, engine.DefaultConfig())

	_, err := c.InvokeTyped(context.Background(), "GetPartialObject", GetPartialObjectParams{
		ObjectHandle: 1, Offset: math.MaxUint32, MaxBytes: 10,
	}, nil)
	require.Error(t, err)
	var ve *ptperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, f.Sent)
}

func TestInvokeAllowsGetPartialObjectOffsetJustBelowBoundary(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()

	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	c := New(f, reg, engine.DefaultConfig())
	require.NoError(t, c.Connect(context.Background(), 1))

	resp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, resp)

	_, err = c.Invoke(context.Background(), "GetPartialObject", []uint32{1, math.MaxUint32 - 1, 10}, nil)
	require.NoError(t, err)
}
