package camera

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkgrade/darkgrade/codec"
	"github.com/darkgrade/darkgrade/container"
	"github.com/darkgrade/darkgrade/engine"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

func queueContainer(f *transport.Fake, b []byte) {
	f.InQueue = append(f.InQueue, append([]byte{}, b[:container.HeaderSize]...))
	if len(b) > container.HeaderSize {
		f.InQueue = append(f.InQueue, append([]byte{}, b[container.HeaderSize:]...))
	}
}

func TestConnectDisconnectLifecycleWithNoVendor(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()

	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	c := New(f, reg, engine.DefaultConfig())
	require.NoError(t, c.Connect(context.Background(), 1))
	assert.NotEqual(t, uuid.UUID{}, c.TraceID())

	closeResp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, closeResp)

	require.NoError(t, c.Disconnect(context.Background()))
}

func TestGetUsesGenericPathWhenNoVendorOverride(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()

	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	c := New(f, reg, engine.DefaultConfig())
	require.NoError(t, c.Connect(context.Background(), 1))

	raw := codec.NewPrimitive(codec.KindUint16)
	data := container.BuildData(0x1015, 1, mustEncode(t, raw, uint16(0x0002)))
	resp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, data)
	queueContainer(f, resp)

	v, err := c.Get(context.Background(), "WhiteBalance")
	require.NoError(t, err)
	assert.Equal(t, "Automatic", v)
}

func TestGetUnknownPropertyFails(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()
	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	c := New(f, reg, engine.DefaultConfig())
	require.NoError(t, c.Connect(context.Background(), 1))

	_, err = c.Get(context.Background(), "NoSuchProperty")
	require.Error(t, err)
}

type fakeVendor struct {
	NoVendor
	getCalls int
}

func (v *fakeVendor) GetOverride(ctx context.Context, c *Camera, propName string) (any, bool, error) {
	v.getCalls++
	if propName == "Overridden" {
		return "vendor-value", true, nil
	}
	return nil, false, nil
}

func TestGetConsultsVendorOverrideFirst(t *testing.T) {
	f := transport.NewFake()
	reg := registry.NewGeneric()
	openResp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, openResp)

	fv := &fakeVendor{}
	c := New(f, reg, engine.DefaultConfig(), WithVendor(fv))
	require.NoError(t, c.Connect(context.Background(), 1))

	v, err := c.Get(context.Background(), "Overridden")
	require.NoError(t, err)
	assert.Equal(t, "vendor-value", v)
	assert.Equal(t, 1, fv.getCalls)
}

func mustEncode(t *testing.T, c codec.Codec, v any) []byte {
	t.Helper()
	b, err := c.Encode(v)
	require.NoError(t, err)
	return b
}
