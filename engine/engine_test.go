package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkgrade/darkgrade/container"
	"github.com/darkgrade/darkgrade/ptperr"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

// queueContainer splits a fully built container into a header chunk
// and a body chunk, matching how receiveContainer issues its reads:
// one HeaderSize read, then one read for the remainder (small payloads
// never exceed Config.ChunkSize, so the remainder is a single chunk).
func queueContainer(f *transport.Fake, b []byte) {
	f.InQueue = append(f.InQueue, append([]byte{}, b[:container.HeaderSize]...))
	if len(b) > container.HeaderSize {
		f.InQueue = append(f.InQueue, append([]byte{}, b[container.HeaderSize:]...))
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := Config{}
	require.NoError(t, cfg.Valid())
	return cfg
}

func openedEngine(t *testing.T, f *transport.Fake) *TransactionEngine {
	t.Helper()
	resp, err := container.BuildResponse(registry.RC_OK, 0, nil)
	require.NoError(t, err)
	queueContainer(f, resp)

	e := New(f, registry.NewGeneric(), testConfig(t), nil)
	require.NoError(t, e.OpenSession(context.Background(), 1))
	return e
}

func TestOpenSessionAllocatesTxnIDStartingAtOne(t *testing.T) {
	e := openedEngine(t, transport.NewFake())
	assert.Equal(t, uint32(1), e.allocateTxnID())
	assert.Equal(t, uint32(2), e.allocateTxnID())
}

func TestAllocateTxnIDWrapsSkippingZero(t *testing.T) {
	e := &TransactionEngine{nextTxnID: 0xFFFFFFFF}
	assert.Equal(t, uint32(0xFFFFFFFF), e.allocateTxnID())
	assert.Equal(t, uint32(1), e.allocateTxnID())
}

func TestDoDirectionOutRoundTrip(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)

	data := container.BuildData(0x1004, 1, mustU32ArrayBytes(t, []uint32{7, 8}))
	resp, err := container.BuildResponse(registry.RC_OK, 1, []uint32{2})
	require.NoError(t, err)
	queueContainer(f, data)
	queueContainer(f, resp)

	op := registry.OperationDefinition{Name: "GetStorageIDs", Code: 0x1004, Direction: registry.DirectionOut}
	r, err := e.Do(context.Background(), Request{Op: op, Params: nil})
	require.NoError(t, err)
	assert.Equal(t, []uint32{2}, r.Params)
	assert.Equal(t, data[container.HeaderSize:], r.Data)
}

func TestDoDirectionInRawPassthrough(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)

	resp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, resp)

	op := registry.OperationDefinition{Name: "SendObject", Code: 0x100D, Direction: registry.DirectionIn}
	payload := []byte{1, 2, 3, 4}
	_, err = e.Do(context.Background(), Request{Op: op, DataOut: payload})
	require.NoError(t, err)

	require.Len(t, f.Sent, 3) // OpenSession, then this op's COMMAND then DATA
	dc, err := container.Parse(f.Sent[2])
	require.NoError(t, err)
	assert.Equal(t, payload, dc.Data)
}

func TestDoSurfacesDeviceErrorOnNonOK(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)

	resp, err := container.BuildResponse(registry.RC_InvalidParameter, 1, nil)
	require.NoError(t, err)
	queueContainer(f, resp)

	op := registry.OperationDefinition{Name: "DeleteObject", Code: 0x100B, Direction: registry.DirectionNone}
	_, err = e.Do(context.Background(), Request{Op: op})
	require.Error(t, err)
	var de *ptperr.DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, registry.RC_InvalidParameter, de.ResponseCode)
	assert.Equal(t, "InvalidParameter", de.Name)
	assert.False(t, de.Recoverable)
}

func TestDoRejectsTooManyParams(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)

	op := registry.OperationDefinition{Name: "X", Code: 0x1234}
	_, err := e.Do(context.Background(), Request{Op: op, Params: []uint32{1, 2, 3, 4, 5, 6}})
	require.Error(t, err)
	var ve *ptperr.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDoRequiresOpenSession(t *testing.T) {
	e := New(transport.NewFake(), registry.NewGeneric(), testConfig(t), nil)
	_, err := e.Do(context.Background(), Request{Op: registry.OperationDefinition{Name: "X", Code: 1}})
	assert.ErrorIs(t, err, ptperr.ErrSessionNotOpen)
}

func TestDoSurfacesShortReadWhenNoResponseQueued(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)

	op := registry.OperationDefinition{Name: "NoReply", Code: 0x9999, Direction: registry.DirectionNone}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := e.Do(ctx, Request{Op: op, Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	var pe *ptperr.ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ptperr.ShortRead, pe.Kind)
}

func mustU32ArrayBytes(t *testing.T, vs []uint32) []byte {
	t.Helper()
	b := make([]byte, 4+4*len(vs))
	b[0] = byte(len(vs))
	b[1] = byte(len(vs) >> 8)
	b[2] = byte(len(vs) >> 16)
	b[3] = byte(len(vs) >> 24)
	off := 4
	for _, v := range vs {
		b[off] = byte(v)
		b[off+1] = byte(v >> 8)
		b[off+2] = byte(v >> 16)
		b[off+3] = byte(v >> 24)
		off += 4
	}
	return b
}
