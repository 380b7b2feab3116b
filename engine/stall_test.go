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

func TestSendRecoversFromOneStall(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)

	f.StallOnSend = 1 // the COMMAND send for the next Do call stalls once
	f.Status.Code = registry.RC_OK // device already reports OK by the time recovery polls
	resp, err := container.BuildResponse(registry.RC_OK, 1, nil)
	require.NoError(t, err)
	queueContainer(f, resp)

	op := registry.OperationDefinition{Name: "DeleteObject", Code: 0x100B, Direction: registry.DirectionNone}
	_, err = e.Do(context.Background(), Request{Op: op})
	require.NoError(t, err)
	assert.Equal(t, 1, f.ClearHaltCalls)
	// the retried send after recovery lands in Sent alongside the OpenSession send
	assert.Len(t, f.Sent, 2)
}

func TestRecoverFromStallPollsUntilStatusOK(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)
	e.cfg.StallPollInterval = time.Millisecond

	// The initial Get_Device_Status (before Clear_Halt) is consumed
	// first; the two poll iterations after it see NotOK, then OK.
	f.StatusSequence = []uint16{registry.RC_DeviceBusy, registry.RC_DeviceBusy, registry.RC_OK}

	err := e.recoverFromStall(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ClearHaltCalls)
	assert.Empty(t, f.StatusSequence)
}

func TestRecoverFromStallFailsWhenPollNeverReportsOK(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)
	e.cfg.StallPollAttempts = 2
	e.cfg.StallPollInterval = time.Millisecond
	f.Status.Code = registry.RC_DeviceBusy // every poll keeps reporting busy

	err := e.recoverFromStall(context.Background(), false)
	require.Error(t, err)
	var te *ptperr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ptperr.StallRecoveryFailed, te.Kind)
}

func TestSendStallRecoveryExhaustedMarksSuspect(t *testing.T) {
	f := transport.NewFake()
	e := openedEngine(t, f)
	e.cfg.StallPollAttempts = 1

	f.StallOnSend = 1
	f.FailClearHalt = true

	op := registry.OperationDefinition{Name: "DeleteObject", Code: 0x100B, Direction: registry.DirectionNone}
	_, err := e.Do(context.Background(), Request{Op: op})
	require.Error(t, err)
	var te *ptperr.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ptperr.StallRecoveryFailed, te.Kind)

	e.mu.Lock()
	suspect := e.suspect
	e.mu.Unlock()
	assert.True(t, suspect)
}
