package engine

import (
	"context"
	"errors"
	"time"

	"github.com/darkgrade/darkgrade/log"
	"github.com/darkgrade/darkgrade/ptperr"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

// errStallNotCleared is the poll-exhausted cause wrapped into the
// TransportError returned when Get_Device_Status never reports OK
// within Config.StallPollAttempts tries.
var errStallNotCleared = errors.New("engine: stall recovery poll exhausted without device reporting OK")

// recoverFromStall runs the PIMA 15740 §D.7.2.1 STALL recovery
// sequence: issue Get_Device_Status once, Clear_Halt on the stalled
// endpoint (in selects bulk-IN, false selects bulk-OUT), then poll
// Get_Device_Status up to Config.StallPollAttempts times at
// Config.StallPollInterval apart until its status code reports OK.
// The caller retries its single Send/Receive call once recovery
// succeeds; a second failure is not retried again.
func (e *TransactionEngine) recoverFromStall(ctx context.Context, in bool) error {
	e.logger.Warn("stall detected, beginning recovery", log.F("endpoint_in", in))

	if _, err := e.transport.ClassRequest(ctx, transport.RequestGetDeviceStatus, 0, nil); err != nil {
		return &ptperr.TransportError{Kind: ptperr.StallRecoveryFailed, Cause: err}
	}

	if err := e.transport.ClearHalt(ctx, in); err != nil {
		return &ptperr.TransportError{Kind: ptperr.StallRecoveryFailed, Cause: err}
	}

	for attempt := 0; attempt < e.cfg.StallPollAttempts; attempt++ {
		resp, err := e.transport.ClassRequest(ctx, transport.RequestGetDeviceStatus, 0, nil)
		if err == nil {
			if st, derr := transport.DecodeDeviceStatus(resp); derr == nil && st.Code == registry.RC_OK {
				e.logger.Info("stall recovered", log.F("endpoint_in", in))
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return &ptperr.TransportError{Kind: ptperr.StallRecoveryFailed, Cause: ctx.Err()}
		case <-time.After(e.cfg.StallPollInterval):
		}
	}

	return &ptperr.TransportError{Kind: ptperr.StallRecoveryFailed, Cause: errStallNotCleared}
}
