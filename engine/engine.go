// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package engine drives the PTP transaction state machine over a
// transport.Transport: COMMAND -> (DATA) -> RESPONSE, STALL recovery,
// chunked large-data transfers, and per-call cancellation.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/darkgrade/darkgrade/container"
	"github.com/darkgrade/darkgrade/log"
	"github.com/darkgrade/darkgrade/ptperr"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

// Request is one operation invocation: the definition to run, the
// COMMAND parameters, and (for DirectionIn operations) the payload to
// send during the DATA phase.
type Request struct {
	Op     registry.OperationDefinition
	Params []uint32
	// DataOut is the value sent during a DirectionIn operation's DATA
	// phase: raw []byte when Op.DataCodec is nil, or the native value
	// (a dataset map[string]any, an enum name, a numeric value) that
	// Op.DataCodec.Encode expects otherwise.
	DataOut any
	// Timeout overrides Config.BulkTimeout for this call (e.g. a 30s
	// read for GetObject). Zero means use the engine's configured
	// default.
	Timeout time.Duration
}

// Response is the result of a successful Request: the RESPONSE
// container's parameters and, for DirectionOut operations, the
// decoded DATA-phase payload.
type Response struct {
	Params []uint32
	Data   any
}

// TransactionEngine owns one session's transaction-ID sequence and
// drives each operation's COMMAND/DATA/RESPONSE exchange over a
// transport.Transport. It serializes all calls: PTP permits only one
// in-flight transaction per session.
type TransactionEngine struct {
	transport transport.Transport
	reg       registry.Lookup
	cfg       Config
	logger    log.Logger

	mu          sync.Mutex
	nextTxnID   uint32
	sessionOpen bool
	suspect     bool

	// txnMu is held for a whole COMMAND/DATA/RESPONSE exchange so two
	// transactions never interleave their frames on the wire.
	txnMu sync.Mutex
}

// New builds a TransactionEngine over t using cfg (already validated
// via Config.Valid) and logger. reg resolves response codes to their
// Name/Recoverable for DeviceError; a nil reg leaves both blank. A nil
// logger is replaced by log.Discard().
func New(t transport.Transport, reg registry.Lookup, cfg Config, logger log.Logger) *TransactionEngine {
	if logger == nil {
		logger = log.Discard()
	}
	return &TransactionEngine{transport: t, reg: reg, cfg: cfg, logger: logger}
}

// allocateTxnID returns the next transaction ID, wrapping
// 0xFFFFFFFF -> 1 and always skipping 0 (reserved for OpenSession).
func (e *TransactionEngine) allocateTxnID() uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextTxnID
	e.nextTxnID++
	if e.nextTxnID == 0 {
		e.nextTxnID = 1
	}
	return id
}

// OpenSession issues OpenSession with the given session ID, always
// under transaction ID 0, and on success arms the transaction-ID
// sequence starting at 1.
func (e *TransactionEngine) OpenSession(ctx context.Context, sessionID uint32) error {
	e.mu.Lock()
	if e.sessionOpen {
		e.mu.Unlock()
		return ptperr.ErrSessionNotOpen
	}
	e.mu.Unlock()

	_, err := e.doTransaction(ctx, openSessionOp, 0, []uint32{sessionID}, nil, e.cfg.BulkTimeout)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.sessionOpen = true
	e.nextTxnID = 1
	e.mu.Unlock()
	return nil
}

// CloseSession issues CloseSession and marks the session closed
// regardless of outcome, so a caller can always retry OpenSession.
func (e *TransactionEngine) CloseSession(ctx context.Context) error {
	e.mu.Lock()
	if !e.sessionOpen {
		e.mu.Unlock()
		return ptperr.ErrSessionNotOpen
	}
	e.mu.Unlock()

	txnID := e.allocateTxnID()
	_, err := e.doTransaction(ctx, closeSessionOp, txnID, nil, nil, e.cfg.BulkTimeout)
	e.mu.Lock()
	e.sessionOpen = false
	e.mu.Unlock()
	return err
}

// openSessionOp and closeSessionOp are minimal OperationDefinitions
// the engine issues directly; the full registry entries (used by
// everything else) live in the registry package, but the engine must
// not import a circular dependency on camera-level session plumbing
// to bootstrap its own two special-cased operations.
var (
	openSessionOp  = registry.OperationDefinition{Name: "OpenSession", Code: 0x1002, ParamCount: 1}
	closeSessionOp = registry.OperationDefinition{Name: "CloseSession", Code: 0x1003, ParamCount: 0}
)

// Do runs one operation's full transaction. The caller must have an
// open session (except for OpenSession itself, called via
// OpenSession above).
func (e *TransactionEngine) Do(ctx context.Context, req Request) (Response, error) {
	e.mu.Lock()
	open := e.sessionOpen
	suspect := e.suspect
	e.mu.Unlock()
	if !open {
		return Response{}, ptperr.ErrSessionNotOpen
	}
	if len(req.Params) > container.MaxParams {
		return Response{}, &ptperr.ValidationError{Field: "Params", Reason: "more than 5 parameters"}
	}

	if suspect {
		if err := e.probeStatus(ctx); err != nil {
			return Response{}, err
		}
		e.mu.Lock()
		e.suspect = false
		e.mu.Unlock()
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = e.cfg.BulkTimeout
	}
	txnID := e.allocateTxnID()
	return e.doTransaction(ctx, req.Op, txnID, req.Params, req.DataOut, timeout)
}

func (e *TransactionEngine) doTransaction(ctx context.Context, op registry.OperationDefinition, txnID uint32, params []uint32, dataOut any, timeout time.Duration) (Response, error) {
	e.txnMu.Lock()
	defer e.txnMu.Unlock()

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	e.logger.Debug("transaction start", log.F("op", op.Name), log.F("txn", txnID))

	cmd, err := container.BuildCommand(op.Code, txnID, params)
	if err != nil {
		return Response{}, err
	}
	if err := e.sendWithRecovery(tctx, txnID, cmd); err != nil {
		return Response{}, err
	}

	if op.Direction == registry.DirectionIn {
		var payload []byte
		switch {
		case op.DataCodec != nil:
			payload, err = op.DataCodec.Encode(dataOut)
			if err != nil {
				return Response{}, &ptperr.ValidationError{Field: "DataOut", Reason: err.Error()}
			}
		case dataOut != nil:
			b, ok := dataOut.([]byte)
			if !ok {
				return Response{}, &ptperr.ValidationError{Field: "DataOut", Reason: "operation has no DataCodec, expected []byte"}
			}
			payload = b
		}
		dc := container.BuildData(op.Code, txnID, payload)
		if err := e.sendChunked(tctx, txnID, dc); err != nil {
			return Response{}, err
		}
	}

	var decoded any
	var respParams []uint32
	for {
		c, err := e.receiveContainer(tctx, txnID)
		if err != nil {
			return Response{}, err
		}
		switch c.Type {
		case container.TypeData:
			if op.Direction != registry.DirectionOut {
				return Response{}, &ptperr.ProtocolError{Kind: ptperr.UnexpectedContainerType, Message: "unsolicited DATA container"}
			}
			if op.DataCodec != nil {
				v, _, err := op.DataCodec.Decode(c.Data)
				if err != nil {
					return Response{}, &ptperr.ProtocolError{Kind: ptperr.MalformedFrame, Message: "decoding DATA payload", Cause: err}
				}
				decoded = v
			} else {
				decoded = c.Data
			}
			continue
		case container.TypeResponse:
			respParams = c.Params
			if c.Code != registry.RC_OK {
				e.logger.Warn("transaction failed", log.F("op", op.Name), log.F("txn", txnID), log.F("code", c.Code))
				name, recoverable := "", false
				if e.reg != nil {
					if rd, ok := e.reg.Response(c.Code); ok {
						name, recoverable = rd.Name, rd.Recoverable
					} else {
						name = e.reg.ResponseName(c.Code)
					}
				}
				return Response{}, &ptperr.DeviceError{ResponseCode: c.Code, Name: name, Recoverable: recoverable, Params: respParams}
			}
			e.logger.Debug("transaction ok", log.F("op", op.Name), log.F("txn", txnID))
			return Response{Params: respParams, Data: decoded}, nil
		default:
			return Response{}, &ptperr.ProtocolError{Kind: ptperr.UnexpectedContainerType, Message: c.Type.String()}
		}
	}
}

// probeStatus issues Get_Device_Status to confirm a suspect session is
// still usable, without attempting a full STALL recovery cycle.
func (e *TransactionEngine) probeStatus(ctx context.Context) error {
	_, err := e.transport.ClassRequest(ctx, transport.RequestGetDeviceStatus, 0, nil)
	if err != nil {
		return &ptperr.TransportError{Kind: ptperr.StallRecoveryFailed, Cause: err}
	}
	return nil
}

func (e *TransactionEngine) receiveContainer(ctx context.Context, txnID uint32) (container.Container, error) {
	buf := make([]byte, container.HeaderSize)
	n, err := e.receiveWithRecovery(ctx, txnID, buf)
	if err != nil {
		return container.Container{}, err
	}
	if n < container.HeaderSize {
		return container.Container{}, &ptperr.ProtocolError{Kind: ptperr.ShortRead, Message: "container header"}
	}
	hdr, err := container.ParseHeader(buf)
	if err != nil {
		return container.Container{}, &ptperr.ProtocolError{Kind: ptperr.MalformedFrame, Cause: err}
	}
	total := int(hdr.Length)
	full := make([]byte, total)
	copy(full, buf[:n])
	got := n
	for got < total {
		chunkSize := e.cfg.ChunkSize
		if total-got < chunkSize {
			chunkSize = total - got
		}
		m, err := e.receiveWithRecovery(ctx, txnID, full[got:got+chunkSize])
		if err != nil {
			return container.Container{}, err
		}
		if m == 0 {
			break
		}
		got += m
	}
	return container.Parse(full[:got])
}

// sendChunked issues the DATA phase as a single bulk-OUT write when it
// is at or below Config.LargeTransferThreshold, and in
// Config.ChunkSize pieces above it, per §4.G "For outgoing data
// phases larger than 1 MiB it writes in 64 KiB chunks."
func (e *TransactionEngine) sendChunked(ctx context.Context, txnID uint32, b []byte) error {
	if len(b) <= e.cfg.LargeTransferThreshold {
		return e.sendWithRecovery(ctx, txnID, b)
	}
	chunkSize := e.cfg.ChunkSize
	for off := 0; off < len(b); off += chunkSize {
		end := off + chunkSize
		if end > len(b) {
			end = len(b)
		}
		if err := e.sendWithRecovery(ctx, txnID, b[off:end]); err != nil {
			return err
		}
	}
	return nil
}

// sendWithRecovery and receiveWithRecovery wrap a single transport
// call with timeout-driven cancellation and STALL recovery. See
// stall.go and cancel.go.
func (e *TransactionEngine) sendWithRecovery(ctx context.Context, txnID uint32, b []byte) error {
	err := e.runCancellable(ctx, txnID, func(ctx context.Context) error {
		return e.transport.Send(ctx, b)
	})
	if errors.Is(err, transport.ErrStall) {
		if rerr := e.recoverFromStall(ctx, false); rerr != nil {
			e.markSuspect()
			return rerr
		}
		return e.classifyIOError(txnID, e.transport.Send(ctx, b))
	}
	return e.classifyIOError(txnID, err)
}

func (e *TransactionEngine) receiveWithRecovery(ctx context.Context, txnID uint32, b []byte) (int, error) {
	var n int
	err := e.runCancellable(ctx, txnID, func(ctx context.Context) error {
		var ierr error
		n, ierr = e.transport.Receive(ctx, b)
		return ierr
	})
	if errors.Is(err, transport.ErrStall) {
		if rerr := e.recoverFromStall(ctx, true); rerr != nil {
			e.markSuspect()
			return 0, rerr
		}
		n, err = e.transport.Receive(ctx, b)
	}
	if err != nil {
		return 0, e.classifyIOError(txnID, err)
	}
	return n, nil
}

func (e *TransactionEngine) markSuspect() {
	e.mu.Lock()
	e.suspect = true
	e.mu.Unlock()
}

func (e *TransactionEngine) classifyIOError(txnID uint32, err error) error {
	if err == nil {
		return nil
	}
	var te *ptperr.TransportError
	if errors.As(err, &te) {
		e.markSuspect()
		return err
	}
	if errors.Is(err, context.Canceled) {
		return &ptperr.CancelError{TransactionID: txnID}
	}
	e.markSuspect()
	if errors.Is(err, context.DeadlineExceeded) {
		return &ptperr.TransportError{Kind: ptperr.Timeout, Cause: err}
	}
	return &ptperr.TransportError{Kind: ptperr.TransferFailed, Cause: err}
}
