package transport

import (
	"context"
	"sync"
)

// Fake is an in-memory Transport used by engine, eventpump and camera
// package tests. It is not behind a build tag: tests in other
// packages import it directly, the way the teacher's packages rely on
// small hand-written fakes rather than a mocking framework.
type Fake struct {
	mu sync.Mutex

	// Sent records every bulk-OUT write, in order.
	Sent [][]byte

	// InQueue is consumed in order by Receive; each entry is one bulk-IN
	// read's worth of bytes (a full container or one chunk of one).
	InQueue [][]byte

	// Events is consumed in order by InterruptReceive.
	Events [][]byte

	// StallOnSend, when >0, makes the next N Send calls fail with
	// ErrStall (decremented each call) before succeeding.
	StallOnSend int

	// Status is returned by ClassRequest(RequestGetDeviceStatus, ...).
	Status DeviceStatus

	// StatusSequence, if non-empty, supplies consecutive
	// Get_Device_Status codes consumed one per ClassRequest call
	// (simulating a device that clears a stall after a few polls);
	// once exhausted, further calls fall back to Status.Code.
	StatusSequence []uint16

	// ClearHaltCalls counts ClearHalt invocations, for recovery tests.
	ClearHaltCalls int

	// FailClearHalt makes ClearHalt return an error, simulating a
	// recovery sequence that never clears the endpoint.
	FailClearHalt bool

	// Cancelled records transaction IDs passed to
	// ClassRequest(RequestCancel, ...).
	Cancelled []uint16

	// closed causes any blocking call to return immediately once
	// Close is invoked, simulating endpoint teardown.
	closed bool

	// interruptClosed is set by ClearInterruptHalt and only affects
	// InterruptReceive; the bulk endpoints stay usable.
	interruptClosed bool
}

// NewFake returns an empty Fake transport.
func NewFake() *Fake { return &Fake{} }

// Closed reports whether Close has torn the transport down or
// ClearInterruptHalt has torn down its interrupt endpoint.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed || f.interruptClosed
}

// Close marks the transport closed; subsequent calls fail fast.
func (f *Fake) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *Fake) Send(ctx context.Context, b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrStall
	}
	if f.StallOnSend > 0 {
		f.StallOnSend--
		return ErrStall
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.Sent = append(f.Sent, cp)
	return nil
}

func (f *Fake) Receive(ctx context.Context, b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || len(f.InQueue) == 0 {
		return 0, nil
	}
	chunk := f.InQueue[0]
	f.InQueue = f.InQueue[1:]
	n := copy(b, chunk)
	return n, nil
}

func (f *Fake) InterruptReceive(ctx context.Context, b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed || f.interruptClosed || len(f.Events) == 0 {
		return 0, ErrStall
	}
	ev := f.Events[0]
	f.Events = f.Events[1:]
	n := copy(b, ev)
	return n, nil
}

func (f *Fake) ClassRequest(ctx context.Context, req ClassRequest, value uint16, data []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch req {
	case RequestGetDeviceStatus:
		code := f.Status.Code
		if len(f.StatusSequence) > 0 {
			code = f.StatusSequence[0]
			f.StatusSequence = f.StatusSequence[1:]
		}
		out := make([]byte, 4)
		out[0], out[1] = 4, 0
		out[2] = byte(code)
		out[3] = byte(code >> 8)
		return out, nil
	case RequestCancel:
		f.Cancelled = append(f.Cancelled, value)
		return nil, nil
	default:
		return nil, nil
	}
}

func (f *Fake) ClearHalt(ctx context.Context, in bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ClearHaltCalls++
	if f.FailClearHalt {
		return ErrStall
	}
	return nil
}

func (f *Fake) ClearInterruptHalt(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.interruptClosed = true
	return nil
}

var _ Transport = (*Fake)(nil)
