// Package eventpump runs the persistent interrupt-endpoint reader that
// turns raw EVENT containers into dispatched, named events. It also
// hosts the Canon polling substitution: devices that never push
// spontaneous interrupt packets are served by a goroutine that issues
// CanonGetEventData on an interval instead, behind the same Pump API.
package eventpump

import (
	"context"
	"sync"
	"time"

	"github.com/darkgrade/darkgrade/container"
	"github.com/darkgrade/darkgrade/log"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

// Event is one dispatched PTP event: its definition (or an unknown
// marker if the code wasn't in the registry) plus its raw parameters.
type Event struct {
	Name   string
	Code   uint16
	Params []uint32
}

// Handler receives dispatched events, synchronously, in the order the
// pump decodes them. A handler that blocks delays the next read; it
// must not call back into the camera façade's Send path from the same
// goroutine the façade drives (event handlers run on the pump's own
// goroutine).
type Handler func(Event)

// Source abstracts how the pump obtains the next EVENT container:
// blocking on the interrupt endpoint (the default), or polling a
// vendor-specific operation (Canon's CanonGetEventData).
type Source interface {
	// Next blocks until one EVENT container's raw bytes are available,
	// ctx is cancelled, or the source is torn down.
	Next(ctx context.Context) ([]byte, error)
}

// InterruptSource reads EVENT containers off the interrupt endpoint.
type InterruptSource struct {
	Transport transport.Transport
}

// Next implements Source.
func (s InterruptSource) Next(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 512)
	n, err := s.Transport.InterruptReceive(ctx, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// PollFunc issues one vendor poll and returns the raw EVENT container
// bytes it produced, or nil if nothing is pending this tick.
type PollFunc func(ctx context.Context) ([]byte, error)

// PollingSource adapts a PollFunc (e.g. Canon's CanonGetEventData) to
// Source by calling it on a fixed interval, per §4.I Canon polling
// substitution.
type PollingSource struct {
	Poll     PollFunc
	Interval time.Duration
}

// Next implements Source.
func (s PollingSource) Next(ctx context.Context) ([]byte, error) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			b, err := s.Poll(ctx)
			if err != nil {
				return nil, err
			}
			if b != nil {
				return b, nil
			}
		}
	}
}

// Pump drives one Source, decoding each EVENT container through a
// registry.Lookup and dispatching it to every registered Handler
// synchronously before re-issuing the next read.
type Pump struct {
	src    Source
	lookup registry.Lookup
	logger log.Logger

	mu       sync.Mutex
	handlers []Handler
	cancel   context.CancelFunc
	done     chan struct{}
	stopped  bool
}

// New builds a Pump reading from src (typically InterruptSource, or
// PollingSource for Canon) and decoding against lookup.
func New(src Source, lookup registry.Lookup, logger log.Logger) *Pump {
	if logger == nil {
		logger = log.Discard()
	}
	return &Pump{src: src, lookup: lookup, logger: logger}
}

// On registers a handler. Handlers persist for the life of the pump;
// there is no Off for an individual handler since callers are
// expected to filter inside their own Handler by Event.Name.
func (p *Pump) On(h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

// Start begins the read-decode-dispatch loop on its own goroutine. It
// is idempotent: calling Start twice without an intervening Stop is a
// no-op.
func (p *Pump) Start(ctx context.Context) {
	p.mu.Lock()
	if p.cancel != nil {
		p.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.stopped = false
	done := p.done
	p.mu.Unlock()

	go p.loop(runCtx, done)
}

func (p *Pump) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		b, err := p.src.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				p.logger.Debug("event pump stopped")
				return
			}
			p.logger.Warn("event read failed, continuing", log.F("error", err.Error()))
			continue
		}
		ev, ok := p.decode(b)
		if !ok {
			continue
		}
		p.dispatch(ev)
	}
}

func (p *Pump) decode(b []byte) (Event, bool) {
	c, err := container.Parse(b)
	if err != nil {
		p.logger.Warn("malformed EVENT container, skipping", log.F("error", err.Error()))
		return Event{}, false
	}
	if c.Type != container.TypeEvent {
		p.logger.Warn("non-EVENT container on event path, skipping", log.F("type", c.Type.String()))
		return Event{}, false
	}
	name := "Unknown"
	if def, ok := p.lookup.Event(c.Code); ok {
		name = def.Name
	}
	return Event{Name: name, Code: c.Code, Params: c.Params}, true
}

func (p *Pump) dispatch(ev Event) {
	p.mu.Lock()
	handlers := make([]Handler, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

// Stop cancels the read loop and, for an interrupt-backed pump, clears
// the interrupt endpoint's halt to force any in-flight blocking read
// to return immediately (the documented TransferCancelled behavior).
// It blocks until the loop goroutine has exited.
func (p *Pump) Stop(ctx context.Context, t transport.Transport) {
	p.mu.Lock()
	if p.cancel == nil || p.stopped {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.stopped = true
	done := p.done
	p.mu.Unlock()

	if t != nil {
		_ = t.ClearInterruptHalt(ctx)
	}
	<-done
}
