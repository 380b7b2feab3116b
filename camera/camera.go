// Package camera provides the host-facing façade over a PTP device: a
// single Camera type composing a registry.Lookup, an
// engine.TransactionEngine and an eventpump.Pump, with vendor behavior
// injected through the narrow Vendor strategy interface rather than
// subclassing.
package camera

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darkgrade/darkgrade/engine"
	"github.com/darkgrade/darkgrade/eventpump"
	"github.com/darkgrade/darkgrade/log"
	"github.com/darkgrade/darkgrade/ptperr"
	"github.com/darkgrade/darkgrade/registry"
	"github.com/darkgrade/darkgrade/transport"
)

// Camera is the host-side handle to one connected PTP capture device.
// It is safe for concurrent use by multiple goroutines; the
// underlying engine serializes transactions itself.
type Camera struct {
	transport transport.Transport
	registry  registry.Lookup
	engine    *engine.TransactionEngine
	pump      *eventpump.Pump
	vendor    Vendor
	logger    log.Logger

	mu        sync.Mutex
	connected bool
	sessionID uint32
	traceID   uuid.UUID
}

// Option configures a Camera at construction time.
type Option func(*Camera)

// WithVendor installs a vendor strategy. The default is NoVendor.
func WithVendor(v Vendor) Option {
	return func(c *Camera) { c.vendor = v }
}

// WithLogger installs a structured logger. The default is
// log.Discard().
func WithLogger(l log.Logger) Option {
	return func(c *Camera) { c.logger = l }
}

// New builds a Camera over t, resolving operations/properties/events
// against reg, using cfg for transaction-engine timing.
func New(t transport.Transport, reg registry.Lookup, cfg engine.Config, opts ...Option) *Camera {
	c := &Camera{
		transport: t,
		registry:  reg,
		vendor:    NoVendor{},
		logger:    log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = engine.New(t, reg, cfg, c.logger)
	c.pump = eventpump.New(eventpump.InterruptSource{Transport: t}, reg, c.logger)
	return c
}

func (c *Camera) interruptSource() eventpump.Source {
	return eventpump.InterruptSource{Transport: c.transport}
}

// Transport returns the underlying transport.Transport, for a vendor
// strategy that needs to build its own eventpump.Source (e.g. Canon's
// polling substitution) or issue raw control requests.
func (c *Camera) Transport() transport.Transport { return c.transport }

// Registry returns the Camera's registry.Lookup, for a vendor strategy
// resolving property/operation definitions on its own behalf (e.g.
// Canon's event-cache update path).
func (c *Camera) Registry() registry.Lookup { return c.registry }

// Connect opens a session (generating a fresh session ID-scoped trace
// ID for log correlation per §4.M), runs the vendor's ConnectHook, and
// starts the event pump.
func (c *Camera) Connect(ctx context.Context, sessionID uint32) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.traceID = uuid.New()
	c.sessionID = sessionID
	c.mu.Unlock()

	logger := c.logger
	logger.Info("opening session", log.F("session_id", sessionID), log.F("trace_id", c.traceID.String()))

	if err := c.engine.OpenSession(ctx, sessionID); err != nil {
		return err
	}
	if err := c.vendor.ConnectHook(ctx, c); err != nil {
		_ = c.engine.CloseSession(ctx)
		return err
	}

	c.pump = eventpump.New(c.vendor.EventSource(c), c.registry, logger)
	c.pump.Start(ctx)

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	return nil
}

// Disconnect runs the vendor's DisconnectHook, stops the event pump
// and closes the session.
func (c *Camera) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.vendor.DisconnectHook(ctx, c); err != nil {
		c.logger.Warn("vendor disconnect hook failed", log.F("error", err.Error()))
	}
	c.pump.Stop(ctx, c.transport)

	err := c.engine.CloseSession(ctx)
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	return err
}

// On registers an event handler, delivered synchronously on the event
// pump's own goroutine.
func (c *Camera) On(h eventpump.Handler) {
	c.pump.On(h)
}

// Invoke runs an operation by symbolic name, resolving it against the
// Camera's registry. params and dataOut follow engine.Request's rules
// for Direction/DataCodec. This is the one choke point every other
// Invoke* method funnels through, so operation-specific boundary
// checks (GetPartialObject's offset rule below) apply regardless of
// whether the caller built params by hand, via InvokeTyped or via
// InvokeNamed.
func (c *Camera) Invoke(ctx context.Context, opName string, params []uint32, dataOut any) (engine.Response, error) {
	op, ok := c.registry.Operation(opName)
	if !ok {
		return engine.Response{}, ptperr.ErrUnknownOperation
	}
	if opName == "GetPartialObject" && len(params) > 1 && params[1] >= math.MaxUint32 {
		return engine.Response{}, &ptperr.ValidationError{Field: "Offset", Reason: "must be less than 2^32-1"}
	}
	return c.engine.Do(ctx, engine.Request{Op: op, Params: params, DataOut: dataOut})
}

// InvokeTyped runs opName with a typed parameter constructor
// (OpenSessionParams, SetDevicePropValueParams, GetPartialObjectParams,
// ...) instead of a raw []uint32, per §4.L strategy (a)'s compile-time
// field-name/type safety on the documented standard operation set.
func (c *Camera) InvokeTyped(ctx context.Context, opName string, p TypedParams, dataOut any) (engine.Response, error) {
	return c.Invoke(ctx, opName, p.Params(), dataOut)
}

// InvokeNamed runs opName with a generic map[string]any, bound into
// into (a pointer, e.g. &GetPartialObjectParams{}) via BindParams
// before its typed Params() supplies the wire parameters. This is
// §4.L strategy (b): the path vendor operations (not hand-generated
// as a TypedParams type) are called through, and any caller preferring
// a named-field map over positional params.
func (c *Camera) InvokeNamed(ctx context.Context, opName string, named map[string]any, into TypedParams, dataOut any) (engine.Response, error) {
	if err := BindParams(named, into); err != nil {
		return engine.Response{}, &ptperr.ValidationError{Field: "Params", Reason: err.Error()}
	}
	return c.InvokeTyped(ctx, opName, into, dataOut)
}

// InvokeTimeout is Invoke with a per-call timeout override (e.g. a
// longer deadline for GetObject).
func (c *Camera) InvokeTimeout(ctx context.Context, opName string, params []uint32, dataOut any, timeout time.Duration) (engine.Response, error) {
	op, ok := c.registry.Operation(opName)
	if !ok {
		return engine.Response{}, ptperr.ErrUnknownOperation
	}
	return c.engine.Do(ctx, engine.Request{Op: op, Params: params, DataOut: dataOut, Timeout: timeout})
}

// Get reads a device property by symbolic name, deferring to the
// vendor's GetOverride first.
func (c *Camera) Get(ctx context.Context, propName string) (any, error) {
	if v, ok, err := c.vendor.GetOverride(ctx, c, propName); ok {
		return v, err
	}
	prop, ok := c.registry.Property(propName)
	if !ok {
		return nil, ptperr.ErrUnknownProperty
	}
	if !prop.Access.CanRead() {
		return nil, &ptperr.ValidationError{Field: propName, Reason: "property is not readable"}
	}
	op := registry.OperationDefinition{
		Name: "GetDevicePropValue", Code: 0x1015, ParamCount: 1,
		Direction: registry.DirectionOut, DataCodec: prop.Codec,
	}
	resp, err := c.engine.Do(ctx, engine.Request{Op: op, Params: []uint32{uint32(prop.Code)}})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Set writes a device property by symbolic name. value must be the
// type prop.Codec.Encode expects: a string name for an enum property,
// a numeric value for a primitive one.
func (c *Camera) Set(ctx context.Context, propName string, value any) error {
	if ok, err := c.vendor.SetOverride(ctx, c, propName, value); ok {
		return err
	}
	prop, ok := c.registry.Property(propName)
	if !ok {
		return ptperr.ErrUnknownProperty
	}
	if !prop.Access.CanWrite() {
		return ptperr.ErrNotWritable
	}
	op := registry.OperationDefinition{
		Name: "SetDevicePropValue", Code: 0x1016, ParamCount: 1,
		Direction: registry.DirectionIn, DataCodec: prop.Codec,
	}
	_, err := c.engine.Do(ctx, engine.Request{Op: op, Params: []uint32{uint32(prop.Code)}, DataOut: value})
	return err
}

// Logger returns the Camera's structured logger, for a vendor
// strategy to log through the same sink as the rest of the façade.
func (c *Camera) Logger() log.Logger { return c.logger }

// TraceID returns the correlation identifier generated for the
// current (or most recent) session, for embedding in a caller's own
// logs alongside Camera's.
func (c *Camera) TraceID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.traceID
}
