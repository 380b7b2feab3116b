package camera

// TypedParams is satisfied by a typed, per-operation parameter
// constructor: the compile-time-safe alternative to BindParams' map
// strategy for the documented standard operation set, per §4.L
// strategy (a).
type TypedParams interface {
	// Params returns the operation's COMMAND-phase parameters in wire
	// order.
	Params() []uint32
}

// OpenSessionParams is the typed constructor for OpenSession.
type OpenSessionParams struct {
	SessionID uint32 `ptp:"session_id"`
}

// Params implements TypedParams.
func (p OpenSessionParams) Params() []uint32 { return []uint32{p.SessionID} }

// SetDevicePropValueParams is the typed constructor for
// SetDevicePropValue's single COMMAND-phase parameter, the target
// property's code; the new value itself travels in the DATA phase
// (see Camera.Set).
type SetDevicePropValueParams struct {
	PropCode uint32 `ptp:"prop_code"`
}

// Params implements TypedParams.
func (p SetDevicePropValueParams) Params() []uint32 { return []uint32{p.PropCode} }

// GetPartialObjectParams is the typed constructor for
// GetPartialObject: the handle to read from, the byte offset to start
// at, and the maximum number of bytes to return.
type GetPartialObjectParams struct {
	ObjectHandle uint32 `ptp:"object_handle"`
	Offset       uint32 `ptp:"offset"`
	MaxBytes     uint32 `ptp:"max_bytes"`
}

// Params implements TypedParams. The offset boundary rule (rejecting
// 2^32-1) is enforced once, in Camera.Invoke, so it applies the same
// way whether params arrived via InvokeTyped, InvokeNamed or a raw
// []uint32 call.
func (p GetPartialObjectParams) Params() []uint32 {
	return []uint32{p.ObjectHandle, p.Offset, p.MaxBytes}
}
