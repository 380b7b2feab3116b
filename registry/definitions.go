package registry

import "github.com/darkgrade/darkgrade/codec"

// OperationDefinition describes one invokable PTP operation: its
// numeric code, a human name, how many COMMAND parameters it takes,
// which direction (if any) carries a data phase, and the Dataset or
// Primitive codec used to interpret that phase's payload. §4.D.
type OperationDefinition struct {
	Name          string
	Code          uint16
	ParamCount    int
	Direction     DataDirection
	DataCodec     codec.Codec
	// Recoverable marks an operation that can be repeated without
	// risking a duplicate side effect (e.g. GetDeviceInfo vs.
	// InitiateCapture). The engine's single retry after STALL recovery
	// does not consult it.
	Recoverable bool
}

// PropertyDefinition describes one device property: its numeric code,
// the codec used to decode GetDevicePropValue/encode
// SetDevicePropValue payloads, and whether Set is permitted at all
// (the device's live PropertyDescriptor.Form/GetSet further narrows
// this per §4.F, but a property absent here is never writable).
type PropertyDefinition struct {
	Name   string
	Code   uint16
	Codec  codec.Codec
	Access Access
}

// EventDefinition describes one asynchronous EVENT container: its
// numeric code and how its parameter slots are interpreted. Most
// standard events carry object/storage handles directly as u32
// parameters (no data phase), so EventDefinition has no Codec field;
// vendor events that pack structured data into parameters (Canon's
// property_code/value pairs) are decoded by the vendor package itself
// (Canon's observeCanonEvent) instead.
type EventDefinition struct {
	Name       string
	Code       uint16
	ParamNames []string
}

// ResponseDefinition describes one RESPONSE code: its numeric value
// and whether the failure it reports is Recoverable, i.e. whether a
// caller may reasonably retry the same operation once the condition
// that produced it clears (StoreFull is not recoverable until the
// caller frees space; DeviceBusy is recoverable by the caller
// retrying later). This flag is surfaced on ptperr.DeviceError but
// the engine itself never auto-retries on it.
type ResponseDefinition struct {
	Name        string
	Code        uint16
	Recoverable bool
}
