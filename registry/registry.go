package registry

import "fmt"

// Lookup is the read interface the transaction engine and camera
// façade depend on; both *Registry and *VendorRegistry satisfy it, so
// a vendorless camera (one built with NewGeneric) and a vendor-backed
// one share the rest of the stack unmodified.
type Lookup interface {
	Operation(name string) (OperationDefinition, bool)
	OperationByCode(code uint16) (OperationDefinition, bool)
	Property(name string) (PropertyDefinition, bool)
	PropertyByCode(code uint16) (PropertyDefinition, bool)
	Event(code uint16) (EventDefinition, bool)
	Response(code uint16) (ResponseDefinition, bool)
	ResponseName(code uint16) string
}

var _ Lookup = (*Registry)(nil)
var _ Lookup = (*VendorRegistry)(nil)

// Registry is a name- and code-indexed view over a set of operation,
// property, event and response definitions. It is the lookup
// collaborator the transaction engine and camera façade consult to
// turn a symbolic operation or property name into wire codes and
// codecs, and to turn a returned numeric code back into a name for
// logging and error reporting.
//
// Registry itself only ever holds the generic (vendor-neutral) table;
// vendor-specific lookup composition lives in VendorRegistry (§4.E).
type Registry struct {
	opsByName   map[string]OperationDefinition
	opsByCode   map[uint16]OperationDefinition
	propsByName map[string]PropertyDefinition
	propsByCode map[uint16]PropertyDefinition
	eventsByCode map[uint16]EventDefinition
	respByCode   map[uint16]ResponseDefinition
}

// NewGeneric builds the Registry over the standard definition tables.
func NewGeneric() *Registry {
	return build(GenericOperations, GenericProperties, GenericEvents, GenericResponses)
}

func build(ops []OperationDefinition, props []PropertyDefinition, events []EventDefinition, resp []ResponseDefinition) *Registry {
	r := &Registry{
		opsByName:    make(map[string]OperationDefinition, len(ops)),
		opsByCode:    make(map[uint16]OperationDefinition, len(ops)),
		propsByName:  make(map[string]PropertyDefinition, len(props)),
		propsByCode:  make(map[uint16]PropertyDefinition, len(props)),
		eventsByCode: make(map[uint16]EventDefinition, len(events)),
		respByCode:   make(map[uint16]ResponseDefinition, len(resp)),
	}
	for _, op := range ops {
		r.opsByName[op.Name] = op
		r.opsByCode[op.Code] = op
	}
	for _, p := range props {
		r.propsByName[p.Name] = p
		r.propsByCode[p.Code] = p
	}
	for _, e := range events {
		r.eventsByCode[e.Code] = e
	}
	for _, rsp := range resp {
		r.respByCode[rsp.Code] = rsp
	}
	return r
}

// Operation looks up an operation definition by its symbolic name.
func (r *Registry) Operation(name string) (OperationDefinition, bool) {
	op, ok := r.opsByName[name]
	return op, ok
}

// OperationByCode looks up an operation definition by its numeric
// code, e.g. to name an operation in a log record after only its code
// survived the wire round trip.
func (r *Registry) OperationByCode(code uint16) (OperationDefinition, bool) {
	op, ok := r.opsByCode[code]
	return op, ok
}

// Property looks up a property definition by its symbolic name.
func (r *Registry) Property(name string) (PropertyDefinition, bool) {
	p, ok := r.propsByName[name]
	return p, ok
}

// PropertyByCode looks up a property definition by its numeric code,
// used to decode a DevicePropChanged event's DevicePropCode parameter
// into a name, and to resolve GetDevicePropValue/SetDevicePropValue
// payload codecs once the property code is known.
func (r *Registry) PropertyByCode(code uint16) (PropertyDefinition, bool) {
	p, ok := r.propsByCode[code]
	return p, ok
}

// Event looks up an event definition by its numeric code (events are
// identified by the wire solely by code; there is no symbolic lookup
// path into the registry for them).
func (r *Registry) Event(code uint16) (EventDefinition, bool) {
	e, ok := r.eventsByCode[code]
	return e, ok
}

// Response looks up a response definition by its numeric code.
func (r *Registry) Response(code uint16) (ResponseDefinition, bool) {
	rsp, ok := r.respByCode[code]
	return rsp, ok
}

// ResponseName renders a response code for error messages and logs,
// falling back to its raw hex value when the code is unknown to this
// registry (a vendor response code the registry wasn't built with).
func (r *Registry) ResponseName(code uint16) string {
	if rsp, ok := r.respByCode[code]; ok {
		return rsp.Name
	}
	return fmt.Sprintf("0x%04x", code)
}
