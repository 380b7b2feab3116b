package registry

// VendorRegistry composes a generic Registry with a vendor's
// overrides: vendor entries shadow generic ones by both symbolic name
// and numeric code, so a vendor that redefines a standard property
// code for its own purposes (or adds a property in the 0xDxxx range)
// is resolved consistently whichever direction the lookup comes from.
// §4.E "two-layer lookup, vendor-first".
type VendorRegistry struct {
	generic *Registry
	vendor  *Registry
}

// NewVendor composes generic with the given vendor-specific
// definition tables. A vendor package (sony, canon, nikon) builds one
// of these once at init and wires it into its Vendor strategy.
func NewVendor(generic *Registry, ops []OperationDefinition, props []PropertyDefinition, events []EventDefinition, resp []ResponseDefinition) *VendorRegistry {
	return &VendorRegistry{
		generic: generic,
		vendor:  build(ops, props, events, resp),
	}
}

// Operation resolves name against the vendor table first, falling
// back to generic.
func (v *VendorRegistry) Operation(name string) (OperationDefinition, bool) {
	if op, ok := v.vendor.opsByName[name]; ok {
		return op, true
	}
	return v.generic.Operation(name)
}

// OperationByCode resolves code against the vendor table first.
func (v *VendorRegistry) OperationByCode(code uint16) (OperationDefinition, bool) {
	if op, ok := v.vendor.opsByCode[code]; ok {
		return op, true
	}
	return v.generic.OperationByCode(code)
}

// Property resolves name against the vendor table first.
func (v *VendorRegistry) Property(name string) (PropertyDefinition, bool) {
	if p, ok := v.vendor.propsByName[name]; ok {
		return p, true
	}
	return v.generic.Property(name)
}

// PropertyByCode resolves code against the vendor table first. This
// is the path that matters most: a vendor code in the 0xDxxx range
// only ever exists in the vendor table, but a vendor may also choose
// to reinterpret a standard 0x5xxx code (rare, but the precedence
// must hold either way).
func (v *VendorRegistry) PropertyByCode(code uint16) (PropertyDefinition, bool) {
	if p, ok := v.vendor.propsByCode[code]; ok {
		return p, true
	}
	return v.generic.PropertyByCode(code)
}

// Event resolves code against the vendor table first.
func (v *VendorRegistry) Event(code uint16) (EventDefinition, bool) {
	if e, ok := v.vendor.eventsByCode[code]; ok {
		return e, true
	}
	return v.generic.Event(code)
}

// Response resolves code against the vendor table first.
func (v *VendorRegistry) Response(code uint16) (ResponseDefinition, bool) {
	if rsp, ok := v.vendor.respByCode[code]; ok {
		return rsp, true
	}
	return v.generic.Response(code)
}

// ResponseName renders a response code, preferring the vendor table.
func (v *VendorRegistry) ResponseName(code uint16) string {
	if rsp, ok := v.vendor.respByCode[code]; ok {
		return rsp.Name
	}
	return v.generic.ResponseName(code)
}
