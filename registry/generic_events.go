package registry

// GenericEvents is the standard EVENT-code table (§6), plus the
// additional standard events restored from the ISO 15740 table that
// the distilled spec omitted. Every entry here carries its arguments
// as plain u32 parameters; vendors whose events pack structured data
// into parameters (Canon's property_code/value pairs) decode them in
// their own vendor package rather than extending ParamNames here.
var GenericEvents = []EventDefinition{
	{Name: "CancelTransaction", Code: 0x4001},
	{Name: "ObjectAdded", Code: 0x4002, ParamNames: []string{"ObjectHandle"}},
	{Name: "ObjectRemoved", Code: 0x4003, ParamNames: []string{"ObjectHandle"}},
	{Name: "StoreAdded", Code: 0x4004, ParamNames: []string{"StorageID"}},
	{Name: "StoreRemoved", Code: 0x4005, ParamNames: []string{"StorageID"}},
	{Name: "DevicePropChanged", Code: 0x4006, ParamNames: []string{"DevicePropCode"}},
	{Name: "ObjectInfoChanged", Code: 0x4007, ParamNames: []string{"ObjectHandle"}},
	{Name: "DeviceInfoChanged", Code: 0x4008},
	{Name: "RequestObjectTransfer", Code: 0x4009, ParamNames: []string{"ObjectHandle"}},
	{Name: "StoreFull", Code: 0x400A, ParamNames: []string{"StorageID"}},
	{Name: "DeviceReset", Code: 0x400B},
	{Name: "StorageInfoChanged", Code: 0x400C, ParamNames: []string{"StorageID"}},
	{Name: "CaptureComplete", Code: 0x400D, ParamNames: []string{"TransactionID"}},
}
