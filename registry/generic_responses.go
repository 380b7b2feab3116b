package registry

// GenericResponses is the standard RESPONSE-code table (§6), plus the
// additional standard responses restored from the ISO 15740 table
// that the distilled spec omitted. Recoverable marks a failure a
// caller may reasonably retry the same operation after once the
// reported condition clears; the engine itself never auto-retries on
// it, per §7.
var GenericResponses = []ResponseDefinition{
	{Name: "OK", Code: RC_OK},
	{Name: "GeneralError", Code: RC_GeneralError},
	{Name: "SessionNotOpen", Code: RC_SessionNotOpen},
	{Name: "InvalidTransactionID", Code: RC_InvalidTransactionID},
	{Name: "OperationNotSupported", Code: RC_OperationNotSupported},
	{Name: "ParameterNotSupported", Code: RC_ParameterNotSupported},
	{Name: "IncompleteTransfer", Code: RC_IncompleteTransfer},
	{Name: "InvalidStorageID", Code: RC_InvalidStorageID},
	{Name: "InvalidObjectHandle", Code: RC_InvalidObjectHandle},
	{Name: "DevicePropNotSupported", Code: RC_DevicePropNotSupported},
	{Name: "InvalidObjectFormatCode", Code: RC_InvalidObjectFormatCode},
	{Name: "StoreFull", Code: RC_StoreFull, Recoverable: true},
	{Name: "ObjectWriteProtected", Code: 0x200D},
	{Name: "StoreReadOnly", Code: 0x200E},
	{Name: "AccessDenied", Code: 0x200F},
	{Name: "NoThumbnailPresent", Code: 0x2010},
	{Name: "SelfTestFailed", Code: 0x2011},
	{Name: "PartialDeletion", Code: 0x2012},
	{Name: "StoreNotAvailable", Code: RC_StoreNotAvailable, Recoverable: true},
	{Name: "SpecificationByFormatUnsupported", Code: RC_SpecificationByFormatUnsupported},
	{Name: "NoValidObjectInfo", Code: 0x2015},
	{Name: "InvalidCodeFormat", Code: 0x2016},
	{Name: "UnknownVendorCode", Code: 0x2017},
	{Name: "CaptureAlreadyTerminated", Code: 0x2018},
	{Name: "DeviceBusy", Code: RC_DeviceBusy, Recoverable: true},
	{Name: "InvalidParentObject", Code: 0x201A},
	{Name: "InvalidDevicePropFormat", Code: 0x201B},
	{Name: "InvalidDevicePropValue", Code: 0x201C},
	{Name: "InvalidParameter", Code: RC_InvalidParameter},
	{Name: "SessionAlreadyOpen", Code: RC_SessionAlreadyOpen},
	{Name: "TransactionCancelled", Code: RC_TransactionCancelled},
}
