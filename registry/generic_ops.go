package registry

import "github.com/darkgrade/darkgrade/codec"

// deviceInfoCodec decodes the DeviceInfo dataset returned by
// GetDeviceInfo, per the standard field order.
var deviceInfoCodec = codec.NewDataset([]codec.Field{
	{Name: "StandardVersion", Codec: BaseCodec("uint16")},
	{Name: "VendorExtensionID", Codec: BaseCodec("uint32")},
	{Name: "VendorExtensionVersion", Codec: BaseCodec("uint16")},
	{Name: "VendorExtensionDesc", Codec: BaseCodec("string")},
	{Name: "FunctionalMode", Codec: BaseCodec("uint16")},
	{Name: "OperationsSupported", Codec: arrayOf("uint16")},
	{Name: "EventsSupported", Codec: arrayOf("uint16")},
	{Name: "DevicePropertiesSupported", Codec: arrayOf("uint16")},
	{Name: "CaptureFormats", Codec: arrayOf("uint16")},
	{Name: "ImageFormats", Codec: arrayOf("uint16")},
	{Name: "Manufacturer", Codec: BaseCodec("string")},
	{Name: "Model", Codec: BaseCodec("string")},
	{Name: "DeviceVersion", Codec: BaseCodec("string")},
	{Name: "SerialNumber", Codec: BaseCodec("string")},
})

// storageInfoCodec decodes the StorageInfo dataset returned by
// GetStorageInfo.
var storageInfoCodec = codec.NewDataset([]codec.Field{
	{Name: "StorageType", Codec: BaseCodec("uint16")},
	{Name: "FilesystemType", Codec: BaseCodec("uint16")},
	{Name: "AccessCapability", Codec: BaseCodec("uint16")},
	{Name: "MaxCapacity", Codec: BaseCodec("uint64")},
	{Name: "FreeSpaceInBytes", Codec: BaseCodec("uint64")},
	{Name: "FreeSpaceInImages", Codec: BaseCodec("uint32")},
	{Name: "StorageDescription", Codec: BaseCodec("string")},
	{Name: "VolumeLabel", Codec: BaseCodec("string")},
})

// objectInfoCodec decodes the ObjectInfo dataset returned by
// GetObjectInfo and sent (without thumbnail pixel fields populated) by
// SendObjectInfo.
var objectInfoCodec = codec.NewDataset([]codec.Field{
	{Name: "StorageID", Codec: BaseCodec("uint32")},
	{Name: "ObjectFormat", Codec: BaseCodec("uint16")},
	{Name: "ProtectionStatus", Codec: BaseCodec("uint16")},
	{Name: "ObjectCompressedSize", Codec: BaseCodec("uint32")},
	{Name: "ThumbFormat", Codec: BaseCodec("uint16")},
	{Name: "ThumbCompressedSize", Codec: BaseCodec("uint32")},
	{Name: "ThumbPixWidth", Codec: BaseCodec("uint32")},
	{Name: "ThumbPixHeight", Codec: BaseCodec("uint32")},
	{Name: "ImagePixWidth", Codec: BaseCodec("uint32")},
	{Name: "ImagePixHeight", Codec: BaseCodec("uint32")},
	{Name: "ImageBitDepth", Codec: BaseCodec("uint32")},
	{Name: "ParentObject", Codec: BaseCodec("uint32")},
	{Name: "AssociationType", Codec: BaseCodec("uint16")},
	{Name: "AssociationDesc", Codec: BaseCodec("uint32")},
	{Name: "SequenceNumber", Codec: BaseCodec("uint32")},
	{Name: "Filename", Codec: BaseCodec("string")},
	{Name: "CaptureDate", Codec: BaseCodec("string"), Optional: true},
	{Name: "ModificationDate", Codec: BaseCodec("string"), Optional: true},
	{Name: "Keywords", Codec: BaseCodec("string"), Optional: true},
})

// u32ArrayCodec decodes a plain array of u32 handles (storage IDs,
// object handles).
var u32ArrayCodec = arrayOf("uint32")

// GenericOperations is the standard operation table every PTP device
// implements (§6 "minimum standard operation set"), plus the
// additional standard operations restored from the ISO 15740 table
// that the distilled spec omitted.
var GenericOperations = []OperationDefinition{
	{Name: "GetDeviceInfo", Code: 0x1001, ParamCount: 0, Direction: DirectionOut, DataCodec: deviceInfoCodec, Recoverable: true},
	{Name: "OpenSession", Code: 0x1002, ParamCount: 1, Direction: DirectionNone},
	{Name: "CloseSession", Code: 0x1003, ParamCount: 0, Direction: DirectionNone},
	{Name: "GetStorageIDs", Code: 0x1004, ParamCount: 0, Direction: DirectionOut, DataCodec: u32ArrayCodec, Recoverable: true},
	{Name: "GetStorageInfo", Code: 0x1005, ParamCount: 1, Direction: DirectionOut, DataCodec: storageInfoCodec, Recoverable: true},
	{Name: "GetNumObjects", Code: 0x1006, ParamCount: 3, Direction: DirectionNone, Recoverable: true},
	{Name: "GetObjectHandles", Code: 0x1007, ParamCount: 3, Direction: DirectionOut, DataCodec: u32ArrayCodec, Recoverable: true},
	{Name: "GetObjectInfo", Code: 0x1008, ParamCount: 1, Direction: DirectionOut, DataCodec: objectInfoCodec, Recoverable: true},
	// GetObject, GetThumb, SendObject and GetPartialObject carry an
	// opaque binary blob with no dataset structure; DataCodec is left
	// nil so the engine passes the DATA phase through as raw bytes.
	{Name: "GetObject", Code: 0x1009, ParamCount: 1, Direction: DirectionOut},
	{Name: "GetThumb", Code: 0x100A, ParamCount: 1, Direction: DirectionOut},
	{Name: "DeleteObject", Code: 0x100B, ParamCount: 2, Direction: DirectionNone},
	{Name: "SendObjectInfo", Code: 0x100C, ParamCount: 2, Direction: DirectionIn, DataCodec: objectInfoCodec},
	{Name: "SendObject", Code: 0x100D, ParamCount: 0, Direction: DirectionIn},
	{Name: "InitiateCapture", Code: 0x100E, ParamCount: 2, Direction: DirectionNone},
	{Name: "FormatStore", Code: 0x100F, ParamCount: 2, Direction: DirectionNone},
	{Name: "ResetDevice", Code: 0x1010, ParamCount: 0, Direction: DirectionNone},
	{Name: "SelfTest", Code: 0x1011, ParamCount: 1, Direction: DirectionNone},
	{Name: "SetObjectProtection", Code: 0x1012, ParamCount: 2, Direction: DirectionNone},
	{Name: "PowerDown", Code: 0x1013, ParamCount: 0, Direction: DirectionNone},
	{Name: "GetDevicePropDesc", Code: 0x1014, ParamCount: 1, Direction: DirectionOut},
	{Name: "GetDevicePropValue", Code: 0x1015, ParamCount: 1, Direction: DirectionOut},
	{Name: "SetDevicePropValue", Code: 0x1016, ParamCount: 1, Direction: DirectionIn},
	{Name: "ResetDevicePropValue", Code: 0x1017, ParamCount: 1, Direction: DirectionNone},
	{Name: "TerminateOpenCapture", Code: 0x1018, ParamCount: 1, Direction: DirectionNone},
	{Name: "MoveObject", Code: 0x1019, ParamCount: 3, Direction: DirectionNone},
	{Name: "CopyObject", Code: 0x101A, ParamCount: 3, Direction: DirectionNone},
	{Name: "GetPartialObject", Code: 0x101B, ParamCount: 3, Direction: DirectionOut},
	{Name: "InitiateOpenCapture", Code: 0x101C, ParamCount: 2, Direction: DirectionNone},
}
