package registry

import "github.com/darkgrade/darkgrade/codec"

// whiteBalanceCodec names the standard WhiteBalance enumeration.
// Devices that support additional vendor presets extend this table in
// their own vendor registry rather than mutate this one (§4.E).
var whiteBalanceCodec = codec.NewEnum(codec.NewPrimitive(codec.KindUint16), []codec.EnumEntry{
	{Value: 0x0001, Name: "Manual"},
	{Value: 0x0002, Name: "Automatic"},
	{Value: 0x0003, Name: "OnePushAutomatic"},
	{Value: 0x0004, Name: "Daylight"},
	{Value: 0x0005, Name: "Fluorescent"},
	{Value: 0x0006, Name: "Tungsten"},
	{Value: 0x0007, Name: "Flash"},
})

var focusModeCodec = codec.NewEnum(codec.NewPrimitive(codec.KindUint16), []codec.EnumEntry{
	{Value: 0x0001, Name: "Manual"},
	{Value: 0x0002, Name: "Automatic"},
	{Value: 0x0003, Name: "AutomaticMacro"},
})

var flashModeCodec = codec.NewEnum(codec.NewPrimitive(codec.KindUint16), []codec.EnumEntry{
	{Value: 0x0000, Name: "Undefined"},
	{Value: 0x0001, Name: "AutoFlash"},
	{Value: 0x0002, Name: "FlashOff"},
	{Value: 0x0003, Name: "FillFlash"},
	{Value: 0x0004, Name: "AutoRedEye"},
	{Value: 0x0005, Name: "SlowSync"},
	{Value: 0x0006, Name: "RedEyeSlowSync"},
})

var exposureProgramModeCodec = codec.NewEnum(codec.NewPrimitive(codec.KindUint16), []codec.EnumEntry{
	{Value: 0x0001, Name: "Manual"},
	{Value: 0x0002, Name: "Automatic"},
	{Value: 0x0003, Name: "AperturePriority"},
	{Value: 0x0004, Name: "ShutterPriority"},
	{Value: 0x0005, Name: "ProgramCreative"},
	{Value: 0x0006, Name: "ProgramAction"},
	{Value: 0x0007, Name: "Portrait"},
})

var stillCaptureModeCodec = codec.NewEnum(codec.NewPrimitive(codec.KindUint16), []codec.EnumEntry{
	{Value: 0x0001, Name: "Normal"},
	{Value: 0x0002, Name: "Burst"},
	{Value: 0x0003, Name: "Timelapse"},
})

// GenericProperties is the standard device-property table (§6), keyed
// by the symbolic names vendor registries override by both name and
// numeric code.
var GenericProperties = []PropertyDefinition{
	{Name: "BatteryLevel", Code: 0x5001, Codec: codec.NewPrimitive(codec.KindUint8), Access: AccessGet},
	{Name: "FunctionalMode", Code: 0x5002, Codec: codec.NewPrimitive(codec.KindUint16), Access: AccessGetSet},
	{Name: "ImageSize", Code: 0x5003, Codec: codec.NewPrimitive(codec.KindString), Access: AccessGetSet},
	{Name: "CompressionSetting", Code: 0x5004, Codec: codec.NewPrimitive(codec.KindUint8), Access: AccessGetSet},
	{Name: "WhiteBalance", Code: 0x5005, Codec: whiteBalanceCodec, Access: AccessGetSet},
	{Name: "RGBGain", Code: 0x5006, Codec: codec.NewPrimitive(codec.KindString), Access: AccessGetSet},
	{Name: "FNumber", Code: 0x5007, Codec: codec.NewPrimitive(codec.KindUint16), Access: AccessGetSet},
	{Name: "FocalLength", Code: 0x5008, Codec: codec.NewPrimitive(codec.KindUint32), Access: AccessGet},
	{Name: "FocusDistance", Code: 0x5009, Codec: codec.NewPrimitive(codec.KindUint16), Access: AccessGetSet},
	{Name: "FocusMode", Code: 0x500A, Codec: focusModeCodec, Access: AccessGetSet},
	{Name: "ExposureMeteringMode", Code: 0x500B, Codec: codec.NewPrimitive(codec.KindUint16), Access: AccessGetSet},
	{Name: "FlashMode", Code: 0x500C, Codec: flashModeCodec, Access: AccessGetSet},
	{Name: "ExposureTime", Code: 0x500D, Codec: codec.NewPrimitive(codec.KindUint32), Access: AccessGetSet},
	{Name: "ExposureProgramMode", Code: 0x500E, Codec: exposureProgramModeCodec, Access: AccessGetSet},
	{Name: "ExposureIndex", Code: 0x500F, Codec: codec.NewPrimitive(codec.KindUint16), Access: AccessGetSet},
	{Name: "ExposureBiasCompensation", Code: 0x5010, Codec: codec.NewPrimitive(codec.KindInt16), Access: AccessGetSet},
	{Name: "DateTime", Code: 0x5011, Codec: codec.NewPrimitive(codec.KindString), Access: AccessGetSet},
	{Name: "CaptureDelay", Code: 0x5012, Codec: codec.NewPrimitive(codec.KindUint32), Access: AccessGetSet},
	{Name: "StillCaptureMode", Code: 0x5013, Codec: stillCaptureModeCodec, Access: AccessGetSet},
	{Name: "Contrast", Code: 0x5014, Codec: codec.NewPrimitive(codec.KindUint8), Access: AccessGetSet},
	{Name: "Sharpness", Code: 0x5015, Codec: codec.NewPrimitive(codec.KindUint8), Access: AccessGetSet},
	{Name: "DigitalZoom", Code: 0x5016, Codec: codec.NewPrimitive(codec.KindUint8), Access: AccessGetSet},
}
