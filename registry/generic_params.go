package registry

import "github.com/darkgrade/darkgrade/codec"

// baseCodecs maps the primitive type names used in parameter and
// dataset field declarations (§4.D "ParameterDefinition: a name and a
// symbolic base-codec handle") to the concrete Codec each resolves
// to. The Dataset fields declared in this package resolve through this
// table; the GenericProperties table constructs its primitive codecs
// with codec.NewPrimitive directly.
var baseCodecs = map[string]codec.Codec{
	"uint8":  codec.NewPrimitive(codec.KindUint8),
	"int8":   codec.NewPrimitive(codec.KindInt8),
	"uint16": codec.NewPrimitive(codec.KindUint16),
	"int16":  codec.NewPrimitive(codec.KindInt16),
	"uint32": codec.NewPrimitive(codec.KindUint32),
	"int32":  codec.NewPrimitive(codec.KindInt32),
	"uint64": codec.NewPrimitive(codec.KindUint64),
	"int64":  codec.NewPrimitive(codec.KindInt64),
	"uint128": codec.NewPrimitive(codec.KindUint128),
	"int128":  codec.NewPrimitive(codec.KindInt128),
	"string": codec.NewPrimitive(codec.KindString),
}

// BaseCodec looks up one of the fixed primitive codecs by its
// symbolic name. It panics on an unknown name: base codec names are a
// closed, compile-time-known set used only from definition tables in
// this package, never from user input.
func BaseCodec(name string) codec.Codec {
	c, ok := baseCodecs[name]
	if !ok {
		panic("registry: unknown base codec name " + name)
	}
	return c
}

// arrayOf wraps BaseCodec(name) in an Array codec, for dataset fields
// declared as a count-prefixed list of a primitive (e.g. the u16
// array of supported operation codes in DeviceInfo).
func arrayOf(name string) codec.Codec {
	return codec.NewArray(BaseCodec(name))
}
