package camera

import "github.com/mitchellh/mapstructure"

// BindParams decodes a generic map[string]any (the shape a vendor
// operation's variable, often optional, parameter set naturally takes)
// into a caller-supplied typed struct, per §4.L strategy (b). It backs
// Camera.InvokeNamed, the map-based path vendor operations can be
// called through before Invoke receives the struct's []uint32 wire
// parameters.
func BindParams(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "ptp",
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
