package camera

import "context"

// Vendor is the narrow strategy interface a vendor package (sony,
// canon, nikon) implements to override the generic Camera behavior at
// the handful of points vendors actually diverge: connect/disconnect
// handshakes, property access strategy, and event decoding. A Camera
// built with no Vendor behaves as a fully generic PTP device.
type Vendor interface {
	// ConnectHook runs after OpenSession succeeds, e.g. Sony's
	// multi-phase SDIO handshake or Canon's SetRemoteMode/SetEventMode
	// pair. Returning an error aborts Connect.
	ConnectHook(ctx context.Context, c *Camera) error

	// DisconnectHook runs before CloseSession, for any vendor-specific
	// teardown (Canon leaving remote mode, for instance).
	DisconnectHook(ctx context.Context, c *Camera) error

	// EventSource returns the eventpump.Source the Camera should pump
	// events from: the shared interrupt endpoint for most vendors, or
	// an eventpump.PollingSource for Canon's CanonGetEventData
	// substitution.
	EventSource(c *Camera) interface {
		Next(ctx context.Context) ([]byte, error)
	}

	// GetOverride intercepts Camera.Get before the generic
	// GetDevicePropValue path runs. ok is false when the vendor has no
	// override for propName and the generic path should handle it. A
	// vendor with its own property-read mechanism returns ok true
	// instead (e.g. Sony's GetAllExtDevicePropInfo batch descriptor for
	// its 0xDxxx properties, Canon's RequestAndWait/CacheOnly strategy).
	GetOverride(ctx context.Context, c *Camera, propName string) (value any, ok bool, err error)

	// SetOverride intercepts Camera.Set the same way GetOverride
	// intercepts Get.
	SetOverride(ctx context.Context, c *Camera, propName string, value any) (ok bool, err error)
}

// NoVendor is the zero-overhead Vendor used by a generic PTP Camera.
type NoVendor struct{}

// ConnectHook implements Vendor; does nothing.
func (NoVendor) ConnectHook(ctx context.Context, c *Camera) error { return nil }

// DisconnectHook implements Vendor; does nothing.
func (NoVendor) DisconnectHook(ctx context.Context, c *Camera) error { return nil }

// EventSource implements Vendor; uses the shared interrupt endpoint.
func (NoVendor) EventSource(c *Camera) interface {
	Next(ctx context.Context) ([]byte, error)
} {
	return c.interruptSource()
}

// GetOverride implements Vendor; defers to the generic Get path.
func (NoVendor) GetOverride(ctx context.Context, c *Camera, propName string) (any, bool, error) {
	return nil, false, nil
}

// SetOverride implements Vendor; defers to the generic Set path.
func (NoVendor) SetOverride(ctx context.Context, c *Camera, propName string, value any) (bool, error) {
	return false, nil
}
