// Package transport defines the narrow collaborator the transaction
// engine drives the wire through: bulk IN/OUT transfers, interrupt
// reads, and the handful of USB control requests PTP's class
// specification layers on top of a vendor-neutral USB stack. A host
// application supplies a concrete Transport (backed by libusb,
// gousb, or a platform driver); this package never opens a device
// itself, matching the class-driver split the engine, event pump and
// camera façade are built around.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrStall is returned (wrapped) by Send/Receive/InterruptReceive when
// the endpoint reports a STALL condition. The engine recognizes it via
// errors.Is and drives Get_Device_Status/Clear_Halt recovery rather
// than surfacing it directly to a caller.
var ErrStall = errors.New("transport: endpoint stalled")

// ClassRequest identifies one of the PTP-over-USB class-specific
// control requests (USB Still Image Capture Device Class spec,
// bRequest values), issued over the control endpoint rather than
// bulk/interrupt.
type ClassRequest uint8

// Class-specific control requests.
const (
	// RequestCancel issues Cancel_Request: abort the in-progress
	// transaction named by its wValue transaction ID.
	RequestCancel ClassRequest = 0x64
	// RequestGetExtendedEventData retrieves a pending large EVENT
	// payload that didn't fit the fixed interrupt packet.
	RequestGetExtendedEventData ClassRequest = 0x65
	// RequestDeviceResetRequest resets the device-class state machine.
	RequestDeviceResetRequest ClassRequest = 0x66
	// RequestGetDeviceStatus polls device/endpoint status. STALL
	// recovery issues it once before Clear_Halt and then polls it until
	// the device reports OK.
	RequestGetDeviceStatus ClassRequest = 0x67
)

func (r ClassRequest) String() string {
	switch r {
	case RequestCancel:
		return "Cancel_Request"
	case RequestGetExtendedEventData:
		return "Get_Extended_Event_Data"
	case RequestDeviceResetRequest:
		return "Device_Reset_Request"
	case RequestGetDeviceStatus:
		return "Get_Device_Status"
	default:
		return fmt.Sprintf("ClassRequest(0x%02x)", uint8(r))
	}
}

// DeviceStatus is the decoded result of Get_Device_Status: its status
// code and whether the bulk endpoints are currently stalled. The
// engine's STALL recovery poll reads Code after its one Clear_Halt;
// InStalled and OutStalled are decoded but not consulted.
type DeviceStatus struct {
	Code       uint16
	InStalled  bool
	OutStalled bool
}

// Transport is the class-driver-level USB collaborator. All methods
// block until completion, cancellation via ctx, or a transport-level
// error; the engine is solely responsible for interpreting PTP
// container semantics on top of it.
type Transport interface {
	// Send writes b to the bulk-OUT endpoint in full, or returns an
	// error (including ctx cancellation or a detected STALL).
	Send(ctx context.Context, b []byte) error

	// Receive reads up to len(b) bytes from the bulk-IN endpoint,
	// returning the number of bytes actually read. A short read that
	// isn't an error signals the end of one container's payload, per
	// USB bulk transfer semantics (a transfer ends on a short packet).
	Receive(ctx context.Context, b []byte) (int, error)

	// InterruptReceive reads one interrupt-IN packet (an EVENT
	// container), blocking until one arrives, ctx is cancelled, or the
	// endpoint is torn down by ClearInterruptHalt during cancellation.
	InterruptReceive(ctx context.Context, b []byte) (int, error)

	// ClassRequest issues one of the class-specific control requests.
	// data carries the control-transfer's data-stage payload, if any
	// (Get_Device_Status and Get_Extended_Event_Data return data
	// in-place via the returned slice; Cancel_Request and
	// Device_Reset_Request have no data stage).
	ClassRequest(ctx context.Context, req ClassRequest, value uint16, data []byte) ([]byte, error)

	// ClearHalt clears a halt (STALL) condition on the named endpoint.
	// in selects the bulk-IN endpoint when true, bulk-OUT when false.
	ClearHalt(ctx context.Context, in bool) error

	// ClearInterruptHalt clears a halt condition on the interrupt
	// endpoint, used to force a pending InterruptReceive to return
	// TransferCancelled during event pump shutdown.
	ClearInterruptHalt(ctx context.Context) error
}

// DecodeDeviceStatus parses the fixed Get_Device_Status response
// layout: length(2) + status code(2) + optional endpoint halt flags.
func DecodeDeviceStatus(b []byte) (DeviceStatus, error) {
	if len(b) < 4 {
		return DeviceStatus{}, fmt.Errorf("transport: short Get_Device_Status response, got %d bytes", len(b))
	}
	code := uint16(b[2]) | uint16(b[3])<<8
	st := DeviceStatus{Code: code}
	if len(b) >= 6 {
		st.InStalled = b[4] != 0
		st.OutStalled = b[5] != 0
	}
	return st, nil
}
