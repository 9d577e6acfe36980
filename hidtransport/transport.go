// Package hidtransport is the raw HID transport for authenticator
// tokens. A platform Backend discovers HID devices and opens raw
// report transports against them; the protocol layers above exchange
// fixed-size byte reports through the Device interface and never see
// platform handles.
package hidtransport

import (
	"fmt"

	"github.com/fidokit/rawhid/hiddesc"
)

// UsagePageFIDO is the FIDO Alliance usage page. Authenticator tokens
// declare their U2F/CTAP interface under it.
const UsagePageFIDO = 0xF1D0

// DeviceDescriptor identifies one physical HID device together with
// the transport parameters derived from its report descriptor. It is
// populated once during enumeration (or on open) and never mutated;
// it owns no OS resource.
type DeviceDescriptor struct {
	// Path locates the device for the current session. It is not
	// stable across reboots or replugs.
	Path string

	VendorID  uint16
	ProductID uint16

	// VendorString and ProductString may be empty when the platform
	// exposes no string metadata for the device.
	VendorString  string
	ProductString string

	UsagePage uint16
	Usage     uint16

	// MaxInputReportLen and MaxOutputReportLen are the fixed report
	// sizes the device exchanges. 0 means the device declared no
	// reports in that direction.
	MaxInputReportLen  int
	MaxOutputReportLen int
}

// IsAuthenticator reports whether the device declares the FIDO
// Alliance usage page.
func (d DeviceDescriptor) IsAuthenticator() bool {
	return d.UsagePage == UsagePageFIDO
}

func (d DeviceDescriptor) String() string {
	return fmt.Sprintf("%s: ID %04x:%04x %s %s", d.Path, d.VendorID, d.ProductID, d.VendorString, d.ProductString)
}

// Backend is the capability set a platform implementation provides.
// Exactly one backend is selected at startup; all backends are
// interchangeable from the caller's perspective.
type Backend interface {
	// Enumerate rescans the platform's device namespace and returns a
	// descriptor for every usable HID device. A device that fails to
	// probe is omitted; Enumerate fails only when the namespace itself
	// cannot be listed.
	Enumerate() ([]DeviceDescriptor, error)

	// Open opens the device at path for raw report exchange. It fails
	// with ErrDeviceUnavailable when the open fails and with
	// ErrDescriptorUnavailable when the report descriptor cannot be
	// interpreted; in both cases no handle is left open.
	Open(path string) (Device, error)
}

// Device is an open raw report transport bound to one physical
// device. Read and Write perform blocking OS I/O against an
// exclusively-owned handle; a Device must not be used concurrently
// for overlapping calls.
type Device interface {
	// Descriptor returns the descriptor populated at open time.
	Descriptor() DeviceDescriptor

	// InputReportLength and OutputReportLength return the report
	// sizes fixed at open time.
	InputReportLength() int
	OutputReportLength() int

	// Write sends the given bytes to the device as one output report.
	// The caller is responsible for padding the report to
	// OutputReportLength; the transport passes the bytes through
	// unmodified.
	Write(report []byte) error

	// Read blocks until the device delivers one input report and
	// returns it. The result is InputReportLength bytes, or fewer
	// when the device signals a short read.
	Read() ([]byte, error)

	// Close releases the device handle. Closing an already-closed
	// device is a no-op.
	Close() error
}

// InterpretDescriptor decodes raw report descriptor bytes and derives
// the transport parameters. Every failure, including an empty
// descriptor, maps to ErrDescriptorUnavailable.
func InterpretDescriptor(raw []byte) (hiddesc.Summary, error) {
	if len(raw) == 0 {
		return hiddesc.Summary{}, fmt.Errorf("%w: empty descriptor", ErrDescriptorUnavailable)
	}
	desc, err := hiddesc.Decode(raw)
	if err != nil {
		return hiddesc.Summary{}, fmt.Errorf("%w: %w", ErrDescriptorUnavailable, err)
	}
	sum, err := hiddesc.Summarize(desc)
	if err != nil {
		return hiddesc.Summary{}, fmt.Errorf("%w: %w", ErrDescriptorUnavailable, err)
	}
	return sum, nil
}
