//go:build linux

package hidraw

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/fidokit/rawhid/hidtransport"
)

// Device is an open hidraw transport. It owns the node handle
// exclusively and releases it exactly once.
type Device struct {
	node   deviceNode
	desc   hidtransport.DeviceDescriptor
	closed atomic.Bool
}

func newDevice(node deviceNode, desc hidtransport.DeviceDescriptor) *Device {
	return &Device{
		node: node,
		desc: desc,
	}
}

func (d *Device) Descriptor() hidtransport.DeviceDescriptor {
	return d.desc
}

func (d *Device) InputReportLength() int {
	return d.desc.MaxInputReportLen
}

func (d *Device) OutputReportLength() int {
	return d.desc.MaxOutputReportLen
}

// Write sends one output report. The caller pads the report to
// OutputReportLength; the bytes are passed through unmodified.
func (d *Device) Write(report []byte) error {
	n, err := d.node.Write(report)
	if err != nil {
		return fmt.Errorf("%w: write: %w", hidtransport.ErrIO, err)
	}
	if n != len(report) {
		return fmt.Errorf("%w: short write: %d of %d bytes", hidtransport.ErrIO, n, len(report))
	}
	return nil
}

// Read blocks until the device delivers one input report.
func (d *Device) Read() ([]byte, error) {
	buf := make([]byte, d.desc.MaxInputReportLen)
	if len(buf) == 0 {
		return nil, nil
	}
	n, err := d.node.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", hidtransport.ErrIO, err)
	}
	return buf[:n], nil
}

func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return d.node.Close()
}
