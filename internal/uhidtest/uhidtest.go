//go:build linux

// Package uhidtest creates loopback HID devices through the kernel's
// uhid interface for transport integration tests. Creating one needs
// write access to /dev/uhid; callers skip when that fails.
package uhidtest

import (
	"context"
	"fmt"

	"github.com/psanford/uhid"
)

// ReportDescriptor is a FIDO-style descriptor with 64-byte input and
// output reports and no report IDs.
var ReportDescriptor = []byte{
	0x06, 0xD0, 0xF1, // Usage Page (FIDO Alliance)
	0x09, 0x01, // Usage (U2F Authenticator Device)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x20,
	0x15, 0x00,
	0x26, 0xFF, 0x00,
	0x75, 0x08,
	0x95, 0x40,
	0x81, 0x02, // Input (64 bytes)
	0x09, 0x21,
	0x15, 0x00,
	0x26, 0xFF, 0x00,
	0x75, 0x08,
	0x95, 0x40,
	0x91, 0x02, // Output (64 bytes)
	0xC0,
}

const reportLen = 64

// Loopback is a virtual HID device that echoes every output report
// back as an input report.
type Loopback struct {
	dev    *uhid.Device
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLoopback registers the virtual device with the kernel and starts
// the echo loop. The device surfaces as a regular hidraw node after a
// short udev delay.
func NewLoopback(name string, vendorID, productID uint32) (*Loopback, error) {
	dev, err := uhid.NewDevice(name, ReportDescriptor)
	if err != nil {
		return nil, fmt.Errorf("failed to create uhid device: %w", err)
	}
	dev.Data.Bus = 0x03
	dev.Data.VendorID = vendorID
	dev.Data.ProductID = productID

	ctx, cancel := context.WithCancel(context.Background())
	events, err := dev.Open(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open uhid device: %w", err)
	}

	l := &Loopback{
		dev:    dev,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.run(ctx, events)
	return l, nil
}

func (l *Loopback) run(ctx context.Context, events chan uhid.Event) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event.Type != uhid.Output {
				continue
			}
			report := make([]byte, reportLen)
			data := event.Data
			if len(data) > reportLen {
				// Numbered-report framing prefix from the kernel.
				data = data[len(data)-reportLen:]
			}
			copy(report, data)
			// Echo errors only mean the test side already went away.
			_ = l.dev.InjectEvent(report)
		}
	}
}

// Close destroys the virtual device.
func (l *Loopback) Close() error {
	l.cancel()
	err := l.dev.Close()
	<-l.done
	return err
}
