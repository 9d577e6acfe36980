package hidtransport

import "errors"

var (
	// ErrDeviceUnavailable marks an open or metadata-query failure
	// against a specific device: the path does not exist, permission
	// was denied, or the device was detached.
	ErrDeviceUnavailable = errors.New("hid: device unavailable")

	// ErrDescriptorUnavailable marks a device that is present but
	// whose report descriptor cannot be retrieved, cannot be parsed,
	// or declares no reports.
	ErrDescriptorUnavailable = errors.New("hid: report descriptor unavailable")

	// ErrIO marks a read or write failure on an already-open device.
	ErrIO = errors.New("hid: i/o error")
)
