// Package hidapi implements the HID transport backend over the
// hidapi library, for platforms without raw hidraw access. It
// provides the same capability set as the Linux backend.
package hidapi

import (
	"fmt"

	"github.com/sstallion/go-hid"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fidokit/rawhid/hiddesc"
	"github.com/fidokit/rawhid/hidtransport"
)

const maxDescriptorSize = 4096

type Backend struct {
	log *zap.Logger
}

func NewBackend(log *zap.Logger) *Backend {
	hid.Init()
	return &Backend{log: log}
}

// Enumerate lists every HID device hidapi knows about and probes each
// one for its report descriptor. Devices that cannot be probed are
// skipped.
func (b *Backend) Enumerate() ([]hidtransport.DeviceDescriptor, error) {
	var infos []hid.DeviceInfo
	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		infos = append(infos, *info)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hidapi enumeration failed: %w", err)
	}
	var devices []hidtransport.DeviceDescriptor
	for _, info := range infos {
		desc, err := b.probe(info)
		if err != nil {
			b.log.Debug("skipping device", zap.String("path", info.Path), zap.Error(err))
			continue
		}
		devices = append(devices, desc)
	}
	return devices, nil
}

func (b *Backend) probe(info hid.DeviceInfo) (hidtransport.DeviceDescriptor, error) {
	dev, err := hid.OpenPath(info.Path)
	if err != nil {
		return hidtransport.DeviceDescriptor{}, fmt.Errorf("%w: %w", hidtransport.ErrDeviceUnavailable, err)
	}
	defer dev.Close()
	sum, err := interpret(dev)
	if err != nil {
		return hidtransport.DeviceDescriptor{}, err
	}
	return describe(info, sum), nil
}

func describe(info hid.DeviceInfo, sum hiddesc.Summary) hidtransport.DeviceDescriptor {
	return hidtransport.DeviceDescriptor{
		Path:               info.Path,
		VendorID:           info.VendorID,
		ProductID:          info.ProductID,
		VendorString:       info.MfrStr,
		ProductString:      info.ProductStr,
		UsagePage:          sum.UsagePage,
		Usage:              sum.UsageID,
		MaxInputReportLen:  sum.MaxInputLen,
		MaxOutputReportLen: sum.MaxOutputLen,
	}
}

func interpret(dev *hid.Device) (hiddesc.Summary, error) {
	buf := make([]byte, maxDescriptorSize)
	n, err := dev.GetReportDescriptor(buf)
	if err != nil {
		return hiddesc.Summary{}, fmt.Errorf("%w: %w", hidtransport.ErrDescriptorUnavailable, err)
	}
	return hidtransport.InterpretDescriptor(buf[:n])
}

// Open opens the device at path and interprets its report descriptor.
// hidapi exposes no metadata query by path, so the identity fields are
// resolved from the current enumeration snapshot.
func (b *Backend) Open(path string) (hidtransport.Device, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", hidtransport.ErrDeviceUnavailable, path, err)
	}
	sum, err := interpret(dev)
	if err != nil {
		return nil, multierr.Append(err, dev.Close())
	}
	return &Device{
		dev:  dev,
		desc: describe(b.lookupInfo(path), sum),
	}, nil
}

func (b *Backend) lookupInfo(path string) hid.DeviceInfo {
	info := hid.DeviceInfo{Path: path}
	_ = hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(di *hid.DeviceInfo) error {
		if di.Path == path {
			info = *di
		}
		return nil
	})
	return info
}

// Device is an open hidapi transport.
type Device struct {
	dev    *hid.Device
	desc   hidtransport.DeviceDescriptor
	closed atomic.Bool
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

func (d *Device) Write(report []byte) error {
	n, err := d.dev.Write(report)
	if err != nil {
		return fmt.Errorf("%w: write: %w", hidtransport.ErrIO, err)
	}
	if n != len(report) {
		return fmt.Errorf("%w: short write: %d of %d bytes", hidtransport.ErrIO, n, len(report))
	}
	return nil
}

func (d *Device) Read() ([]byte, error) {
	buf := make([]byte, d.desc.MaxInputReportLen)
	if len(buf) == 0 {
		return nil, nil
	}
	n, err := d.dev.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", hidtransport.ErrIO, err)
	}
	return buf[:n], nil
}

func (d *Device) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return nil
	}
	return d.dev.Close()
}
