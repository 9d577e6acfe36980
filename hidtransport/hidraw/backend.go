//go:build linux

// Package hidraw implements the HID transport backend for Linux on
// top of the kernel's hidraw character devices.
package hidraw

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/fidokit/rawhid/hidtransport"
)

const (
	// DefaultDevDir is the device namespace scanned for candidates.
	DefaultDevDir = "/dev"

	// devicePrefix names raw HID character devices inside the
	// namespace.
	devicePrefix = "hidraw"
)

// deviceNode is one open hidraw character device. The production
// implementation wraps an *os.File plus ioctls; tests substitute
// fakes through WithOpener.
type deviceNode interface {
	io.ReadWriteCloser

	// Info returns the numeric device identity from the kernel.
	Info() (devInfo, error)

	// ReportDescriptor returns the raw HID report descriptor bytes.
	ReportDescriptor() ([]byte, error)

	// Strings returns the human-readable vendor and product strings,
	// either or both possibly empty.
	Strings() (vendor, product string)
}

type devInfo struct {
	BusType   uint32
	VendorID  uint16
	ProductID uint16
}

type openFunc func(path string) (deviceNode, error)

var defaultBackendOptions = backendOptions{
	devDir: DefaultDevDir,
	prefix: devicePrefix,
	open:   openNode,
}

type backendOptions struct {
	devDir string
	prefix string
	open   openFunc
}

type Option func(*backendOptions)

// WithDevDir overrides the scanned device directory.
func WithDevDir(dir string) Option {
	return func(o *backendOptions) {
		o.devDir = dir
	}
}

// WithDevicePrefix overrides the candidate name prefix.
func WithDevicePrefix(prefix string) Option {
	return func(o *backendOptions) {
		o.prefix = prefix
	}
}

func withOpener(open openFunc) Option {
	return func(o *backendOptions) {
		o.open = open
	}
}

// Backend discovers and opens hidraw devices.
type Backend struct {
	log     *zap.Logger
	options backendOptions
}

func NewBackend(log *zap.Logger, opts ...Option) *Backend {
	options := defaultBackendOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Backend{
		log:     log,
		options: options,
	}
}

// Enumerate scans the device directory for hidraw nodes and probes
// each one. A candidate that fails to open, to report its identity or
// to yield a usable report descriptor is skipped; only a failure to
// list the directory itself is returned.
func (b *Backend) Enumerate() ([]hidtransport.DeviceDescriptor, error) {
	entries, err := os.ReadDir(b.options.devDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list device directory %s: %w", b.options.devDir, err)
	}
	var devices []hidtransport.DeviceDescriptor
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), b.options.prefix) {
			continue
		}
		path := filepath.Join(b.options.devDir, entry.Name())
		desc, err := b.probe(path)
		if err != nil {
			b.log.Debug("skipping device", zap.String("path", path), zap.Error(err))
			continue
		}
		devices = append(devices, desc)
	}
	return devices, nil
}

// probe opens a candidate node just long enough to populate a
// descriptor. The handle is always closed; Open reopens by path.
func (b *Backend) probe(path string) (hidtransport.DeviceDescriptor, error) {
	node, err := b.options.open(path)
	if err != nil {
		return hidtransport.DeviceDescriptor{}, fmt.Errorf("%w: %w", hidtransport.ErrDeviceUnavailable, err)
	}
	defer node.Close()
	return b.describe(path, node)
}

func (b *Backend) describe(path string, node deviceNode) (hidtransport.DeviceDescriptor, error) {
	info, err := node.Info()
	if err != nil {
		return hidtransport.DeviceDescriptor{}, fmt.Errorf("%w: device info query: %w", hidtransport.ErrDeviceUnavailable, err)
	}
	raw, err := node.ReportDescriptor()
	if err != nil {
		return hidtransport.DeviceDescriptor{}, fmt.Errorf("%w: %w", hidtransport.ErrDescriptorUnavailable, err)
	}
	sum, err := hidtransport.InterpretDescriptor(raw)
	if err != nil {
		return hidtransport.DeviceDescriptor{}, err
	}
	vendor, product := node.Strings()
	return hidtransport.DeviceDescriptor{
		Path:               path,
		VendorID:           info.VendorID,
		ProductID:          info.ProductID,
		VendorString:       vendor,
		ProductString:      product,
		UsagePage:          sum.UsagePage,
		Usage:              sum.UsageID,
		MaxInputReportLen:  sum.MaxInputLen,
		MaxOutputReportLen: sum.MaxOutputLen,
	}, nil
}

// Open opens the device at path and interprets its report descriptor.
// On interpretation failure the handle is closed before the error is
// returned.
func (b *Backend) Open(path string) (hidtransport.Device, error) {
	node, err := b.options.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", hidtransport.ErrDeviceUnavailable, path, err)
	}
	desc, err := b.describe(path, node)
	if err != nil {
		return nil, multierr.Append(err, node.Close())
	}
	return newDevice(node, desc), nil
}
