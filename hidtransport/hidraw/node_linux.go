//go:build linux

package hidraw

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// From <linux/hidraw.h>. The kernel caps report descriptors at
// HID_MAX_DESCRIPTOR_SIZE bytes.
const hidMaxDescriptorSize = 4096

const (
	iocDirRead   = 2
	iocDirShift  = 30
	iocSizeShift = 16
	iocTypeShift = 8
)

func iorH(nr, size uintptr) uintptr {
	return iocDirRead<<iocDirShift | size<<iocSizeShift | 'H'<<iocTypeShift | nr
}

var (
	// struct hidraw_devinfo { __u32 bustype; __s16 vendor; __s16 product; }
	hidIocGRawInfo = iorH(0x03, 8)
	// int
	hidIocGRDescSize = iorH(0x01, 4)
	// struct hidraw_report_descriptor { __u32 size; __u8 value[4096]; }
	hidIocGRDesc = iorH(0x02, 4+hidMaxDescriptorSize)
)

// hidrawNode is the production deviceNode over a hidraw character
// device opened for read and write.
type hidrawNode struct {
	path string
	f    *os.File
}

func openNode(path string) (deviceNode, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &hidrawNode{path: path, f: f}, nil
}

func (n *hidrawNode) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, n.f.Fd(), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func (n *hidrawNode) Info() (devInfo, error) {
	// struct hidraw_devinfo, explicit little-endian field layout.
	var raw [8]byte
	if err := n.ioctl(hidIocGRawInfo, unsafe.Pointer(&raw[0])); err != nil {
		return devInfo{}, fmt.Errorf("HIDIOCGRAWINFO: %w", err)
	}
	return devInfo{
		BusType:   binary.LittleEndian.Uint32(raw[0:4]),
		VendorID:  binary.LittleEndian.Uint16(raw[4:6]),
		ProductID: binary.LittleEndian.Uint16(raw[6:8]),
	}, nil
}

func (n *hidrawNode) ReportDescriptor() ([]byte, error) {
	var size int32
	if err := n.ioctl(hidIocGRDescSize, unsafe.Pointer(&size)); err != nil {
		return nil, fmt.Errorf("HIDIOCGRDESCSIZE: %w", err)
	}
	if size < 0 || size > hidMaxDescriptorSize {
		return nil, fmt.Errorf("descriptor size out of range: %d", size)
	}
	// struct hidraw_report_descriptor: the caller fills in size, the
	// kernel fills in value.
	buf := make([]byte, 4+hidMaxDescriptorSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(size))
	if err := n.ioctl(hidIocGRDesc, unsafe.Pointer(&buf[0])); err != nil {
		return nil, fmt.Errorf("HIDIOCGRDESC: %w", err)
	}
	return buf[4 : 4+size], nil
}

func (n *hidrawNode) Read(p []byte) (int, error) {
	return n.f.Read(p)
}

func (n *hidrawNode) Write(p []byte) (int, error) {
	return n.f.Write(p)
}

func (n *hidrawNode) Close() error {
	return n.f.Close()
}
