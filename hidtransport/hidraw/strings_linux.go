//go:build linux

package hidraw

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jochenvg/go-udev"
)

// Strings resolves the human-readable vendor and product strings of a
// hidraw node. The hidraw ioctls expose only numeric identity, so the
// strings come from the parent USB device: first through udev, then
// through a sysfs walk when udev has no record. Both may legitimately
// be empty (Bluetooth HID, virtual devices).
func (n *hidrawNode) Strings() (string, string) {
	sysname := filepath.Base(n.path)
	if vendor, product, ok := udevStrings(sysname); ok {
		return vendor, product
	}
	return sysfsStrings(sysname)
}

func udevStrings(sysname string) (string, string, bool) {
	u := udev.Udev{}
	dev := u.NewDeviceFromSubsystemSysname("hidraw", sysname)
	if dev == nil {
		return "", "", false
	}
	parent := dev.ParentWithSubsystemDevtype("usb", "usb_device")
	if parent == nil {
		return "", "", false
	}
	return trimDeviceString(parent.SysattrValue("manufacturer")),
		trimDeviceString(parent.SysattrValue("product")),
		true
}

// sysfsStrings walks from /sys/class/hidraw/<name>/device up to the
// directory holding idVendor, which is the USB device directory.
func sysfsStrings(sysname string) (string, string) {
	dir, err := filepath.EvalSymlinks(filepath.Join("/sys/class/hidraw", sysname, "device"))
	if err != nil {
		return "", ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err == nil {
			return readDeviceString(filepath.Join(dir, "manufacturer")),
				readDeviceString(filepath.Join(dir, "product"))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ""
		}
		dir = parent
	}
}

func readDeviceString(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return trimDeviceString(string(b))
}

// trimDeviceString strips the NUL padding and whitespace device
// string buffers arrive with.
func trimDeviceString(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
