//go:build linux

package hidraw

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fidokit/rawhid/hidtransport"
)

func openTestDevice(t *testing.T, node *fakeNode) hidtransport.Device {
	t.Helper()
	b := NewBackend(zap.NewNop(),
		withOpener(func(path string) (deviceNode, error) {
			return node, nil
		}))
	dev, err := b.Open("/dev/hidraw0")
	if err != nil {
		t.Fatal(err)
	}
	return dev
}

func TestDeviceReportLengths(t *testing.T) {
	dev := openTestDevice(t, yubikeyNode())
	defer dev.Close()

	for i := 0; i < 3; i++ {
		if got := dev.InputReportLength(); got != 64 {
			t.Fatalf("input report length: got %d, want 64", got)
		}
		if got := dev.OutputReportLength(); got != 64 {
			t.Fatalf("output report length: got %d, want 64", got)
		}
	}
	if dev.Descriptor().VendorID != 0x1050 {
		t.Errorf("descriptor vendor: got %04x", dev.Descriptor().VendorID)
	}
}

func TestDeviceWriteRead(t *testing.T) {
	node := yubikeyNode()
	dev := openTestDevice(t, node)
	defer dev.Close()

	report := bytes.Repeat([]byte{0xAB}, dev.OutputReportLength())
	if err := dev.Write(report); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(node.writeBuf.Bytes(), report) {
		t.Error("written report does not match")
	}

	node.readBuf.Write(bytes.Repeat([]byte{0xCD}, 64))
	in, err := dev.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(in) != dev.InputReportLength() {
		t.Errorf("read length: got %d, want %d", len(in), dev.InputReportLength())
	}
}

func TestDeviceShortRead(t *testing.T) {
	node := yubikeyNode()
	dev := openTestDevice(t, node)
	defer dev.Close()

	node.readBuf.Write([]byte{0x01, 0x02, 0x03})
	in, err := dev.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(in) != 3 {
		t.Errorf("short read length: got %d, want 3", len(in))
	}
}

func TestDeviceWriteError(t *testing.T) {
	node := yubikeyNode()
	node.writeErr = errors.New("endpoint stalled")
	dev := openTestDevice(t, node)
	defer dev.Close()

	err := dev.Write(make([]byte, 64))
	if !errors.Is(err, hidtransport.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
}

func TestDeviceCloseOnce(t *testing.T) {
	node := yubikeyNode()
	dev := openTestDevice(t, node)

	if err := dev.Close(); err != nil {
		t.Fatal(err)
	}
	if err := dev.Close(); err != nil {
		t.Fatal(err)
	}
	if node.closes != 1 {
		t.Errorf("handle closed %d times, want 1", node.closes)
	}
}
