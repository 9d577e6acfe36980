package hidtransport

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

type scriptedBackend struct {
	scans [][]DeviceDescriptor
	calls int
}

func (b *scriptedBackend) Enumerate() ([]DeviceDescriptor, error) {
	scan := b.scans[b.calls]
	if b.calls < len(b.scans)-1 {
		b.calls++
	}
	return scan, nil
}

func (b *scriptedBackend) Open(path string) (Device, error) {
	return nil, errors.New("not implemented")
}

func collectEvents(t *testing.T, events <-chan WatchEvent, n int) []WatchEvent {
	t.Helper()
	var out []WatchEvent
	deadline := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("events channel closed after %d events, want %d", len(out), n)
			}
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("timed out after %d events, want %d", len(out), n)
		}
	}
	return out
}

func TestWatcherDiffsScans(t *testing.T) {
	devA := DeviceDescriptor{Path: "/dev/hidraw0", VendorID: 0x1050, ProductID: 0x0402}
	devB := DeviceDescriptor{Path: "/dev/hidraw1", VendorID: 0x18d1, ProductID: 0x5026}
	backend := &scriptedBackend{
		scans: [][]DeviceDescriptor{
			{devA, devB},
			{devB},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(zap.NewNop(), backend, WithPollInterval(10*time.Millisecond))
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	connected := collectEvents(t, w.Events(), 2)
	paths := map[string]bool{}
	for _, ev := range connected {
		if ev.Type != DeviceConnected {
			t.Errorf("expected connect event, got %v", ev.Type)
		}
		paths[ev.Device.Path] = true
	}
	if !paths[devA.Path] || !paths[devB.Path] {
		t.Errorf("unexpected initial devices: %v", paths)
	}

	disconnected := collectEvents(t, w.Events(), 1)
	if disconnected[0].Type != DeviceDisconnected || disconnected[0].Device.Path != devA.Path {
		t.Errorf("unexpected disconnect event: %+v", disconnected[0])
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestWatcherRunsOnce(t *testing.T) {
	backend := &scriptedBackend{scans: [][]DeviceDescriptor{nil}}
	w := NewWatcher(zap.NewNop(), backend, WithPollInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	// Wait for the first refresh before attempting the second Run.
	time.Sleep(50 * time.Millisecond)
	if err := w.Run(ctx); err == nil {
		t.Error("expected second Run to fail")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
