package hidtransport

import (
	"context"
	"errors"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type WatchEventType uint8

const (
	DeviceConnected WatchEventType = iota
	DeviceDisconnected
)

// WatchEvent reports one device appearing in or disappearing from the
// enumeration results.
type WatchEvent struct {
	Type   WatchEventType
	Device DeviceDescriptor
}

var defaultWatcherOptions = watcherOptions{
	pollInterval: 1 * time.Second,
}

type watcherOptions struct {
	pollInterval time.Duration
}

type WatcherOption func(*watcherOptions)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(o *watcherOptions) {
		o.pollInterval = d
	}
}

// Watcher periodically re-enumerates a backend and reports the
// difference against the previous scan. It is a convenience wrapper
// over polling discovery, not a hot-plug subscription.
type Watcher struct {
	log     *zap.Logger
	backend Backend
	options watcherOptions

	seen    *xsync.MapOf[string, DeviceDescriptor]
	events  chan WatchEvent
	running atomic.Bool
}

func NewWatcher(log *zap.Logger, backend Backend, opts ...WatcherOption) *Watcher {
	options := defaultWatcherOptions
	for _, opt := range opts {
		opt(&options)
	}
	return &Watcher{
		log:     log,
		backend: backend,
		options: options,
		seen:    xsync.NewMapOf[string, DeviceDescriptor](),
		events:  make(chan WatchEvent, 16),
	}
}

// Events returns the channel the watcher publishes on. The channel is
// closed when Run returns.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Run polls until the context is cancelled. It performs one refresh
// immediately so the initial device set is published without waiting
// for the first tick.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return errors.New("hid: watcher already running")
	}
	defer close(w.events)

	w.refresh(ctx)

	ticker := time.NewTicker(w.options.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	devices, err := w.backend.Enumerate()
	if err != nil {
		w.log.Error("failed to enumerate HID devices", zap.Error(err))
		return
	}
	current := make(map[string]DeviceDescriptor, len(devices))
	for _, dev := range devices {
		current[dev.Path] = dev
	}

	w.seen.Range(func(path string, dev DeviceDescriptor) bool {
		if _, ok := current[path]; !ok {
			w.seen.Delete(path)
			w.publish(ctx, WatchEvent{Type: DeviceDisconnected, Device: dev})
		}
		return true
	})
	for _, dev := range devices {
		if _, loaded := w.seen.LoadOrStore(dev.Path, dev); !loaded {
			w.publish(ctx, WatchEvent{Type: DeviceConnected, Device: dev})
		}
	}
}

func (w *Watcher) publish(ctx context.Context, event WatchEvent) {
	select {
	case <-ctx.Done():
	case w.events <- event:
	}
}
