package rawhidcli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/fidokit/rawhid/hidtransport"
)

// WatchFilter narrows watch output to specific vendor/product pairs.
type WatchFilter struct {
	Devices []DeviceFilter `yaml:"devices"`
}

type DeviceFilter struct {
	VendorID  uint16 `yaml:"vendorId"`
	ProductID uint16 `yaml:"productId"`
}

func (f WatchFilter) matches(dev hidtransport.DeviceDescriptor) bool {
	if len(f.Devices) == 0 {
		return true
	}
	for _, d := range f.Devices {
		if d.VendorID == dev.VendorID && d.ProductID == dev.ProductID {
			return true
		}
	}
	return false
}

func loadWatchFilter(path string) (WatchFilter, error) {
	var filter WatchFilter
	if path == "" {
		return filter, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return filter, fmt.Errorf("failed to read filter config: %w", err)
	}
	if err := yaml.Unmarshal(data, &filter); err != nil {
		return filter, fmt.Errorf("failed to parse filter config: %w", err)
	}
	return filter, nil
}

func NewWatch(backend backendProvider, log func() *zap.Logger) *cobra.Command {
	var interval time.Duration
	var filterPath string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for devices appearing and disappearing",
		Long:  `Watch periodically rescans the device namespace and prints connect and disconnect events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := loadWatchFilter(filterPath)
			if err != nil {
				return err
			}
			watcher := hidtransport.NewWatcher(log().Named("watch"), backend(),
				hidtransport.WithPollInterval(interval))

			group, ctx := errgroup.WithContext(cmd.Context())
			group.Go(func() error {
				return watcher.Run(ctx)
			})
			group.Go(func() error {
				for event := range watcher.Events() {
					if !filter.matches(event.Device) {
						continue
					}
					verb := "connected"
					if event.Type == hidtransport.DeviceDisconnected {
						verb = "disconnected"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, event.Device)
				}
				return nil
			})
			return group.Wait()
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval")
	cmd.Flags().StringVar(&filterPath, "filter", "", "YAML file listing vendor/product pairs to report")
	return cmd
}
