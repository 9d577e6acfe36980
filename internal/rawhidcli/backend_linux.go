//go:build linux

package rawhidcli

import (
	"go.uber.org/zap"

	"github.com/fidokit/rawhid/hidtransport"
	"github.com/fidokit/rawhid/hidtransport/hidraw"
)

func newBackend(log *zap.Logger) hidtransport.Backend {
	return hidraw.NewBackend(log.Named("hidraw"))
}
