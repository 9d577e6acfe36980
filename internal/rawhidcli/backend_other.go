//go:build !linux

package rawhidcli

import (
	"go.uber.org/zap"

	"github.com/fidokit/rawhid/hidtransport"
	"github.com/fidokit/rawhid/hidtransport/hidapi"
)

func newBackend(log *zap.Logger) hidtransport.Backend {
	return hidapi.NewBackend(log.Named("hidapi"))
}
