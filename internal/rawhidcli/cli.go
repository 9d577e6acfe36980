// Package rawhidcli is the command-line surface of the rawhid
// transport: device listing, descriptor inspection, poll-based
// watching and one-shot report exchanges.
package rawhidcli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fidokit/rawhid/hidtransport"
)

func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	return cmd.ExecuteContext(ctx)
}

type backendProvider func() hidtransport.Backend

func NewRootCmd() *cobra.Command {
	var verbose bool
	var log *zap.Logger
	var backend hidtransport.Backend

	rootCmd := &cobra.Command{
		Use:   "rawhid",
		Short: "Raw HID transport for authenticator tokens",
		Long:  `rawhid discovers HID authenticator tokens and exchanges raw fixed-size reports with them.`,
	}
	provider := func() hidtransport.Backend {
		return backend
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		log, err = newLogger(verbose)
		if err != nil {
			return err
		}
		backend = newBackend(log)
		return nil
	}
	rootCmd.AddCommand(NewList(provider))
	rootCmd.AddCommand(NewInfo(provider))
	rootCmd.AddCommand(NewWatch(provider, func() *zap.Logger { return log }))
	rootCmd.AddCommand(NewExchange(provider))
	return rootCmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		loggerConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
