package rawhidcli

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewExchange(backend backendProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "exchange <path> <hex-report>",
		Short: "Write one output report and read the response",
		Long: `Exchange writes one output report to the device and blocks for one
input report. The payload is given as hex and padded with zeros to the
device's output report length.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := hex.DecodeString(strings.ReplaceAll(args[1], " ", ""))
			if err != nil {
				return fmt.Errorf("invalid hex payload: %w", err)
			}

			dev, err := backend().Open(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			if len(payload) > dev.OutputReportLength() {
				return fmt.Errorf("payload is %d bytes, device output reports are %d", len(payload), dev.OutputReportLength())
			}
			report := make([]byte, dev.OutputReportLength())
			copy(report, payload)

			if err := dev.Write(report); err != nil {
				return err
			}
			in, err := dev.Read()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(in))
			return nil
		},
	}
}
