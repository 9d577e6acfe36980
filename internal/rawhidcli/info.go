package rawhidcli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewInfo(backend backendProvider) *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Show transport parameters of one device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, err := backend().Open(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			desc := dev.Descriptor()
			fmt.Fprintln(cmd.OutOrStdout(), desc)
			fmt.Fprintf(cmd.OutOrStdout(), "\tUsagePage    %#04x\n", desc.UsagePage)
			fmt.Fprintf(cmd.OutOrStdout(), "\tUsage        %#04x\n", desc.Usage)
			fmt.Fprintf(cmd.OutOrStdout(), "\tInReportLen  %d\n", dev.InputReportLength())
			fmt.Fprintf(cmd.OutOrStdout(), "\tOutReportLen %d\n", dev.OutputReportLength())
			fmt.Fprintf(cmd.OutOrStdout(), "\tFIDO         %t\n", desc.IsAuthenticator())
			return nil
		},
	}
}
