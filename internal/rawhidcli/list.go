package rawhidcli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewList(backend backendProvider) *cobra.Command {
	var fidoOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List HID devices",
		Long:  `List HID devices connected to the system, with the transport parameters derived from their report descriptors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := backend().Enumerate()
			if err != nil {
				return err
			}
			header := color.New(color.Bold)
			pathColor := color.New(color.FgCyan)
			for _, dev := range devices {
				if fidoOnly && !dev.IsAuthenticator() {
					continue
				}
				header.Fprintf(cmd.OutOrStdout(), "%s: ID %04x:%04x %s %s\n",
					pathColor.Sprint(dev.Path), dev.VendorID, dev.ProductID, dev.VendorString, dev.ProductString)
				fmt.Fprintf(cmd.OutOrStdout(), "\tUsagePage    %#04x\n", dev.UsagePage)
				fmt.Fprintf(cmd.OutOrStdout(), "\tUsage        %#04x\n", dev.Usage)
				fmt.Fprintf(cmd.OutOrStdout(), "\tInReportLen  %d\n", dev.MaxInputReportLen)
				fmt.Fprintf(cmd.OutOrStdout(), "\tOutReportLen %d\n", dev.MaxOutputReportLen)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fidoOnly, "fido", false, "only list FIDO authenticator devices")
	return cmd
}
