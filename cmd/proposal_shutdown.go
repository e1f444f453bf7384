package cmd

import (
	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

var shutdownCmd = &cobra.Command{
	Use:   "shutdown",
	Short: "create a proposal to halt the engine and settle at the last known prices",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		system := provideSystem()
		client := provideGatewayClient()

		url, err := buildProposalPaymentURL(ctx, system, client, core.ActionTypeProposalShutdown, proposal.ShutdownReq{})
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

var openRefundCmd = &cobra.Command{
	Use:   "open-refund",
	Short: "create a proposal to open pro rata collateral refunds after shutdown",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		system := provideSystem()
		client := provideGatewayClient()

		url, err := buildProposalPaymentURL(ctx, system, client, core.ActionTypeProposalOpenRefund, proposal.OpenRefundReq{})
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	proposalCmd.AddCommand(shutdownCmd)
	proposalCmd.AddCommand(openRefundCmd)
}
