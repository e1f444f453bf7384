package cmd

import (
	"strconv"

	"vault/core"
	"vault/core/proposal"
	"vault/pkg/sysversion"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

// setpropertyCmd represents the setproperty command
var setpropertyCmd = &cobra.Command{
	Use:   "setproperty <key> <value>",
	Short: "create a proposal to set property",
	Args:  cobra.ExactValidArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		setPropReq := proposal.SetProperty{
			Key:   args[0],
			Value: args[1],
		}

		ctx := cmd.Context()
		system := provideSystem()
		client := provideGatewayClient()

		if setPropReq.Key == "" {
			cmd.PrintErr("empty key")
			return
		} else if setPropReq.Key == sysversion.SysVersionKey {
			ver, err := strconv.ParseInt(setPropReq.Value, 10, 64)
			if err != nil {
				cmd.PrintErr(err)
				return
			}

			if ver > core.SysVersion {
				cmd.PrintErrf("sys version: new version (%d) is greater than core.SysVersion (%d)", ver, core.SysVersion)
				return
			}
		}

		url, err := buildProposalPaymentURL(ctx, system, client, core.ActionTypeProposalSetProperty, setPropReq)
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	proposalCmd.AddCommand(setpropertyCmd)
}
