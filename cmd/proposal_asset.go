package cmd

import (
	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

var registerAssetCmd = &cobra.Command{
	Use:     "register-asset",
	Aliases: []string{"ra"},
	Short:   "create a proposal to bind an asset to a transfer resource",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		system := provideSystem()
		client := provideGatewayClient()

		asset, err := cmd.Flags().GetString("asset")
		if err != nil {
			panic(err)
		}
		resource, err := cmd.Flags().GetString("resource")
		if err != nil {
			panic(err)
		}

		if asset == "" || resource == "" {
			panic("asset and resource are required")
		}

		req := proposal.RegisterAssetReq{
			AssetID:    asset,
			ResourceID: resource,
		}

		url, err := buildProposalPaymentURL(ctx, system, client, core.ActionTypeProposalRegisterAsset, req)
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	proposalCmd.AddCommand(registerAssetCmd)

	registerAssetCmd.Flags().String("asset", "", "asset id")
	registerAssetCmd.Flags().String("resource", "", "resource id")
}
