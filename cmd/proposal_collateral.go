package cmd

import (
	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/qrcode"
	"github.com/spf13/cobra"
)

var addCollateralCmd = &cobra.Command{
	Use:     "add-collateral",
	Aliases: []string{"ac"},
	Short:   "create a proposal to list a new collateral currency",
	Long: `flags->
	name: collateral display name
	symbol: collateral symbol
	asset: gateway asset id of the collateral currency`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		system := provideSystem()
		client := provideGatewayClient()

		name, err := cmd.Flags().GetString("name")
		if err != nil {
			panic(err)
		}
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			panic(err)
		}
		asset, err := cmd.Flags().GetString("asset")
		if err != nil {
			panic(err)
		}

		if name == "" || symbol == "" || asset == "" {
			panic("name, symbol and asset are all required")
		}

		req := proposal.AddCollateralReq{
			Name:    name,
			Symbol:  symbol,
			AssetID: asset,
		}

		url, err := buildProposalPaymentURL(ctx, system, client, core.ActionTypeProposalAddCollateral, req)
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func init() {
	proposalCmd.AddCommand(addCollateralCmd)

	addCollateralCmd.Flags().String("name", "", "collateral display name")
	addCollateralCmd.Flags().String("symbol", "", "collateral symbol")
	addCollateralCmd.Flags().String("asset", "", "gateway asset id")
}
