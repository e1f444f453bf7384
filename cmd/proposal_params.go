package cmd

import (
	"vault/core"
	"vault/core/proposal"

	"github.com/fox-one/pkg/qrcode"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var updateParamsCmd = &cobra.Command{
	Use:     "update-params",
	Aliases: []string{"up"},
	Short:   "create a proposal to tune the risk params of a collateral",
	Long:    "params left out keep the current value",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		system := provideSystem()
		client := provideGatewayClient()

		collateral, err := cmd.Flags().GetString("collateral")
		if err != nil {
			panic(err)
		}
		if collateral == "" {
			panic("collateral is required")
		}

		req := proposal.UpdateParamsReq{
			CollateralID:       collateral,
			StabilityFee:       paramFlag(cmd, "stability-fee"),
			LiquidationRatio:   paramFlag(cmd, "liquidation-ratio"),
			LiquidationPenalty: paramFlag(cmd, "liquidation-penalty"),
			RequiredRatio:      paramFlag(cmd, "required-ratio"),
			DebitCeiling:       paramFlag(cmd, "debit-ceiling"),
			AuctionSize:        paramFlag(cmd, "auction-size"),
		}

		url, err := buildProposalPaymentURL(ctx, system, client, core.ActionTypeProposalUpdateParams, req)
		if err != nil {
			cmd.PrintErr(err)
			return
		}

		cmd.Println(url)
		qrcode.Fprint(cmd.OutOrStdout(), url)
	},
}

func paramFlag(cmd *cobra.Command, name string) decimal.Decimal {
	if !cmd.Flags().Changed(name) {
		return proposal.Keep
	}

	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		panic(err)
	}

	return v
}

func init() {
	proposalCmd.AddCommand(updateParamsCmd)

	updateParamsCmd.Flags().String("collateral", "", "collateral id")
	updateParamsCmd.Flags().String("stability-fee", "", "annual stability fee rate")
	updateParamsCmd.Flags().String("liquidation-ratio", "", "collateral ratio triggering liquidation")
	updateParamsCmd.Flags().String("liquidation-penalty", "", "penalty applied on liquidation")
	updateParamsCmd.Flags().String("required-ratio", "", "minimum collateral ratio for new debit")
	updateParamsCmd.Flags().String("debit-ceiling", "", "max total debit of the collateral")
	updateParamsCmd.Flags().String("auction-size", "", "max debit covered per collateral auction")
}
