package cmd

import (
	"context"
	"encoding"
	"encoding/base64"

	"vault/core"
	"vault/pkg/gateway"
	"vault/pkg/mtg"

	uuidutil "github.com/fox-one/pkg/uuid"
	"github.com/gofrs/uuid"
	"github.com/spf13/cobra"
)

// proposalCmd represents the proposal command
var proposalCmd = &cobra.Command{
	Use:     "proposal <command>",
	Aliases: []string{"pp"},
	Short:   "manage governance proposals",
}

func init() {
	rootCmd.AddCommand(proposalCmd)
}

func buildProposalPaymentURL(ctx context.Context, system *core.System, client *gateway.Client, action core.ActionType, content encoding.BinaryMarshaler) (string, error) {
	self, err := uuid.FromString(system.ClientID)
	if err != nil {
		return "", err
	}

	body, err := mtg.Encode(self, int(core.ActionTypeProposalMake), int(action))
	if err != nil {
		return "", err
	}

	if content != nil {
		bts, err := content.MarshalBinary()
		if err != nil {
			return "", err
		}

		body = append(body, bts...)
	}

	memo := mtg.Pack(body, mtg.Sign(body, system.SignKey))

	payment, err := client.CreatePayment(ctx, &gateway.Payment{
		AssetID:   system.VoteAsset,
		Amount:    system.VoteAmount,
		TraceID:   uuidutil.New(),
		Memo:      base64.StdEncoding.EncodeToString(memo),
		Receivers: system.MemberIDs(),
		Threshold: system.Threshold,
	})
	if err != nil {
		return "", err
	}

	return payment.CodeURL, nil
}
