package wallet

import (
	"context"
	"time"

	"vault/core"
	"vault/pkg/gateway"
)

// New new wallet service
func New(client *gateway.Client, system *core.System) core.WalletService {
	return &walletService{
		client: client,
		system: system,
	}
}

type walletService struct {
	client *gateway.Client
	system *core.System
}

func (s *walletService) Pull(ctx context.Context, offset time.Time, limit int) ([]*core.Output, error) {
	utxos, err := s.client.ReadOutputs(ctx, s.system.MemberIDs(), s.system.Threshold, offset, limit)
	if err != nil {
		return nil, err
	}

	outputs := make([]*core.Output, 0, len(utxos))
	for _, utxo := range utxos {
		outputs = append(outputs, convertUTXO(utxo))
	}

	return outputs, nil
}

func convertUTXO(utxo *gateway.UTXO) *core.Output {
	return &core.Output{
		CreatedAt: utxo.CreatedAt,
		UpdatedAt: utxo.UpdatedAt,
		TraceID:   utxo.TraceID,
		AssetID:   utxo.AssetID,
		Amount:    utxo.Amount,
		Sender:    utxo.Sender,
		Memo:      utxo.Memo,
		State:     utxo.State,
		SignedTx:  utxo.SignedTx,
	}
}

func (s *walletService) Spend(ctx context.Context, outputs []*core.Output, transfer *core.Transfer) (*core.RawTransaction, error) {
	utxos := make([]string, 0, len(outputs))
	for _, output := range outputs {
		utxos = append(utxos, output.TraceID)
	}

	multisig, err := s.client.CreateMultisig(ctx, &gateway.MultisigRequest{
		TraceID:   transfer.TraceID,
		AssetID:   transfer.AssetID,
		Amount:    transfer.Amount,
		Memo:      transfer.Memo,
		Receivers: transfer.Opponents,
		Threshold: transfer.Threshold,
		UTXOs:     utxos,
	})
	if err != nil {
		return nil, err
	}

	if multisig.State != gateway.MultisigStateSigned {
		multisig, err = s.client.SignMultisig(ctx, multisig.RequestID, multisig.Payload, s.system.SignKey)
		if err != nil {
			return nil, err
		}
	}

	// another member completes the signature, nothing to submit here
	if multisig.State != gateway.MultisigStateSigned {
		return nil, nil
	}

	return &core.RawTransaction{
		TraceID: transfer.TraceID,
		Data:    multisig.RawTransaction,
	}, nil
}
