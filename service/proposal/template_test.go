package proposal

import (
	"fmt"
	"testing"
	"time"

	"vault/core"

	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

func TestRenderProposal(t *testing.T) {
	p := &core.Proposal{
		TraceID:   uuid.New(),
		Creator:   uuid.New(),
		AssetID:   uuid.New(),
		Amount:    decimal.New(7, 2),
		Action:    core.ActionTypeProposalAddCollateral,
		CreatedAt: time.Now(),
		Content:   []byte(`{"symbol":"BTC"}`),
	}

	items := []core.ProposalItem{
		{Key: "symbol", Value: "BTC"},
		{Key: "asset", Value: p.AssetID, Hint: "BTC"},
	}

	view := renderProposal(p, items, "https://example.com/codes/xxx")
	fmt.Println(view)
}
