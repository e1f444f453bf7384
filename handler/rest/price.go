package rest

import (
	"net/http"
	"time"

	"vault/core"
	"vault/handler/render"

	"github.com/shopspring/decimal"
)

// pricesHandler lists the accepted feed price of every collateral
// currency, with the raw oracle row attached when one has passed.
func pricesHandler(collateralStore core.CollateralStore, priceStore core.PriceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		collaterals, err := collateralStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		type priceView struct {
			AssetID   string          `json:"asset_id"`
			Symbol    string          `json:"symbol,omitempty"`
			Price     decimal.Decimal `json:"price"`
			UpdatedAt time.Time       `json:"updated_at"`
			Block     int64           `json:"block,omitempty"`
		}

		prices := make([]priceView, 0, len(collaterals))
		for _, c := range collaterals {
			view := priceView{
				AssetID:   c.AssetID,
				Symbol:    c.Symbol,
				Price:     c.Price,
				UpdatedAt: c.PriceUpdatedAt,
			}

			if latest, err := priceStore.FindLatest(ctx, c.AssetID); err == nil && latest.ID > 0 {
				view.Block = latest.BlockNumber
			}

			prices = append(prices, view)
		}

		render.JSON(w, prices)
	}
}
