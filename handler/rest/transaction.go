package rest

import (
	"net/http"
	"time"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/handler/request"
)

// transactionsHandler pages the journal by create time. The
// authenticated user sees only their own rows.
func transactionsHandler(transactionStore core.TransactionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Offset string `json:"offset"`
			Limit  int    `json:"limit"`
			Status int    `json:"status"`
		}

		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		limit := params.Limit
		if limit <= 0 || limit > 500 {
			limit = 500
		}

		offset, err := time.Parse(time.RFC3339Nano, params.Offset)
		if err != nil {
			offset = time.Time{}
		}

		var transactions []*core.Transaction
		if user, ok := request.NewContext(ctx).GetUser(); ok {
			transactions, err = transactionStore.ListByUser(ctx, user.UserID, offset, limit)
		} else {
			transactions, err = transactionStore.List(ctx, offset, limit, core.TransactionStatus(params.Status))
		}

		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, transactions)
	}
}
