package rest

import (
	"errors"
	"fmt"
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"
	"vault/handler/views"
)

func handleProposals(proposalStore core.ProposalStore, proposalz core.ProposalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Cursor int64 `json:"cursor"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		const limit = 50
		proposals, err := proposalStore.List(ctx, params.Cursor, limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var nextCursor string
		if len(proposals) == limit {
			nextCursor = fmt.Sprint(proposals[limit-1].ID)
		}

		render.JSON(w, render.H{
			"proposals": views.ProposalViews(proposals),
			"pagination": render.H{
				"next_cursor": nextCursor,
				"has_next":    nextCursor != "",
			},
		})
	}
}

func handleProposal(proposalStore core.ProposalStore, proposalz core.ProposalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trace := param.String(r, "trace_id")
		proposal, isNotFound, err := proposalStore.Find(ctx, trace)
		if err != nil {
			if isNotFound {
				render.NotFoundRequest(w, errors.New("proposal not found"))
				return
			}

			render.BadRequest(w, err)
			return
		}

		view := views.ProposalView(*proposal)
		items, err := proposalz.ListItems(ctx, proposal)
		if err != nil {
			render.BadRequest(w, err)
			return
		}
		view.Items = views.ProposalItemViews(items)

		render.JSON(w, view)
	}
}
