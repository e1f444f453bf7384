package rest

import (
	"errors"
	"fmt"
	"net/http"

	"vault/core"
	"vault/handler/param"
	"vault/handler/render"

	"github.com/fox-one/pkg/store"
)

const auctionPageSize = 50

// auctionsHandler pages the open auctions of one book. kind selects
// the book: collateral, surplus or debit.
func auctionsHandler(auctionStore core.AuctionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params struct {
			Cursor int64 `json:"cursor"`
		}
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		var (
			data       interface{}
			count      int
			lastID     int64
			nextCursor string
		)

		switch kind := param.String(r, "kind"); kind {
		case "collateral":
			auctions, err := auctionStore.ListOpenCollateralAuctions(ctx, params.Cursor, auctionPageSize)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			if count = len(auctions); count > 0 {
				lastID = auctions[count-1].ID
			}
			data = auctions
		case "surplus":
			auctions, err := auctionStore.ListOpenSurplusAuctions(ctx, params.Cursor, auctionPageSize)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			if count = len(auctions); count > 0 {
				lastID = auctions[count-1].ID
			}
			data = auctions
		case "debit":
			auctions, err := auctionStore.ListOpenDebitAuctions(ctx, params.Cursor, auctionPageSize)
			if err != nil {
				render.BadRequest(w, err)
				return
			}
			if count = len(auctions); count > 0 {
				lastID = auctions[count-1].ID
			}
			data = auctions
		default:
			render.BadRequest(w, fmt.Errorf("unknown auction kind %q", kind))
			return
		}

		if count == auctionPageSize {
			nextCursor = fmt.Sprint(lastID)
		}

		render.JSON(w, render.H{
			"auctions": data,
			"pagination": render.H{
				"next_cursor": nextCursor,
				"has_next":    nextCursor != "",
			},
		})
	}
}

func auctionHandler(auctionStore core.AuctionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trace := param.String(r, "trace_id")

		var (
			auction interface{}
			err     error
		)

		switch kind := param.String(r, "kind"); kind {
		case "collateral":
			auction, err = auctionStore.FindCollateralAuction(ctx, trace)
		case "surplus":
			auction, err = auctionStore.FindSurplusAuction(ctx, trace)
		case "debit":
			auction, err = auctionStore.FindDebitAuction(ctx, trace)
		default:
			render.BadRequest(w, fmt.Errorf("unknown auction kind %q", kind))
			return
		}

		if err != nil {
			if store.IsErrNotFound(err) {
				render.NotFoundRequest(w, errors.New("auction not found"))
				return
			}

			render.BadRequest(w, err)
			return
		}

		render.JSON(w, auction)
	}
}

// auctionBidHandler reports the standing bid of an auction without
// requiring the caller to know which book it lives in.
func auctionBidHandler(auctionStore core.AuctionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		trace := param.String(r, "trace_id")

		if auction, err := auctionStore.FindCollateralAuction(ctx, trace); err == nil {
			render.JSON(w, render.H{
				"kind":   "collateral",
				"bid":    auction.Bid,
				"bidder": auction.Bidder,
				"amount": auction.Amount,
				"phase":  auction.Phase,
				"state":  auction.State,
			})
			return
		} else if !store.IsErrNotFound(err) {
			render.BadRequest(w, err)
			return
		}

		if auction, err := auctionStore.FindSurplusAuction(ctx, trace); err == nil {
			render.JSON(w, render.H{
				"kind":   "surplus",
				"bid":    auction.Bid,
				"bidder": auction.Bidder,
				"amount": auction.Amount,
				"state":  auction.State,
			})
			return
		} else if !store.IsErrNotFound(err) {
			render.BadRequest(w, err)
			return
		}

		if auction, err := auctionStore.FindDebitAuction(ctx, trace); err == nil {
			render.JSON(w, render.H{
				"kind":   "debit",
				"bid":    auction.Bid,
				"bidder": auction.Bidder,
				"amount": auction.Amount,
				"fix":    auction.Fix,
				"state":  auction.State,
			})
			return
		} else if !store.IsErrNotFound(err) {
			render.BadRequest(w, err)
			return
		}

		render.NotFoundRequest(w, errors.New("auction not found"))
	}
}
