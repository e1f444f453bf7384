package rest

import (
	"errors"
	"net/http"

	"vault/core"
	"vault/handler/render"
	"vault/pkg/gateway"

	"github.com/go-chi/chi"
)

// Handle mounts the public read api and the payment builders.
func Handle(
	system *core.System,
	client *gateway.Client,
	collateralStore core.CollateralStore,
	vaultStore core.VaultStore,
	auctionStore core.AuctionStore,
	treasuryStore core.TreasuryStore,
	poolStore core.PoolStore,
	priceStore core.PriceStore,
	oracleSignerStore core.OracleSignerStore,
	proposalStore core.ProposalStore,
	proposalService core.ProposalService,
	transactionStore core.TransactionStore,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/info", infoHandler(system))
	router.Get("/collaterals", collateralsHandler(collateralStore))
	router.Get("/vaults", vaultsHandler(vaultStore))
	router.Get("/vaults/{trace_id}", vaultHandler(vaultStore))
	router.Get("/auctions/{kind}", auctionsHandler(auctionStore))
	router.Get("/auctions/{kind}/{trace_id}", auctionHandler(auctionStore))
	router.Get("/auction-bids/{trace_id}", auctionBidHandler(auctionStore))
	router.Get("/treasury", treasuryHandler(treasuryStore))
	router.Get("/pools", poolsHandler(poolStore))
	router.Get("/pools/{asset_id}", poolHandler(poolStore))
	router.Get("/prices", pricesHandler(collateralStore, priceStore))
	router.Get("/proposals", handleProposals(proposalStore, proposalService))
	router.Get("/proposals/{trace_id}", handleProposal(proposalStore, proposalService))
	router.Get("/transactions", transactionsHandler(transactionStore))
	router.Get("/price-requests", priceRequestsHandler(system, collateralStore, oracleSignerStore))
	router.Post("/pay-requests", payRequestsHandler(system, client))
	router.Post("/actions", actionsHandler(system, client))

	return router
}
