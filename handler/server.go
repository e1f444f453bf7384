package handler

import (
	"net/http"

	"vault/core"
	"vault/handler/auth"
	"vault/handler/hc"
	"vault/handler/render"
	"vault/handler/rest"
	"vault/pkg/gateway"

	"github.com/go-chi/chi"
	"github.com/rs/cors"
	"github.com/twitchtv/twirp"
)

// Server bundles the stores the public api reads from.
type Server struct {
	system  *core.System
	client  *gateway.Client
	session core.Session

	collateralStore   core.CollateralStore
	vaultStore        core.VaultStore
	auctionStore      core.AuctionStore
	treasuryStore     core.TreasuryStore
	poolStore         core.PoolStore
	priceStore        core.PriceStore
	oracleSignerStore core.OracleSignerStore
	proposalStore     core.ProposalStore
	proposalService   core.ProposalService
	transactionStore  core.TransactionStore
}

func New(
	system *core.System,
	client *gateway.Client,
	session core.Session,
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
) Server {
	return Server{
		system:            system,
		client:            client,
		session:           session,
		collateralStore:   collateralStore,
		vaultStore:        vaultStore,
		auctionStore:      auctionStore,
		treasuryStore:     treasuryStore,
		poolStore:         poolStore,
		priceStore:        priceStore,
		oracleSignerStore: oracleSignerStore,
		proposalStore:     proposalStore,
		proposalService:   proposalService,
		transactionStore:  transactionStore,
	}
}

// Handler assembles the full http surface: health check under /hc,
// the api under /api.
func (s Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Mount("/hc", hc.Handle(s.system.Version))
	r.Mount("/api", s.HandleRestAPI())

	return r
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(render.WrapResponse(true))
	r.Use(auth.HandleAuthentication(s.session))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(
		s.system,
		s.client,
		s.collateralStore,
		s.vaultStore,
		s.auctionStore,
		s.treasuryStore,
		s.poolStore,
		s.priceStore,
		s.oracleSignerStore,
		s.proposalStore,
		s.proposalService,
		s.transactionStore,
	))

	return r
}
