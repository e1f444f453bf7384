package payee

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"vault/core"
	"vault/pkg/mtg"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/gofrs/uuid"
)

const (
	checkpointKey = "outputs_checkpoint"
	limit         = 500
)

// Database begins the per output transaction
type Database interface {
	Tx(fn func(tx *db.DB) error) error
}

// Deps the ledgers and services one output dispatch runs against,
// assembled fresh over the dispatch transaction so every write of a
// dispatch commits together with its journal row, or not at all.
type Deps struct {
	Users          core.UserStore
	Wallets        core.WalletStore
	Collaterals    core.CollateralStore
	Vaults         core.VaultStore
	Auctions       core.AuctionStore
	Treasuries     core.TreasuryStore
	Prices         core.PriceStore
	OracleSigners  core.OracleSignerStore
	Proposals      core.ProposalStore
	Transactions   core.TransactionStore
	Authorizations core.AuthorizationStore
	Assets         core.AssetStore
	Vaultz         core.VaultService
	Engine         core.EngineService
	Auctionz       core.AuctionService
	Treasuryz      core.TreasuryService
	Dexz           core.DexService
	Proposalz      core.ProposalService
}

// Payee the sequential worker applying every received output to the
// ledgers. Outputs are consumed strictly in chain order; a failing
// output rolls back and blocks the queue until it can be handled.
type Payee struct {
	db            Database
	system        *core.System
	propertyStore property.Store
	walletStore   core.WalletStore
	assemble      func(tx *db.DB) Deps

	userStore          core.UserStore
	collateralStore    core.CollateralStore
	vaultStore         core.VaultStore
	auctionStore       core.AuctionStore
	treasuryStore      core.TreasuryStore
	priceStore         core.PriceStore
	oracleSignerStore  core.OracleSignerStore
	proposalStore      core.ProposalStore
	transactionStore   core.TransactionStore
	authorizationStore core.AuthorizationStore
	assetStore         core.AssetStore
	vaultz             core.VaultService
	engine             core.EngineService
	auctionz           core.AuctionService
	treasuryz          core.TreasuryService
	dexz               core.DexService
	proposalService    core.ProposalService

	sysversion int64
}

// NewPayee new payee. assemble builds the stores and services a
// dispatch uses over its transaction handle; walletStore is the long
// lived one feeding the output queue.
func NewPayee(
	database Database,
	system *core.System,
	propertyStore property.Store,
	walletStore core.WalletStore,
	assemble func(tx *db.DB) Deps,
) *Payee {
	return &Payee{
		db:            database,
		system:        system,
		propertyStore: propertyStore,
		walletStore:   walletStore,
		assemble:      assemble,
	}
}

// bind a copy of the payee working against one dispatch's stores
func (w *Payee) bind(d Deps) *Payee {
	p := *w
	p.userStore = d.Users
	p.walletStore = d.Wallets
	p.collateralStore = d.Collaterals
	p.vaultStore = d.Vaults
	p.auctionStore = d.Auctions
	p.treasuryStore = d.Treasuries
	p.priceStore = d.Prices
	p.oracleSignerStore = d.OracleSigners
	p.proposalStore = d.Proposals
	p.transactionStore = d.Transactions
	p.authorizationStore = d.Authorizations
	p.assetStore = d.Assets
	p.vaultz = d.Vaultz
	p.engine = d.Engine
	p.auctionz = d.Auctionz
	p.treasuryz = d.Treasuryz
	p.dexz = d.Dexz
	p.proposalService = d.Proposalz
	return &p
}

// Run run worker
func (w *Payee) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "payee")
	ctx = logger.WithContext(ctx, log)

	dur := time.Millisecond
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dur):
			if err := w.run(ctx); err == nil {
				dur = 100 * time.Millisecond
			} else {
				dur = 500 * time.Millisecond
			}
		}
	}
}

func (w *Payee) run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "payee")

	if err := w.loadSysVersion(ctx); err != nil {
		return err
	}

	v, err := w.propertyStore.Get(ctx, checkpointKey)
	if err != nil {
		log.WithError(err).Errorln("property.Get error")
		return err
	}

	outputs, err := w.walletStore.List(ctx, v.Int64(), limit)
	if err != nil {
		log.WithError(err).Errorln("walletStore.List")
		return err
	}

	if len(outputs) <= 0 {
		return errors.New("no more outputs")
	}

	for _, u := range outputs {
		if err := w.process(ctx, u); err != nil {
			return err
		}

		if err := w.propertyStore.Save(ctx, checkpointKey, u.ID); err != nil {
			log.WithError(err).Errorln("property.Save:", u.ID)
			return err
		}
	}

	return nil
}

// process dispatches one output inside its own transaction. A replay
// after a crash finds the journal row of the committed dispatch and
// skips; a dispatch that failed left no writes behind.
func (w *Payee) process(ctx context.Context, output *core.Output) error {
	return w.db.Tx(func(tx *db.DB) error {
		return w.bind(w.assemble(tx)).handleOutput(ctx, output)
	})
}

func (w *Payee) handleOutput(ctx context.Context, output *core.Output) error {
	log := logger.FromContext(ctx).
		WithField("output", output.TraceID).
		WithField("sysversion", w.sysversion)
	ctx = logger.WithContext(ctx, log)

	message := w.decodeMemo(output.Memo)

	// price transactions from the oracle group carry a bare signed
	// payload instead of an action prefix, so they are tried first
	var priceData core.PriceData
	if err := priceData.UnmarshalBinary(message); err == nil {
		return w.handlePriceEvent(ctx, output, &priceData)
	}

	if member, action, body, err := core.DecodeMemberProposalTransactionAction(message, w.system.Members); err == nil {
		return w.handleProposalAction(ctx, output, member, action, body)
	}

	if body, err := mtg.Decrypt(message, w.system.PrivateKey); err == nil {
		message = body
	}

	var action core.ActionType
	{
		var v int
		body, err := mtg.Scan(message, &v)
		if err != nil {
			log.WithError(err).Debugln("scan action failed")
			return nil
		}
		action, message = core.ActionType(v), body
	}

	if action.IsProposalAction() {
		// proposal payments decode through the member path above
		return nil
	}

	if output.Sender == "" {
		return nil
	}

	// transaction trace id as order id, different from output trace id
	var followID uuid.UUID
	if body, err := mtg.Scan(message, &followID); err == nil {
		message = body
	}

	user := core.User{
		UserID:  output.Sender,
		Address: core.BuildUserAddress(output.Sender),
	}
	if err := w.userStore.Save(ctx, &user); err != nil {
		return err
	}

	return w.handleUserAction(ctx, output, action, output.Sender, followID.String(), message)
}

func (w *Payee) handleUserAction(ctx context.Context, output *core.Output, actionType core.ActionType, userID, followID string, body []byte) error {
	log := logger.FromContext(ctx).WithField("action", actionType.String())
	ctx = logger.WithContext(ctx, log)

	// a journaled transaction marks the output as fully handled
	if tx, err := w.transactionStore.FindByTraceID(ctx, output.TraceID); err == nil && tx.ID > 0 {
		log.Debugln("skip: output already handled")
		return nil
	}

	switch actionType {
	case core.ActionTypeVaultDeposit:
		return w.handleVaultDepositEvent(ctx, output, userID, followID, body)
	case core.ActionTypeVaultAdjust:
		return w.handleVaultAdjustEvent(ctx, output, userID, followID, body)
	case core.ActionTypeVaultRepay:
		return w.handleVaultRepayEvent(ctx, output, userID, followID, body)
	case core.ActionTypeVaultTransfer:
		return w.handleVaultTransferEvent(ctx, output, userID, followID, body)
	case core.ActionTypeVaultClose:
		return w.handleVaultCloseEvent(ctx, output, userID, followID, body)
	case core.ActionTypeAuthorize:
		return w.handleAuthorizeEvent(ctx, output, userID, followID, body)
	case core.ActionTypeUnauthorize:
		return w.handleUnauthorizeEvent(ctx, output, userID, followID, body)
	case core.ActionTypeUnauthorizeAll:
		return w.handleUnauthorizeAllEvent(ctx, output, userID, followID, body)
	case core.ActionTypeAuctionBid:
		return w.handleAuctionBidEvent(ctx, output, userID, followID, body)
	case core.ActionTypeSwapToken:
		return w.handleSwapEvent(ctx, output, userID, followID, body)
	case core.ActionTypeAddLiquidity:
		return w.handleAddLiquidityEvent(ctx, output, userID, followID, body)
	case core.ActionTypeRemoveLiquidity:
		return w.handleRemoveLiquidityEvent(ctx, output, userID, followID, body)
	case core.ActionTypeRefundCollaterals:
		return w.handleRefundCollateralsEvent(ctx, output, userID, followID, body)
	default:
		return w.handleRefundEvent(ctx, output, userID, followID, core.ActionTypeRefundTransfer, core.ErrUnknown)
	}
}

func (w *Payee) journal(ctx context.Context, output *core.Output, userID, followID string, actionType core.ActionType, cs *core.ContextSnapshot) error {
	tx := core.BuildTransactionFromOutput(ctx, userID, followID, actionType, output, cs)
	if err := w.transactionStore.Create(ctx, tx); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transactions.Create")
		return err
	}

	return nil
}

func (w *Payee) decodeMemo(memo string) []byte {
	if b, err := base64.StdEncoding.DecodeString(memo); err == nil {
		return b
	}

	if b, err := base64.URLEncoding.DecodeString(memo); err == nil {
		return b
	}

	return []byte(memo)
}
