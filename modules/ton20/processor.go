package ton20

import (
	"context"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/indexer"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/engine"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ledger"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/snapshot"
	"github.com/gaze-network/ton20-indexer/pkg/logger"
	"github.com/gaze-network/ton20-indexer/pkg/logger/slogx"
)

// Make sure to implement the TON transaction Processor interface
var _ indexer.Processor[*types.Transaction] = (*Processor)(nil)

const DefaultCommitStateEachXTxs = 100_000

// Classifier is the account classifier used by the engine, with page prefetching.
type Classifier interface {
	engine.Classifier
	Prefetch(ctx context.Context, addrs []types.Address)
}

// Archiver receives every committed snapshot with the audit batch committed alongside it.
type Archiver interface {
	Archive(ctx context.Context, snapshot *entity.Snapshot, statuses []*entity.TransactionStatus) error
}

type ProcessorOptions struct {
	CommitStateEachXTxs int
	LegacyOracle        engine.LegacyOracle
	// Archiver is optional.
	Archiver Archiver
}

type Processor struct {
	ton20Dg       datagateway.TON20DataGateway
	indexerInfoDg datagateway.IndexerInfoDataGateway
	classifier    Classifier
	archiver      Archiver
	cleanupFuncs  []func(context.Context) error

	store       *ledger.Store
	engine      *engine.Engine
	commitEvery int

	// replay states
	watermark types.Watermark
	skipping  bool
	lastTx    *types.Transaction
}

func NewProcessor(ton20Dg datagateway.TON20DataGateway, indexerInfoDg datagateway.IndexerInfoDataGateway, classifier Classifier, opts ProcessorOptions, cleanupFuncs []func(context.Context) error) (*Processor, error) {
	if opts.LegacyOracle == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "legacy oracle is required")
	}
	if opts.CommitStateEachXTxs < 0 {
		return nil, errors.Wrapf(errs.InvalidArgument, "commit interval must be positive, got %d", opts.CommitStateEachXTxs)
	}
	store := ledger.New()
	return &Processor{
		ton20Dg:       ton20Dg,
		indexerInfoDg: indexerInfoDg,
		classifier:    classifier,
		archiver:      opts.Archiver,
		cleanupFuncs:  cleanupFuncs,

		store:       store,
		engine:      engine.New(store, classifier, opts.LegacyOracle),
		commitEvery: utils.Default(opts.CommitStateEachXTxs, DefaultCommitStateEachXTxs),
	}, nil
}

// VerifyStates checks that the database was written by a compatible build.
func (p *Processor) VerifyStates(ctx context.Context) error {
	indexerState, err := p.indexerInfoDg.GetLatestIndexerState(ctx)
	if err != nil && !errors.Is(err, errs.NotFound) {
		return errors.Wrap(err, "failed to get latest indexer state")
	}
	// if not found, create indexer state
	if errors.Is(err, errs.NotFound) {
		if err := p.createIndexerState(ctx); err != nil {
			return errors.WithStack(err)
		}
		return nil
	}
	if indexerState.DBVersion != DBVersion {
		return errors.Wrapf(errs.ConflictSetting, "db version mismatch: current version is %d. Please upgrade to version %d", indexerState.DBVersion, DBVersion)
	}
	if indexerState.SnapshotVersion != SnapshotVersion {
		return errors.Wrapf(errs.ConflictSetting, "snapshot version mismatch: current version is %d, this build writes version %d. Please reset ton20's db first.", indexerState.SnapshotVersion, SnapshotVersion)
	}
	if indexerState.ClientVersion != ClientVersion {
		logger.InfoContext(ctx, "Indexer client version changed",
			slogx.String("from", indexerState.ClientVersion),
			slogx.String("to", ClientVersion),
		)
		if err := p.createIndexerState(ctx); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (p *Processor) createIndexerState(ctx context.Context) error {
	if err := p.indexerInfoDg.CreateIndexerState(ctx, entity.IndexerState{
		ClientVersion:   ClientVersion,
		DBVersion:       DBVersion,
		SnapshotVersion: SnapshotVersion,
	}); err != nil {
		return errors.Wrap(err, "failed to set indexer state")
	}
	return nil
}

// Name implements indexer.Processor.
func (p *Processor) Name() string {
	return "ton20"
}

// Watermark returns the position of the last committed transaction.
func (p *Processor) Watermark() types.Watermark {
	return p.watermark
}

// Recover implements indexer.Processor. It loads the latest snapshot into the
// ledger, rewrites the ledger tables to match it and returns the cursor replay
// starts from.
func (p *Processor) Recover(ctx context.Context) (types.Cursor, error) {
	state := &snapshot.State{}
	latest, err := p.ton20Dg.GetLatestSnapshot(ctx)
	switch {
	case errors.Is(err, errs.NotFound):
		logger.InfoContext(ctx, "No snapshot found, indexing from the beginning")
	case err != nil:
		return types.Cursor{}, errors.Wrap(err, "failed to get latest snapshot")
	default:
		state, err = decodeSnapshot(latest)
		if err != nil {
			return types.Cursor{}, errors.WithStack(err)
		}
	}

	if err := state.Load(p.store); err != nil {
		return types.Cursor{}, errors.Wrap(err, "failed to load snapshot into ledger")
	}
	p.store.MarkAllDirty()
	if err := p.resetLedgerTables(ctx); err != nil {
		return types.Cursor{}, errors.WithStack(err)
	}

	p.lastTx = nil
	p.engine.Committed()
	var window []byte
	if latest != nil {
		window = latest.Admission
	}
	if err := p.engine.RestoreWindow(window); err != nil {
		return types.Cursor{}, errors.Wrap(err, "failed to restore spam window")
	}
	if latest == nil {
		p.watermark = types.Watermark{}
		p.skipping = false
		return types.Cursor{}, nil
	}

	p.watermark = latest.Watermark()
	p.skipping = true
	p.engine.Resume(types.Position{Lt: latest.Lt, Hash: latest.TxHash})
	logger.InfoContext(ctx, "Recovered ledger from snapshot",
		slogx.Uint64("lt", latest.Lt),
		slogx.Stringer("tx_hash", latest.TxHash),
		slogx.Stringer("state_hash", latest.StateHash),
		slogx.Int("ticks", len(state.Ticks)),
		slogx.Int("wallets", state.WalletCount()),
	)
	return types.Cursor{Lt: latest.Lt}, nil
}

func decodeSnapshot(latest *entity.Snapshot) (*snapshot.State, error) {
	state, hash, err := snapshot.Decode(latest.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode snapshot %s", latest.StateHash)
	}
	if hash != latest.StateHash {
		return nil, errors.Wrapf(errs.CodecError, "snapshot content hash %s doesn't match stored hash %s", hash, latest.StateHash)
	}
	if state.LastTxLt != latest.Lt || state.LastTxHash != latest.TxHash {
		return nil, errors.Wrapf(errs.CodecError, "snapshot header %d/%s doesn't match stored watermark %d/%s",
			state.LastTxLt, state.LastTxHash, latest.Lt, latest.TxHash)
	}
	return state, nil
}

func (p *Processor) resetLedgerTables(ctx context.Context) error {
	ton20DgTx, err := p.ton20Dg.BeginTON20Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := ton20DgTx.Rollback(ctx); err != nil {
			logger.WarnContext(ctx, "failed to rollback transaction",
				slogx.Error(err),
				slogx.String("event", "rollback_ton20_ledger_reset"),
			)
		}
	}()

	if err := ton20DgTx.ResetLedger(ctx); err != nil {
		return errors.Wrap(err, "failed to reset ledger tables")
	}
	if err := p.store.Flush(ctx, ton20DgTx); err != nil {
		return errors.Wrap(err, "failed to write snapshot ledger")
	}
	if err := ton20DgTx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// Shutdown implements indexer.Processor. Pending transactions are committed first.
func (p *Processor) Shutdown(ctx context.Context) error {
	var errList []error
	if err := p.commit(ctx); err != nil {
		errList = append(errList, errors.Wrap(err, "failed to commit pending transactions"))
	}
	for _, cleanup := range p.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			errList = append(errList, err)
		}
	}
	return errors.WithStack(errors.Join(errList...))
}
