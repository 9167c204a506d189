// Package engine applies TON-20 admission and operation rules to an ordered
// stream of transactions.
package engine

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ledger"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
)

const (
	// CutoverTime is the unix time at which the zero-address target rule was inverted.
	CutoverTime int64 = 1701955800

	// SpamWindowLt is the width of the lt bucket transactions of one sender are grouped by.
	SpamWindowLt uint64 = 1_000_000

	// MaxTxsPerWindow is the number of transactions of one sender accepted per bucket.
	MaxTxsPerWindow = 4
)

// Classifier tells whether an address is a deployed wallet contract.
type Classifier interface {
	IsWallet(ctx context.Context, addr types.Address) (bool, error)
}

// LegacyOracle approves transactions sent to the zero address before the cutover
// by senders that are not wallet contracts.
type LegacyOracle interface {
	IsEligible(txHash types.Hash) bool
}

type Outcome struct {
	Accepted bool
	Reason   Reason
}

func accept() Outcome {
	return Outcome{Accepted: true, Reason: ReasonNone}
}

func reject(reason Reason) Outcome {
	return Outcome{Reason: reason}
}

type spamKey struct {
	sender types.Address
	bucket uint64
	txHash types.Hash // set for legacy transactions, which are grouped per transaction
}

type Engine struct {
	store      *ledger.Store
	classifier Classifier
	oracle     LegacyOracle

	last        *types.Position
	spam        map[spamKey]int
	statuses    []*entity.TransactionStatus
	uncommitted int
	sinceReset  int
}

func New(store *ledger.Store, classifier Classifier, oracle LegacyOracle) *Engine {
	return &Engine{
		store:      store,
		classifier: classifier,
		oracle:     oracle,
		spam:       make(map[spamKey]int),
	}
}

// AddTransaction evaluates one transaction. Transactions must arrive in
// strictly increasing (lt, hash) order. Protocol rejections are reported in
// the Outcome; an error means the engine can't continue.
func (e *Engine) AddTransaction(ctx context.Context, tx *types.Transaction) (Outcome, error) {
	pos := tx.Position()
	if e.last != nil && pos.Compare(*e.last) <= 0 {
		return Outcome{}, errors.Wrapf(errs.OrderingViolation, "transaction %s is not after %s", pos, *e.last)
	}

	outcome, admitted, err := e.evaluate(ctx, tx)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "failed to evaluate transaction %s", tx.Hash)
	}

	e.last = &pos
	e.statuses = append(e.statuses, newTransactionStatus(tx, admitted, outcome))
	e.uncommitted++
	e.sinceReset++
	return outcome, nil
}

func (e *Engine) evaluate(ctx context.Context, tx *types.Transaction) (outcome Outcome, admitted bool, err error) {
	payload, err := ton20.Parse(tx.Comment)
	if err != nil {
		return reject(ReasonInvalidJSON), false, nil
	}

	outcome, err = e.admit(ctx, tx, payload)
	if err != nil || !outcome.Accepted {
		return outcome, false, errors.WithStack(err)
	}

	switch p := payload.(type) {
	case ton20.Deploy:
		outcome, err = e.deploy(tx, p)
	case ton20.Mint:
		outcome, err = e.mint(tx, p)
	case ton20.Transfer:
		outcome, err = e.transfer(tx, p)
	default:
		return Outcome{}, false, errors.Wrapf(errs.Unsupported, "payload %T", payload)
	}
	return outcome, true, errors.WithStack(err)
}

// admit applies the spam limit and the target address rules.
func (e *Engine) admit(ctx context.Context, tx *types.Transaction, payload ton20.Payload) (Outcome, error) {
	toZero := tx.Destination.IsZero()
	beforeCutover := tx.CreatedAt < CutoverTime
	key := spamKey{sender: tx.Sender, bucket: tx.Lt - tx.Lt%SpamWindowLt}

	if beforeCutover && toZero {
		isWallet, err := e.classifier.IsWallet(ctx, tx.Sender)
		if err != nil {
			return Outcome{}, errors.Wrap(err, "failed to classify sender")
		}
		if !isWallet {
			if !e.oracle.IsEligible(tx.Hash) {
				return reject(ReasonTooManyTxs), nil
			}
			key = spamKey{sender: tx.Sender, txHash: tx.Hash}
		}
	}

	e.spam[key]++
	if e.spam[key] > MaxTxsPerWindow {
		return reject(ReasonTooManyTxs), nil
	}

	switch {
	case beforeCutover:
		if !toZero {
			return reject(ReasonNotToZero), nil
		}
	case tx.CreatedAt > CutoverTime:
		if toZero {
			return reject(ReasonToZeroAfterCutover), nil
		}
		if payload.Operation() != ton20.OperationTransfer {
			isWallet, err := e.classifier.IsWallet(ctx, tx.Sender)
			if err != nil {
				return Outcome{}, errors.Wrap(err, "failed to classify sender")
			}
			if !isWallet {
				return reject(ReasonSenderNotWallet), nil
			}
		}
	}
	return accept(), nil
}

// Uncommitted is the number of transactions evaluated since the last commit.
func (e *Engine) Uncommitted() int {
	return e.uncommitted
}

// Statuses returns the audit records evaluated since the last commit.
func (e *Engine) Statuses() []*entity.TransactionStatus {
	return e.statuses
}

// Last returns the position of the last evaluated transaction, or nil.
func (e *Engine) Last() *types.Position {
	return e.last
}

// Committed forgets the audit records of the last commit. The spam window is kept.
func (e *Engine) Committed() {
	e.uncommitted = 0
	e.statuses = nil
}

// Resume makes pos the position every next transaction must come after.
func (e *Engine) Resume(pos types.Position) {
	e.last = &pos
}
