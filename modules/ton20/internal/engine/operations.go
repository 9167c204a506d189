package engine

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
)

func (e *Engine) deploy(tx *types.Transaction, p ton20.Deploy) (Outcome, error) {
	if p.Tick.Status == ton20.FieldMissing {
		return reject(ReasonMissingField(ton20.OperationDeploy, "tick")), nil
	}
	if p.Max.Status == ton20.FieldMissing {
		return reject(ReasonMissingField(ton20.OperationDeploy, "max")), nil
	}
	if p.Lim.Status == ton20.FieldMissing {
		return reject(ReasonMissingField(ton20.OperationDeploy, "lim")), nil
	}
	if !p.Tick.Encodable() {
		return reject(ReasonTickInvalid), nil
	}
	if _, ok := e.store.Tick(p.Tick.Value); ok {
		return reject(ReasonTickAlreadyExists), nil
	}
	if p.Tick.TooLarge() {
		return reject(ReasonTickTooLarge), nil
	}
	if p.Max.Status != ton20.FieldOK || p.Lim.Status != ton20.FieldOK {
		return reject(ReasonCantParseParams), nil
	}

	err := e.store.Deploy(&entity.Tick{
		Tick:         p.Tick.Value,
		Max:          p.Max.Value,
		Lim:          p.Lim.Value,
		Rest:         p.Max.Value,
		DeployBy:     tx.Sender,
		DeployTxHash: tx.Hash,
	})
	if err != nil {
		return Outcome{}, errors.Wrap(errs.InternalError, err.Error())
	}
	return accept(), nil
}

func (e *Engine) mint(tx *types.Transaction, p ton20.Mint) (Outcome, error) {
	if p.Tick.Status == ton20.FieldMissing {
		return reject(ReasonMissingField(ton20.OperationMint, "tick")), nil
	}
	if p.Amt.Status == ton20.FieldMissing {
		return reject(ReasonMissingField(ton20.OperationMint, "amt")), nil
	}
	if p.Tick.Status != ton20.FieldOK {
		return reject(ReasonTickInvalid), nil
	}
	if p.Amt.Status != ton20.FieldOK {
		return reject(ReasonCantParseAmt), nil
	}
	tick, ok := e.store.Tick(p.Tick.Value)
	if !ok {
		return reject(ReasonTickNotFound), nil
	}
	amt := p.Amt.Value
	if amt.Gt(&tick.Lim) {
		return reject(ReasonAmtOverLimit), nil
	}
	if tick.Rest.IsZero() {
		return reject(ReasonTickFull), nil
	}
	if amt.Gt(&tick.Rest) {
		return reject(ReasonTickRestLessAmt), nil
	}

	if err := e.store.Mint(tick.Tick, tx.Sender, &amt, tx.Hash); err != nil {
		return Outcome{}, errors.Wrap(errs.InternalError, err.Error())
	}
	return accept(), nil
}

func (e *Engine) transfer(tx *types.Transaction, p ton20.Transfer) (Outcome, error) {
	for _, f := range []struct {
		name   string
		status ton20.FieldStatus
	}{
		{"tick", p.Tick.Status},
		{"to", p.To.Status},
		{"amt", p.Amt.Status},
	} {
		if f.status == ton20.FieldMissing || f.status == ton20.FieldNotString {
			return reject(ReasonMissingField(ton20.OperationTransfer, f.name)), nil
		}
	}
	tick, ok := e.store.Tick(p.Tick.Value)
	if !ok {
		return reject(ReasonTickNotExist), nil
	}
	if p.Amt.Status != ton20.FieldOK {
		return reject(ReasonCantParseAmt), nil
	}
	amt := p.Amt.Value
	wallet, ok := e.store.Wallet(tick.Tick, tx.Sender)
	if !ok || wallet.Amount.Lt(&amt) {
		return reject(ReasonOutOfMoney), nil
	}
	if p.To.Status != ton20.FieldOK {
		return reject(ReasonCantParseTransferDst), nil
	}

	if err := e.store.Transfer(tick.Tick, tx.Sender, p.To.Value, &amt, tx.Hash); err != nil {
		return Outcome{}, errors.Wrap(errs.InternalError, err.Error())
	}
	return accept(), nil
}
