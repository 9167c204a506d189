package engine

import "github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"

// Reason is the stable reject code stored in the audit log.
type Reason string

const (
	ReasonNone Reason = "no"

	ReasonInvalidJSON          Reason = "Json is not valid"
	ReasonTooManyTxs           Reason = "TX sended >4 times"
	ReasonNotToZero            Reason = "TX sended not to zero account"
	ReasonToZeroAfterCutover   Reason = "TX sended to zero account after change point"
	ReasonSenderNotWallet      Reason = "TX sended not in wallet"
	ReasonTickInvalid          Reason = "Tick invalid"
	ReasonTickAlreadyExists    Reason = "Already exist"
	ReasonTickTooLarge         Reason = "Tick too large"
	ReasonCantParseParams      Reason = "Can't parse params"
	ReasonCantParseAmt         Reason = "Can't parse amt"
	ReasonTickNotFound         Reason = "Tick not found"
	ReasonAmtOverLimit         Reason = "Amt > limit of tick"
	ReasonTickFull             Reason = "Tick is full"
	ReasonTickRestLessAmt      Reason = "Tick rest less amt"
	ReasonTickNotExist         Reason = "Tick not exist"
	ReasonOutOfMoney           Reason = "Out of money"
	ReasonCantParseTransferDst Reason = "Can't parse to"
)

// ReasonMissingField is the reject code for an absent payload field.
// Deploy has always used a slightly different wording.
func ReasonMissingField(op ton20.Operation, field string) Reason {
	if op == ton20.OperationDeploy {
		return Reason("Can't find: " + field)
	}
	return Reason("Can't find " + field)
}

func (r Reason) String() string {
	return string(r)
}
