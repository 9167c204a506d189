package ton20

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/pkg/tonaddr"
	"github.com/holiman/uint256"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	Protocol = "ton-20"

	// MaxTickBytes is the widest tick that fits the snapshot's 256-bit dictionary key.
	MaxTickBytes = 32
)

var (
	ErrInvalidComment   = errors.New("comment is not a json object")
	ErrInvalidProtocol  = errors.New("invalid protocol: must be 'ton-20'")
	ErrInvalidOperation = errors.New("invalid operation for ton-20: must be one of 'deploy', 'mint', or 'transfer'")
)

// FieldStatus is the outcome of extracting one payload field.
type FieldStatus uint8

const (
	FieldOK FieldStatus = iota
	FieldMissing
	FieldNotString
	FieldInvalid
)

type TickField struct {
	Value  string // lower-cased
	Status FieldStatus
}

// Encodable reports whether the tick survives the numeric key encoding of the
// snapshot and can be stored as text. NUL is rejected anywhere in the tick.
func (f TickField) Encodable() bool {
	return f.Status == FieldOK && f.Value != "" && !strings.ContainsRune(f.Value, 0)
}

func (f TickField) TooLarge() bool {
	return len(f.Value) > MaxTickBytes
}

type AmountField struct {
	Value  uint256.Int
	Status FieldStatus
}

type AddressField struct {
	Value  types.Address
	Status FieldStatus
}

// Payload is one of Deploy, Mint or Transfer.
type Payload interface {
	Operation() Operation
	payload()
}

type Deploy struct {
	Tick TickField
	Max  AmountField
	Lim  AmountField
}

type Mint struct {
	Tick TickField
	Amt  AmountField
}

type Transfer struct {
	Tick TickField
	To   AddressField
	Amt  AmountField
}

func (Deploy) Operation() Operation   { return OperationDeploy }
func (Mint) Operation() Operation     { return OperationMint }
func (Transfer) Operation() Operation { return OperationTransfer }

func (Deploy) payload()   {}
func (Mint) payload()     {}
func (Transfer) payload() {}

// Parse validates the protocol envelope of a decoded comment and extracts the
// operation fields. Field problems never fail the parse; they are reported
// per field so the operation handlers can pick the matching reject reason.
func Parse(comment map[string]any) (Payload, error) {
	if comment == nil {
		return nil, errors.WithStack(ErrInvalidComment)
	}
	if p, ok := comment["p"].(string); !ok || p != Protocol {
		return nil, errors.WithStack(ErrInvalidProtocol)
	}
	op, ok := comment["op"].(string)
	if !ok || !Operation(op).IsValid() {
		return nil, errors.WithStack(ErrInvalidOperation)
	}

	switch Operation(op) {
	case OperationDeploy:
		return Deploy{
			Tick: parseTick(comment),
			Max:  parseAmount(comment, "max"),
			Lim:  parseAmount(comment, "lim"),
		}, nil
	case OperationMint:
		return Mint{
			Tick: parseTick(comment),
			Amt:  parseAmount(comment, "amt"),
		}, nil
	default:
		return Transfer{
			Tick: parseTick(comment),
			To:   parseAddress(comment, "to"),
			Amt:  parseAmount(comment, "amt"),
		}, nil
	}
}

// NormalizeTick lower-cases a tick with full Unicode case mapping.
func NormalizeTick(tick string) string {
	return cases.Lower(language.Und).String(tick)
}

func parseTick(comment map[string]any) TickField {
	raw, ok := comment["tick"]
	if !ok {
		return TickField{Status: FieldMissing}
	}
	s, ok := raw.(string)
	if !ok {
		return TickField{Status: FieldNotString}
	}
	return TickField{Value: NormalizeTick(s)}
}

func parseAmount(comment map[string]any, key string) AmountField {
	raw, ok := comment[key]
	if !ok {
		return AmountField{Status: FieldMissing}
	}
	s, ok := raw.(string)
	if !ok {
		return AmountField{Status: FieldNotString}
	}
	v, ok := ParseAmount(s)
	if !ok {
		return AmountField{Status: FieldInvalid}
	}
	return AmountField{Value: v}
}

func parseAddress(comment map[string]any, key string) AddressField {
	raw, ok := comment[key]
	if !ok {
		return AddressField{Status: FieldMissing}
	}
	s, ok := raw.(string)
	if !ok {
		return AddressField{Status: FieldNotString}
	}
	addr, err := tonaddr.Normalize(s)
	if err != nil {
		return AddressField{Status: FieldInvalid}
	}
	return AddressField{Value: addr}
}
