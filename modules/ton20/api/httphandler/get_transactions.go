package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/ton20"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type transactionResult struct {
	TxHash         string  `json:"txHash"`
	Success        bool    `json:"success"`
	FailReason     string  `json:"failReason"`
	Lt             uint64  `json:"lt"`
	OpCode         *string `json:"opCode"`
	Tick           *string `json:"tick"`
	Initiator      string  `json:"initiator"`
	MintAmount     string  `json:"mintAmount"`
	TransferAmount string  `json:"transferAmount"`
	TransferTo     *string `json:"transferTo"`
	Memo           *string `json:"memo"`
}

func mapTransaction(s *entity.TransactionStatus) transactionResult {
	result := transactionResult{
		TxHash:         s.TxHash.String(),
		Success:        s.Success,
		FailReason:     s.FailReason,
		Lt:             s.Lt,
		OpCode:         s.OpCode,
		Tick:           s.Tick,
		Initiator:      s.Initiator.String(),
		MintAmount:     s.MintAmount.Dec(),
		TransferAmount: s.TransferAmount.Dec(),
		Memo:           s.Memo,
	}
	if s.TransferTo != nil {
		result.TransferTo = lo.ToPtr(s.TransferTo.String())
	}
	return result
}

type statusFilterQuery struct {
	Success string `query:"success"`
	Op      string `query:"op"`
	Limit   int32  `query:"limit"`
	Offset  int32  `query:"offset"`
}

func (q *statusFilterQuery) toFilter() (datagateway.StatusFilter, []error) {
	errList := validatePagination(&q.Limit, &q.Offset)
	success, err := parseOptionalBool("success", q.Success)
	if err != nil {
		errList = append(errList, err)
	}
	var opCode *string
	if q.Op != "" {
		if !ton20.Operation(q.Op).IsValid() {
			errList = append(errList, errors.Errorf("unsupported op %q", q.Op))
		}
		opCode = lo.ToPtr(q.Op)
	}
	return datagateway.StatusFilter{
		Success: success,
		OpCode:  opCode,
		Limit:   q.Limit,
		Offset:  q.Offset,
	}, errList
}

type getTransactionsResult struct {
	List []transactionResult `json:"list"`
}

type getTransactionsResponse = common.HttpResponse[getTransactionsResult]

func newTransactionsResponse(statuses []*entity.TransactionStatus) getTransactionsResponse {
	return getTransactionsResponse{
		Result: &getTransactionsResult{
			List: lo.Map(statuses, func(s *entity.TransactionStatus, _ int) transactionResult { return mapTransaction(s) }),
		},
	}
}

type getTransactionsByInitiatorRequest struct {
	Address string `params:"address"`

	query   statusFilterQuery
	address types.Address
	filter  datagateway.StatusFilter
}

func (r *getTransactionsByInitiatorRequest) Validate() error {
	var errList []error
	var err error
	if r.address, err = parseAddress(r.Address); err != nil {
		errList = append(errList, err)
	}
	filter, filterErrs := r.query.toFilter()
	r.filter = filter
	errList = append(errList, filterErrs...)
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) GetTransactionsByInitiator(ctx *fiber.Ctx) (err error) {
	var req getTransactionsByInitiatorRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req.query); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	statuses, err := h.usecase.GetTransactionStatusesByInitiator(ctx.UserContext(), req.address, req.filter)
	if err != nil {
		return errors.Wrap(err, "error during GetTransactionStatusesByInitiator")
	}
	return errors.WithStack(ctx.JSON(newTransactionsResponse(statuses)))
}

type getTransactionsByTickRequest struct {
	Tick string `params:"tick"`

	query  statusFilterQuery
	filter datagateway.StatusFilter
}

func (r *getTransactionsByTickRequest) Validate() error {
	var errList []error
	var err error
	if r.Tick, err = parseTick(r.Tick); err != nil {
		errList = append(errList, err)
	}
	filter, filterErrs := r.query.toFilter()
	r.filter = filter
	errList = append(errList, filterErrs...)
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (h *HttpHandler) GetTransactionsByTick(ctx *fiber.Ctx) (err error) {
	var req getTransactionsByTickRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req.query); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	statuses, err := h.usecase.GetTransactionStatusesByTick(ctx.UserContext(), req.Tick, req.filter)
	if err != nil {
		return errors.Wrap(err, "error during GetTransactionStatusesByTick")
	}
	return errors.WithStack(ctx.JSON(newTransactionsResponse(statuses)))
}

type getTransactionRequest struct {
	Hash string `params:"hash"`

	hash types.Hash
}

func (r *getTransactionRequest) Validate() error {
	var errList []error
	hash, err := types.ParseHash(r.Hash)
	if err != nil {
		errList = append(errList, errors.Errorf("invalid hash %q", r.Hash))
	}
	r.hash = hash
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTransactionResponse = common.HttpResponse[transactionResult]

func (h *HttpHandler) GetTransaction(ctx *fiber.Ctx) (err error) {
	var req getTransactionRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	status, err := h.usecase.GetTransactionStatus(ctx.UserContext(), req.hash)
	if err != nil {
		return errors.Wrap(err, "error during GetTransactionStatus")
	}
	return errors.WithStack(ctx.JSON(getTransactionResponse{Result: lo.ToPtr(mapTransaction(status))}))
}
