package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/pkg/decimals"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type getHoldersRequest struct {
	Tick   string `params:"tick"`
	Limit  int32  `query:"limit"`
	Offset int32  `query:"offset"`
}

func (r *getHoldersRequest) Validate() error {
	errList := validatePagination(&r.Limit, &r.Offset)
	var err error
	if r.Tick, err = parseTick(r.Tick); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type holderResult struct {
	Address string          `json:"address"`
	Amount  string          `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

type getHoldersResult struct {
	Tick   string         `json:"tick"`
	Max    string         `json:"max"`
	Total  int64          `json:"total"`
	Limit  int32          `json:"limit"`
	Offset int32          `json:"offset"`
	List   []holderResult `json:"list"`
}

type getHoldersResponse = common.HttpResponse[getHoldersResult]

func (h *HttpHandler) GetHolders(ctx *fiber.Ctx) (err error) {
	var req getHoldersRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	tick, err := h.usecase.GetTick(ctx.UserContext(), req.Tick)
	if err != nil {
		return errors.Wrap(err, "error during GetTick")
	}
	holders, total, err := h.usecase.GetHolders(ctx.UserContext(), tick.Tick, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetHolders")
	}

	list := make([]holderResult, 0, len(holders))
	for _, holder := range holders {
		list = append(list, holderResult{
			Address: holder.Address.String(),
			Amount:  holder.Amount.Dec(),
			Percent: decimals.Percent(&holder.Amount, &tick.Max, percentPlaces),
		})
	}

	resp := getHoldersResponse{
		Result: &getHoldersResult{
			Tick:   tick.Tick,
			Max:    tick.Max.Dec(),
			Total:  total,
			Limit:  req.Limit,
			Offset: req.Offset,
			List:   list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
