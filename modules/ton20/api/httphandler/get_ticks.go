package httphandler

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/pkg/decimals"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const percentPlaces = 4

type tickResult struct {
	Tick          string          `json:"tick"`
	Max           string          `json:"max"`
	Lim           string          `json:"lim"`
	Rest          string          `json:"rest"`
	Minted        string          `json:"minted"`
	MintedPercent decimal.Decimal `json:"mintedPercent"`
	DeployBy      string          `json:"deployBy"`
	DeployTxHash  string          `json:"deployTxHash"`
}

func mapTick(t *entity.Tick) tickResult {
	minted := new(uint256.Int).Sub(&t.Max, &t.Rest)
	return tickResult{
		Tick:          t.Tick,
		Max:           t.Max.Dec(),
		Lim:           t.Lim.Dec(),
		Rest:          t.Rest.Dec(),
		Minted:        minted.Dec(),
		MintedPercent: decimals.Percent(minted, &t.Max, percentPlaces),
		DeployBy:      t.DeployBy.String(),
		DeployTxHash:  t.DeployTxHash.String(),
	}
}

type getTicksRequest struct {
	Ticks string `query:"ticks"`
}

func (r getTicksRequest) ticks() []string {
	ticks := lo.Map(strings.Split(r.Ticks, ","), func(tick string, _ int) string { return strings.TrimSpace(tick) })
	return lo.Compact(ticks)
}

type getTicksResult struct {
	List []tickResult `json:"list"`
}

type getTicksResponse = common.HttpResponse[getTicksResult]

func (h *HttpHandler) GetTicks(ctx *fiber.Ctx) (err error) {
	var req getTicksRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	ticks, err := h.usecase.GetTicks(ctx.UserContext(), req.ticks())
	if err != nil {
		return errors.Wrap(err, "error during GetTicks")
	}

	resp := getTicksResponse{
		Result: &getTicksResult{
			List: lo.Map(ticks, func(t *entity.Tick, _ int) tickResult { return mapTick(t) }),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getTickRequest struct {
	Tick string `params:"tick"`
}

func (r *getTickRequest) Validate() error {
	var errList []error
	var err error
	if r.Tick, err = parseTick(r.Tick); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTickResponse = common.HttpResponse[tickResult]

func (h *HttpHandler) GetTick(ctx *fiber.Ctx) (err error) {
	var req getTickRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	tick, err := h.usecase.GetTick(ctx.UserContext(), req.Tick)
	if err != nil {
		return errors.Wrap(err, "error during GetTick")
	}

	resp := getTickResponse{
		Result: lo.ToPtr(mapTick(tick)),
	}
	return errors.WithStack(ctx.JSON(resp))
}
