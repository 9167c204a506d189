package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type walletResult struct {
	Tick       string `json:"tick"`
	Address    string `json:"address"`
	Amount     string `json:"amount"`
	LastTxHash string `json:"lastTxHash"`
}

func mapWallet(w *entity.Wallet) walletResult {
	return walletResult{
		Tick:       w.Tick,
		Address:    w.Address.String(),
		Amount:     w.Amount.Dec(),
		LastTxHash: w.LastTxHash.String(),
	}
}

type getWalletsRequest struct {
	Address string `params:"address"`

	address types.Address
}

func (r *getWalletsRequest) Validate() error {
	var errList []error
	addr, err := parseAddress(r.Address)
	if err != nil {
		errList = append(errList, err)
	}
	r.address = addr
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getWalletsResult struct {
	Address string         `json:"address"`
	List    []walletResult `json:"list"`
}

type getWalletsResponse = common.HttpResponse[getWalletsResult]

func (h *HttpHandler) GetWallets(ctx *fiber.Ctx) (err error) {
	var req getWalletsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	wallets, err := h.usecase.GetWalletsByAddress(ctx.UserContext(), req.address)
	if err != nil {
		return errors.Wrap(err, "error during GetWalletsByAddress")
	}

	resp := getWalletsResponse{
		Result: &getWalletsResult{
			Address: req.address.String(),
			List:    lo.Map(wallets, func(w *entity.Wallet, _ int) walletResult { return mapWallet(w) }),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}

type getWalletRequest struct {
	Address string `params:"address"`
	Tick    string `params:"tick"`

	address types.Address
}

func (r *getWalletRequest) Validate() error {
	var errList []error
	addr, err := parseAddress(r.Address)
	if err != nil {
		errList = append(errList, err)
	}
	r.address = addr
	if r.Tick, err = parseTick(r.Tick); err != nil {
		errList = append(errList, err)
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getWalletResponse = common.HttpResponse[walletResult]

func (h *HttpHandler) GetWallet(ctx *fiber.Ctx) (err error) {
	var req getWalletRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	wallet, err := h.usecase.GetWallet(ctx.UserContext(), req.Tick, req.address)
	if err != nil {
		return errors.Wrap(err, "error during GetWallet")
	}

	resp := getWalletResponse{
		Result: lo.ToPtr(mapWallet(wallet)),
	}
	return errors.WithStack(ctx.JSON(resp))
}
