package httphandler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/datagateway"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/usecase"
	"github.com/gaze-network/ton20-indexer/pkg/errorhandler"
	"github.com/gofiber/fiber/v2"
	"github.com/holiman/uint256"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	datagateway.TON20ReaderDataGateway

	ticks        map[string]*entity.Tick
	wallets      []*entity.Wallet
	statuses     []*entity.TransactionStatus
	snapshot     *entity.Snapshot
	lastFilter   datagateway.StatusFilter
	lastTickArgs []string
}

func (f *fakeReader) GetTick(_ context.Context, tick string) (*entity.Tick, error) {
	t, ok := f.ticks[tick]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return t, nil
}

func (f *fakeReader) GetTicks(_ context.Context, ticks []string) ([]*entity.Tick, error) {
	f.lastTickArgs = ticks
	return lo.Values(f.ticks), nil
}

func (f *fakeReader) GetWallet(_ context.Context, tick string, addr types.Address) (*entity.Wallet, error) {
	for _, w := range f.wallets {
		if w.Tick == tick && w.Address == addr {
			return w, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (f *fakeReader) GetWalletsByAddress(_ context.Context, addr types.Address) ([]*entity.Wallet, error) {
	return lo.Filter(f.wallets, func(w *entity.Wallet, _ int) bool { return w.Address == addr }), nil
}

func (f *fakeReader) GetHoldersByTick(_ context.Context, tick string, limit, offset int32) ([]*entity.Wallet, error) {
	return lo.Filter(f.wallets, func(w *entity.Wallet, _ int) bool { return w.Tick == tick }), nil
}

func (f *fakeReader) CountHoldersByTick(_ context.Context, tick string) (int64, error) {
	return int64(lo.CountBy(f.wallets, func(w *entity.Wallet) bool { return w.Tick == tick })), nil
}

func (f *fakeReader) GetTransactionStatus(_ context.Context, txHash types.Hash) (*entity.TransactionStatus, error) {
	for _, s := range f.statuses {
		if s.TxHash == txHash {
			return s, nil
		}
	}
	return nil, errors.WithStack(errs.NotFound)
}

func (f *fakeReader) GetTransactionStatusesByInitiator(_ context.Context, addr types.Address, filter datagateway.StatusFilter) ([]*entity.TransactionStatus, error) {
	f.lastFilter = filter
	return f.statuses, nil
}

func (f *fakeReader) GetTransactionStatusesByTick(_ context.Context, tick string, filter datagateway.StatusFilter) ([]*entity.TransactionStatus, error) {
	f.lastFilter = filter
	return f.statuses, nil
}

func (f *fakeReader) GetLatestSnapshot(context.Context) (*entity.Snapshot, error) {
	if f.snapshot == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return f.snapshot, nil
}

const holderAddress = "0:0000000000000000000000000000000000000000000000000000000000000002"

func setup(t *testing.T) (*fiber.App, *fakeReader) {
	t.Helper()
	holder := types.Address{}
	holder.Account[31] = 2
	reader := &fakeReader{
		ticks: map[string]*entity.Tick{
			"gram": {Tick: "gram", Max: *uint256.NewInt(1000), Lim: *uint256.NewInt(100), Rest: *uint256.NewInt(750)},
		},
		wallets: []*entity.Wallet{
			{Tick: "gram", Address: holder, Amount: *uint256.NewInt(250)},
		},
		statuses: []*entity.TransactionStatus{
			{TxHash: types.Hash{1}, Success: true, FailReason: "no", Lt: 5, OpCode: lo.ToPtr("mint"), Tick: lo.ToPtr("gram"), Initiator: holder, MintAmount: *uint256.NewInt(250)},
		},
		snapshot: &entity.Snapshot{StateHash: types.Hash{9}, Lt: 5, TxHash: types.Hash{1}, Data: []byte{1, 2, 3}},
	}
	app := fiber.New(fiber.Config{ErrorHandler: errorhandler.NewHTTPErrorHandler()})
	require.NoError(t, New(usecase.New(reader)).Mount(app))
	return app, reader
}

func get(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestStatusCodes(t *testing.T) {
	app, _ := setup(t)
	testcases := []struct {
		name string
		path string
		code int
	}{
		{"wallets", "/v1/ton20/wallets/" + holderAddress, http.StatusOK},
		{"wallets invalid address", "/v1/ton20/wallets/nope", http.StatusBadRequest},
		{"wallet", "/v1/ton20/wallets/" + holderAddress + "/GRAM", http.StatusOK},
		{"wallet not found", "/v1/ton20/wallets/" + holderAddress + "/none", http.StatusNotFound},
		{"ticks", "/v1/ton20/ticks", http.StatusOK},
		{"tick", "/v1/ton20/ticks/gram", http.StatusOK},
		{"tick not found", "/v1/ton20/ticks/none", http.StatusNotFound},
		{"holders", "/v1/ton20/ticks/gram/holders?limit=10", http.StatusOK},
		{"holders bad limit", "/v1/ton20/ticks/gram/holders?limit=5000", http.StatusBadRequest},
		{"by initiator", "/v1/ton20/transactions/initiator/" + holderAddress + "?success=true&op=mint", http.StatusOK},
		{"by initiator bad op", "/v1/ton20/transactions/initiator/" + holderAddress + "?op=burn", http.StatusBadRequest},
		{"by initiator bad success", "/v1/ton20/transactions/initiator/" + holderAddress + "?success=maybe", http.StatusBadRequest},
		{"by tick", "/v1/ton20/transactions/tick/gram", http.StatusOK},
		{"by hash", "/v1/ton20/transactions/hash/" + types.Hash{1}.String(), http.StatusOK},
		{"by hash invalid", "/v1/ton20/transactions/hash/xyz", http.StatusBadRequest},
		{"by hash not found", "/v1/ton20/transactions/hash/" + types.Hash{2}.String(), http.StatusNotFound},
		{"snapshot", "/v1/ton20/snapshots/latest", http.StatusOK},
		{"snapshot raw", "/v1/ton20/snapshots/latest/raw", http.StatusOK},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := get(t, app, tc.path)
			assert.Equal(t, tc.code, code, string(body))
		})
	}
}

func TestGetTick(t *testing.T) {
	app, _ := setup(t)
	code, body := get(t, app, "/v1/ton20/ticks/gram")
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Result tickResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "250", resp.Result.Minted)
	assert.Equal(t, "25", resp.Result.MintedPercent.String())
}

func TestGetHolders(t *testing.T) {
	app, _ := setup(t)
	code, body := get(t, app, "/v1/ton20/ticks/gram/holders")
	require.Equal(t, http.StatusOK, code)

	var resp struct {
		Result getHoldersResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.EqualValues(t, 1, resp.Result.Total)
	assert.EqualValues(t, defaultLimit, resp.Result.Limit)
	require.Len(t, resp.Result.List, 1)
	assert.Equal(t, holderAddress, resp.Result.List[0].Address)
	assert.Equal(t, "25", resp.Result.List[0].Percent.String())
}

func TestTransactionFilter(t *testing.T) {
	app, reader := setup(t)
	code, _ := get(t, app, "/v1/ton20/transactions/tick/gram?success=false&op=transfer&limit=5&offset=10")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, datagateway.StatusFilter{
		Success: lo.ToPtr(false),
		OpCode:  lo.ToPtr("transfer"),
		Limit:   5,
		Offset:  10,
	}, reader.lastFilter)
}

func TestGetTicksFilter(t *testing.T) {
	app, reader := setup(t)
	code, _ := get(t, app, "/v1/ton20/ticks?ticks=GRAM,%20nano,,gram")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"gram", "nano"}, reader.lastTickArgs)
}

func TestGetLatestSnapshotRaw(t *testing.T) {
	app, _ := setup(t)
	code, body := get(t, app, "/v1/ton20/snapshots/latest/raw")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []byte{1, 2, 3}, body)
}
