package archive

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/core/types"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/pkg/parquetutils"
	"github.com/holiman/uint256"
	"github.com/klauspost/compress/gzip"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploaded struct {
	key  string
	body []byte
	meta map[string]string
}

type fakeUploader struct {
	objects []uploaded
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.objects = append(f.objects, uploaded{key: aws.ToString(input.Key), body: body, meta: input.Metadata})
	return &manager.UploadOutput{}, nil
}

func testStatuses() []*entity.TransactionStatus {
	to := types.Address{Workchain: -1}
	return []*entity.TransactionStatus{
		{TxHash: types.Hash{1}, Success: true, FailReason: "no", Lt: 7, OpCode: lo.ToPtr("mint"), Tick: lo.ToPtr("gram"), MintAmount: *uint256.NewInt(100), Memo: lo.ToPtr("")},
		{TxHash: types.Hash{2}, FailReason: "Out of money", Lt: 8, OpCode: lo.ToPtr("transfer"), Tick: lo.ToPtr("gram"), TransferAmount: *uint256.NewInt(5), TransferTo: &to, Memo: lo.ToPtr("gift")},
		{TxHash: types.Hash{3}, FailReason: "Json is not valid", Lt: 9},
	}
}

func TestArchive(t *testing.T) {
	uploader := &fakeUploader{}
	archiver := NewWithUploader(uploader, "bucket", "ton20")
	snapshot := &entity.Snapshot{StateHash: types.Hash{0xaa}, Lt: 9, TxHash: types.Hash{3}, Data: []byte("state bytes")}

	require.NoError(t, archiver.Archive(context.Background(), snapshot, testStatuses()))
	require.Len(t, uploader.objects, 2)

	snap := uploader.objects[0]
	assert.Equal(t, "ton20/snapshots/00000000000000000009_"+types.Hash{3}.String()+".bin.gz", snap.key)
	assert.Equal(t, snapshot.StateHash.String(), snap.meta["state-hash"])
	zr, err := gzip.NewReader(bytes.NewReader(snap.body))
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Data, raw)

	assert.Equal(t, "ton20/statuses/00000000000000000009_"+types.Hash{3}.String()+".parquet", uploader.objects[1].key)
}

func TestArchiveWithoutStatuses(t *testing.T) {
	uploader := &fakeUploader{}
	archiver := NewWithUploader(uploader, "bucket", "")
	require.NoError(t, archiver.Archive(context.Background(), &entity.Snapshot{Data: []byte{1}}, nil))
	assert.Len(t, uploader.objects, 1)
}

func TestArchiveUploadError(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("denied")}
	archiver := NewWithUploader(uploader, "bucket", "")
	err := archiver.Archive(context.Background(), &entity.Snapshot{Data: []byte{1}}, testStatuses())
	assert.ErrorContains(t, err, "denied")
}

func TestEncodeStatuses(t *testing.T) {
	data, err := EncodeStatuses(testStatuses())
	require.NoError(t, err)

	records, err := parquetutils.ReadAll[StatusRecord](parquetutils.NewBufferFrom(data))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, types.Hash{1}.String(), records[0].TxHash)
	assert.Equal(t, "100", records[0].MintAmount)
	assert.Equal(t, "mint", lo.FromPtr(records[0].OpCode))
	assert.Equal(t, "-1:0000000000000000000000000000000000000000000000000000000000000000", lo.FromPtr(records[1].TransferTo))
	assert.Nil(t, records[2].Tick)
	assert.Equal(t, int64(9), records[2].Lt)
}
