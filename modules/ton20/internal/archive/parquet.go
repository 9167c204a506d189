package archive

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/modules/ton20/internal/entity"
	"github.com/gaze-network/ton20-indexer/pkg/parquetutils"
	"github.com/samber/lo"
	"github.com/xitongsys/parquet-go/parquet"
)

// StatusRecord is the parquet row of one audit record. Amounts are decimal strings.
type StatusRecord struct {
	TxHash         string  `parquet:"name=tx_hash, type=BYTE_ARRAY, convertedtype=UTF8"`
	Success        bool    `parquet:"name=success, type=BOOLEAN"`
	FailReason     string  `parquet:"name=fail_reason, type=BYTE_ARRAY, convertedtype=UTF8"`
	Lt             int64   `parquet:"name=lt, type=INT64"`
	OpCode         *string `parquet:"name=op_code, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Tick           *string `parquet:"name=tick, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Initiator      string  `parquet:"name=initiator, type=BYTE_ARRAY, convertedtype=UTF8"`
	MintAmount     string  `parquet:"name=mint_amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	TransferAmount string  `parquet:"name=transfer_amount, type=BYTE_ARRAY, convertedtype=UTF8"`
	TransferTo     *string `parquet:"name=transfer_to, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Memo           *string `parquet:"name=memo, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

func newStatusRecord(src *entity.TransactionStatus) StatusRecord {
	record := StatusRecord{
		TxHash:         src.TxHash.String(),
		Success:        src.Success,
		FailReason:     src.FailReason,
		Lt:             int64(src.Lt),
		OpCode:         src.OpCode,
		Tick:           src.Tick,
		Initiator:      src.Initiator.String(),
		MintAmount:     src.MintAmount.Dec(),
		TransferAmount: src.TransferAmount.Dec(),
		Memo:           src.Memo,
	}
	if src.TransferTo != nil {
		record.TransferTo = lo.ToPtr(src.TransferTo.String())
	}
	return record
}

// EncodeStatuses writes the audit records as a snappy-compressed parquet file.
func EncodeStatuses(statuses []*entity.TransactionStatus) ([]byte, error) {
	records := lo.Map(statuses, func(status *entity.TransactionStatus, _ int) StatusRecord {
		return newStatusRecord(status)
	})
	data, err := parquetutils.WriteAll(records, parquet.CompressionCodec_SNAPPY)
	if err != nil {
		return nil, errors.Wrap(err, "can't encode transaction statuses")
	}
	return data, nil
}
