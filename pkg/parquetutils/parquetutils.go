// Package parquetutils reads and writes parquet files held in memory.
package parquetutils

import (
	"github.com/cockroachdb/errors"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

var (
	// ReaderConcurrency is the number of parallel column readers.
	ReaderConcurrency int64 = 8

	// WriterConcurrency is the number of parallel row group encoders.
	WriterConcurrency int64 = 4
)

// ReadAll reads all records from the parquet file.
func ReadAll[T any](sourceFile source.ParquetFile) ([]T, error) {
	r, err := reader.NewParquetReader(sourceFile, new(T), ReaderConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet reader")
	}
	defer r.ReadStop()

	data := make([]T, r.GetNumRows())
	if err = r.Read(&data); err != nil {
		return nil, errors.Wrap(err, "failed to read parquet data")
	}
	return data, nil
}

// WriteAll encodes records as a parquet file. The schema comes from the parquet tags of T.
func WriteAll[T any](records []T, compression parquet.CompressionCodec) ([]byte, error) {
	buf := NewBuffer()
	pw, err := writer.NewParquetWriter(buf, new(T), WriterConcurrency)
	if err != nil {
		return nil, errors.Wrap(err, "can't create parquet writer")
	}
	pw.CompressionType = compression
	for _, record := range records {
		if err := pw.Write(record); err != nil {
			return nil, errors.Wrap(err, "can't write parquet record")
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, errors.Wrap(err, "can't finalize parquet file")
	}
	return buf.Bytes(), nil
}
