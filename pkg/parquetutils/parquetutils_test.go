package parquetutils

import (
	"io"
	"testing"

	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go/parquet"
)

func TestBuffer(t *testing.T) {
	b := NewBuffer()

	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = b.WriteAt([]byte("HE"), 0)
	require.NoError(t, err)
	_, err = b.WriteAt([]byte("!"), 7)
	require.NoError(t, err)
	assert.Equal(t, []byte("HEllo\x00\x00!"), b.Bytes())

	pos, err := b.Seek(-3, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	got, err := io.ReadAll(b)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00\x00!"), got)

	pos, err = b.Seek(100, io.SeekStart)
	require.NoError(t, err)
	assert.Equal(t, int64(8), pos)

	_, err = b.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, errs.InvalidArgument)
	_, err = b.Seek(0, 42)
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestBufferOpenHasOwnOffset(t *testing.T) {
	b := NewBufferFrom([]byte("abcdef"))
	_, err := b.Seek(4, io.SeekStart)
	require.NoError(t, err)

	f, err := b.Open("")
	require.NoError(t, err)
	got := make([]byte, 3)
	_, err = io.ReadFull(f, got)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

type row struct {
	Name  string `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Value int64  `parquet:"name=value, type=INT64"`
}

func TestWriteAllReadAll(t *testing.T) {
	rows := []row{{Name: "a", Value: 1}, {Name: "b", Value: 2}, {Name: "c", Value: 3}}

	data, err := WriteAll(rows, parquet.CompressionCodec_SNAPPY)
	require.NoError(t, err)

	got, err := ReadAll[row](NewBufferFrom(data))
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
