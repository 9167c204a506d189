package parquetutils

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ton20-indexer/common/errs"
	"github.com/xitongsys/parquet-go/source"
)

var (
	_ source.ParquetFile = (*Buffer)(nil)
	_ io.WriterAt        = (*Buffer)(nil)
)

// Buffer is an in-memory parquet file. Writes past the end grow the buffer.
type Buffer struct {
	mu  sync.Mutex
	buf []byte
	off int64
}

func NewBuffer() *Buffer {
	return &Buffer{buf: make([]byte, 0, 4096)}
}

// NewBufferFrom wraps data without copying it.
func NewBufferFrom(data []byte) *Buffer {
	return &Buffer{buf: data}
}

// Create implements source.ParquetFile. The name is ignored.
func (b *Buffer) Create(string) (source.ParquetFile, error) {
	return NewBuffer(), nil
}

// Open implements source.ParquetFile. The returned file shares the bytes
// written so far and has its own offset, so column readers can seek independently.
func (b *Buffer) Open(string) (source.ParquetFile, error) {
	return NewBufferFrom(b.Bytes()), nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = b.off
	case io.SeekEnd:
		base = int64(len(b.buf))
	default:
		return b.off, errors.Wrapf(errs.InvalidArgument, "invalid whence %d", whence)
	}
	pos := base + offset
	if pos < 0 {
		return b.off, errors.Wrapf(errs.InvalidArgument, "negative position %d", pos)
	}
	b.off = min(pos, int64(len(b.buf)))
	return b.off, nil
}

func (b *Buffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.off >= int64(len(b.buf)) {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.off:])
	b.off += int64(n)
	return n, nil
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := b.writeAt(p, b.off)
	b.off += int64(n)
	return n, nil
}

// WriteAt overwrites any bytes already written in [pos, pos+len(p)).
func (b *Buffer) WriteAt(p []byte, pos int64) (int, error) {
	if pos < 0 {
		return 0, errors.Wrapf(errs.InvalidArgument, "negative position %d", pos)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeAt(p, pos), nil
}

func (b *Buffer) writeAt(p []byte, pos int64) int {
	if end := pos + int64(len(p)); end > int64(len(b.buf)) {
		if end > int64(cap(b.buf)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.buf))))
			copy(grown, b.buf)
			b.buf = grown
		}
		b.buf = b.buf[:end]
	}
	return copy(b.buf[pos:], p)
}

func (*Buffer) Close() error {
	return nil
}

// Bytes returns the written content. It aliases the buffer until the next write.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf
}
