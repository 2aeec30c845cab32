package compress

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"
	"github.com/klauspost/compress/zstd"

	"github.com/bearlytools/bitstruct/languages/go/compact"
)

// tooLarge reports a record of n bytes that is over limit. A negative n means the size is not
// known, only that it passed limit.
func tooLarge(n, limit int) error {
	if n < 0 {
		return fmt.Errorf("more than %d bytes: %w", limit, ErrTooLarge)
	}
	return fmt.Errorf("%d bytes, limit %d: %w", n, limit, ErrTooLarge)
}

// CompactCompressor packs zero words with package compact.
type CompactCompressor struct{}

// Method implements Compressor.
func (*CompactCompressor) Method() Method { return Compact }

// Compress implements Compressor.
func (*CompactCompressor) Compress(ctx context.Context, rec []byte) ([]byte, error) {
	buf, err := compact.Compact(ctx, rec)
	if err != nil {
		return nil, err
	}
	defer buf.Release(ctx)
	return bytes.Clone(buf.Bytes()), nil
}

// Decompress implements Compressor. The record length is read from the compact header, so an
// oversized record is refused before anything is expanded.
func (*CompactCompressor) Decompress(ctx context.Context, body []byte, limit int) ([]byte, error) {
	if n := compact.RecordLen(body); n < 0 || n > limit {
		return nil, tooLarge(n, limit)
	}
	buf, err := compact.Expand(ctx, body)
	if err != nil {
		return nil, err
	}
	defer buf.Release(ctx)
	return bytes.Clone(buf.Bytes()), nil
}

// GzipCompressor uses gzip.
type GzipCompressor struct {
	// Level is a compress/gzip level. 0 means gzip.DefaultCompression.
	Level int
}

// Method implements Compressor.
func (*GzipCompressor) Method() Method { return Gzip }

// Compress implements Compressor.
func (g *GzipCompressor) Compress(ctx context.Context, rec []byte) ([]byte, error) {
	level := g.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	out := bytes.NewBuffer(make([]byte, 0, len(rec)/2+32))
	zw, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		return nil, err
	}
	_, err = zw.Write(rec)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decompress implements Compressor. At most limit+1 bytes are inflated.
func (*GzipCompressor) Decompress(ctx context.Context, body []byte, limit int) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	rec, err := io.ReadAll(io.LimitReader(zr, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if len(rec) > limit {
		return nil, tooLarge(-1, limit)
	}
	return rec, nil
}

// SnappyCompressor uses the Snappy block format.
type SnappyCompressor struct{}

// Method implements Compressor.
func (*SnappyCompressor) Method() Method { return Snappy }

// Compress implements Compressor.
func (*SnappyCompressor) Compress(ctx context.Context, rec []byte) ([]byte, error) {
	return snappy.Encode(make([]byte, snappy.MaxEncodedLen(len(rec))), rec), nil
}

// Decompress implements Compressor. Snappy blocks carry their decoded length, which is checked
// before decoding.
func (*SnappyCompressor) Decompress(ctx context.Context, body []byte, limit int) ([]byte, error) {
	n, err := snappy.DecodedLen(body)
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, tooLarge(n, limit)
	}
	return snappy.Decode(make([]byte, n), body)
}

// zstdDecoder is shared by every ZstdCompressor. DecodeAll is safe for concurrent use and stops
// at the capacity of the destination it is given.
var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true), zstd.WithDecoderConcurrency(0))
})

// ZstdCompressor uses Zstandard.
type ZstdCompressor struct {
	// Level defaults to zstd.SpeedDefault.
	Level zstd.EncoderLevel

	encOnce sync.Once
	enc     *zstd.Encoder
	encErr  error
}

// Method implements Compressor.
func (*ZstdCompressor) Method() Method { return Zstd }

func (z *ZstdCompressor) encoder() (*zstd.Encoder, error) {
	z.encOnce.Do(func() {
		level := z.Level
		if level == 0 {
			level = zstd.SpeedDefault
		}
		z.enc, z.encErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	})
	return z.enc, z.encErr
}

// Compress implements Compressor.
func (z *ZstdCompressor) Compress(ctx context.Context, rec []byte) ([]byte, error) {
	enc, err := z.encoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(rec, make([]byte, 0, len(rec)/2+16)), nil
}

// Decompress implements Compressor.
func (*ZstdCompressor) Decompress(ctx context.Context, body []byte, limit int) ([]byte, error) {
	dec, err := zstdDecoder()
	if err != nil {
		return nil, err
	}
	rec, err := dec.DecodeAll(body, make([]byte, 0, limit))
	if err == zstd.ErrDecoderSizeExceeded {
		return nil, tooLarge(-1, limit)
	}
	return rec, err
}
