// Package compress wraps packed records for storage or transfer. Each frame is one
// Method byte followed by the record as that Method's compressor wrote it.
//
// Method Compact uses the zero word packer in package compact, which suits records
// with large unused areas. Gzip, Snappy and Zstd are general purpose. Other
// compressors can be added with Register.
package compress

import (
	"fmt"

	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitstruct/languages/go/errors"
)

// Method identifies a compressor in a frame header.
type Method uint8

const (
	None    Method = 0
	Compact Method = 1
	Gzip    Method = 2
	Snappy  Method = 3
	Zstd    Method = 4
)

var methodNames = map[Method]string{
	None:    "none",
	Compact: "compact",
	Gzip:    "gzip",
	Snappy:  "snappy",
	Zstd:    "zstd",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

// ParseMethod returns the Method named s, as printed by Method.String.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return None, fmt.Errorf("unknown compression method %q", s)
}

// DefaultLimit is the largest record Decode returns when no limit is given.
const DefaultLimit = 1 << 20

// ErrTooLarge is returned when a frame holds a record larger than the decode limit.
var ErrTooLarge = errors.New("decompressed record exceeds limit")

// Compressor is a compression algorithm.
type Compressor interface {
	// Compress compresses data.
	Compress(ctx context.Context, data []byte) ([]byte, error)
	// Decompress returns the data passed to Compress. It fails with ErrTooLarge rather
	// than return more than limit bytes.
	Decompress(ctx context.Context, data []byte, limit int) ([]byte, error)
	// Method is the frame header value for this compressor.
	Method() Method
}

var (
	registry   = map[Method]Compressor{}
	registryMu sync.RWMutex
)

// Register adds a compressor, replacing any registered for the same Method.
// The None method cannot be replaced.
func Register(c Compressor) {
	if c.Method() == None {
		return
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Method()] = c
}

// Get returns the compressor for m, or nil if none is registered.
func Get(m Method) Compressor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[m]
}

// Encode compresses rec with m and returns the frame.
func Encode(ctx context.Context, m Method, rec []byte) ([]byte, error) {
	if m == None || len(rec) == 0 {
		return append([]byte{byte(m)}, rec...), nil
	}
	c := Get(m)
	if c == nil {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeParameter, fmt.Errorf("compressor not registered for %s", m))
	}
	body, err := c.Compress(ctx, rec)
	if err != nil {
		return nil, errors.E(ctx, errors.CatInternal, errors.TypeCodec, fmt.Errorf("%s: %w", m, err))
	}
	return append([]byte{byte(m)}, body...), nil
}

// Decode returns the record held in frame and the Method that compressed it. A record longer
// than limit bytes is an error wrapping ErrTooLarge. A limit <= 0 means DefaultLimit. Callers
// that know the layout should pass its Size().
func Decode(ctx context.Context, frame []byte, limit int) ([]byte, Method, error) {
	if len(frame) == 0 {
		return nil, None, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("empty frame"))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	m, body := Method(frame[0]), frame[1:]
	if m == None || len(body) == 0 {
		if len(body) > limit {
			return nil, m, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("%s: %d bytes: %w", m, len(body), ErrTooLarge))
		}
		return body, m, nil
	}
	c := Get(m)
	if c == nil {
		return nil, m, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("frame uses unregistered compressor %s", m))
	}
	rec, err := c.Decompress(ctx, body, limit)
	if err != nil {
		return nil, m, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("%s: %w", m, err))
	}
	return rec, m, nil
}

func init() {
	Register(&CompactCompressor{})
	Register(&GzipCompressor{})
	Register(&SnappyCompressor{})
	Register(&ZstdCompressor{})
}
