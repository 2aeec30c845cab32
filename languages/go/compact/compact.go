// Package compact shrinks packed records by dropping their zero bytes.
//
// A record is read as a run of 8 byte words, the last one padded with zeros. Each word becomes
// a tag byte followed by its non-zero bytes. Bit i of the tag is set when byte i of the word is
// present.
//
// Two tags start runs:
//   - 0x00: the word is zero and is followed by a count (0-255) of further zero words.
//   - 0xFF: the word is written whole and is followed by a count of further words copied
//     as is. A copied run ends at the first word with two or more zero bytes.
//
// Layout:
//
//	+------------------+------------------+------------------+
//	| Record Length    | Body Length      | Body             |
//	| (8 bytes LE)     | (8 bytes LE)     | (variable)       |
//	+------------------+------------------+------------------+
//
// Record Length is the exact length of the record, so records that are not a multiple of 8
// bytes long come back without their padding. Buffers are pooled; call [Buffer.Release] when
// done with one.
package compact

import (
	"fmt"

	"github.com/gostdlib/base/concurrency/sync"
	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bitstruct/internal/binary"
	"github.com/bearlytools/bitstruct/languages/go/errors"
)

const (
	// HeaderSize is the size of the header: record length and body length.
	HeaderSize = 16
	// WordSize is the unit records are compacted in.
	WordSize = 8
)

var (
	// ErrShortHeader is returned by Expand for input smaller than HeaderSize.
	ErrShortHeader = errors.New("compacted data is shorter than its header")
	// ErrCorrupt is returned by Expand for a body that does not decode to the recorded length.
	ErrCorrupt = errors.New("compacted data is corrupt")
)

// Buffer wraps a byte slice with a Release method to return it to the pool.
type Buffer struct {
	data []byte
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the length of the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Release returns the buffer to the pool for reuse.
// The buffer must not be used after calling Release.
func (b *Buffer) Release(ctx context.Context) {
	if b == nil {
		return
	}
	bufferPool.Put(ctx, b)
}

// Reset implements the Resetter interface for sync.Pool.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}

var bufferPool = sync.NewPool[*Buffer](
	context.Background(),
	"compact.bufferPool",
	func() *Buffer {
		return &Buffer{
			data: make([]byte, 0, 512),
		}
	},
)

// sized returns a pooled buffer whose data is n bytes long.
func sized(ctx context.Context, n int) *Buffer {
	buf := bufferPool.Get(ctx)
	if cap(buf.data) < n {
		buf.data = make([]byte, n)
	} else {
		buf.data = buf.data[:n]
	}
	return buf
}

func words(n int) int {
	return (n + WordSize - 1) / WordSize
}

// maxBodySize bounds the body for a record of n bytes: a tag per word, every byte kept, and a
// count byte per run of up to 256 words.
func maxBodySize(n int) int {
	w := words(n)
	return w*(WordSize+1) + (w+255)/256
}

// wordAt returns word i of rec, padding a short final word with zeros.
func wordAt(rec []byte, i int) uint64 {
	off := i * WordSize
	if off+WordSize <= len(rec) {
		return binary.Get[uint64](rec[off:], binary.LE)
	}
	var pad [WordSize]byte
	copy(pad[:], rec[off:])
	return binary.Get[uint64](pad[:], binary.LE)
}

// Compact returns rec with its zero bytes dropped, in a pooled buffer.
func Compact(ctx context.Context, rec []byte) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := sized(ctx, HeaderSize+maxBodySize(len(rec)))
	n := compactInto(buf.data[HeaderSize:], rec)

	binary.Put(buf.data[0:8], uint64(len(rec)), binary.LE)
	binary.Put(buf.data[8:16], uint64(n), binary.LE)
	buf.data = buf.data[:HeaderSize+n]
	return buf, nil
}

// compactInto writes the body for rec to dst, which must hold maxBodySize(len(rec)) bytes,
// and returns the body length.
func compactInto(dst, rec []byte) int {
	w := 0
	total := words(len(rec))

	for i := 0; i < total; {
		word := wordAt(rec, i)
		i++

		tag := tagOf(word)
		dst[w] = tag
		w++
		w += putWord(dst[w:], word, tag)

		switch tag {
		case 0x00:
			count := byte(0)
			for i < total && count < 255 && wordAt(rec, i) == 0 {
				count++
				i++
			}
			dst[w] = count
			w++
		case 0xFF:
			countAt := w
			w++
			count := byte(0)
			for i < total && count < 255 {
				word := wordAt(rec, i)
				if zeroBytes(word) >= 2 {
					break
				}
				binary.Put(dst[w:], word, binary.LE)
				w += WordSize
				count++
				i++
			}
			dst[countAt] = count
		}
	}
	return w
}

// Expand reverses Compact and returns the record in a pooled buffer.
func Expand(ctx context.Context, data []byte) (*Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) < HeaderSize {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("%d bytes: %w", len(data), ErrShortHeader))
	}

	recLen := RecordLen(data)
	bodyLen := BodyLen(data)
	// A two byte zero run covers 256 words, which bounds how long a body can expand.
	if bodyLen < 0 || len(data)-HeaderSize < bodyLen || recLen < 0 || recLen > bodyLen*128*WordSize*2 {
		return nil, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("record length %d, body length %d, have %d bytes: %w", recLen, bodyLen, len(data)-HeaderSize, ErrCorrupt))
	}

	buf := sized(ctx, words(recLen)*WordSize)
	if err := expandInto(buf.data, data[HeaderSize:HeaderSize+bodyLen]); err != nil {
		buf.Release(ctx)
		return nil, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	for _, b := range buf.data[recLen:] {
		if b != 0 {
			buf.Release(ctx)
			return nil, errors.E(ctx, errors.CatUser, errors.TypeCodec, fmt.Errorf("%w: non-zero padding after byte %d", ErrCorrupt, recLen))
		}
	}
	buf.data = buf.data[:recLen]
	return buf, nil
}

// expandInto decodes body into dst, which must be exactly as long as the words it holds.
func expandInto(dst, body []byte) error {
	w, r := 0, 0

	for r < len(body) {
		if w+WordSize > len(dst) {
			return fmt.Errorf("body holds more than %d words", len(dst)/WordSize)
		}
		tag := body[r]
		r++

		n, ok := getWord(dst[w:w+WordSize], body[r:], tag)
		if !ok {
			return fmt.Errorf("word at byte %d is cut short", w)
		}
		r += n
		w += WordSize

		if tag != 0x00 && tag != 0xFF {
			continue
		}
		if r >= len(body) {
			return fmt.Errorf("run at byte %d has no count", w-WordSize)
		}
		run := int(body[r]) * WordSize
		r++
		if w+run > len(dst) {
			return fmt.Errorf("run at byte %d overflows the record", w-WordSize)
		}

		if tag == 0x00 {
			clear(dst[w : w+run])
		} else {
			if r+run > len(body) {
				return fmt.Errorf("copied run at byte %d is cut short", w-WordSize)
			}
			copy(dst[w:], body[r:r+run])
			r += run
		}
		w += run
	}

	if w != len(dst) {
		return fmt.Errorf("body holds %d bytes, want %d", w, len(dst))
	}
	return nil
}

// tagOf returns a tag byte where bit i is set if byte i of word is non-zero.
func tagOf(word uint64) byte {
	var tag byte
	for i := range WordSize {
		if (word>>(i*8))&0xFF != 0 {
			tag |= 1 << i
		}
	}
	return tag
}

// putWord writes the bytes of word selected by tag to dst and returns how many it wrote.
func putWord(dst []byte, word uint64, tag byte) int {
	n := 0
	for i := range WordSize {
		if tag&(1<<i) != 0 {
			dst[n] = byte(word >> (i * 8))
			n++
		}
	}
	return n
}

// getWord rebuilds an 8 byte word in dst from the bytes of src selected by tag. It returns how
// many bytes it read and false if src ran out.
func getWord(dst, src []byte, tag byte) (int, bool) {
	n := 0
	for i := range WordSize {
		if tag&(1<<i) == 0 {
			dst[i] = 0
			continue
		}
		if n >= len(src) {
			return n, false
		}
		dst[i] = src[n]
		n++
	}
	return n, true
}

func zeroBytes(word uint64) int {
	count := 0
	for i := range WordSize {
		if (word>>(i*8))&0xFF == 0 {
			count++
		}
	}
	return count
}

// RecordLen returns the record length stored in the header of compacted data, or 0 if data is
// too short.
func RecordLen(data []byte) int {
	if len(data) < HeaderSize {
		return 0
	}
	return int(binary.Get[uint64](data[0:8], binary.LE))
}

// BodyLen returns the body length stored in the header of compacted data, or 0 if data is too
// short.
func BodyLen(data []byte) int {
	if len(data) < HeaderSize {
		return 0
	}
	return int(binary.Get[uint64](data[8:16], binary.LE))
}

// Ratio returns the size of the compacted data divided by the record length, or 0 for an
// empty record.
func Ratio(data []byte) float64 {
	n := RecordLen(data)
	if n == 0 {
		return 0
	}
	return float64(len(data)) / float64(n)
}
