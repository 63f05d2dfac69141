package grid

import (
	"encoding/binary"
	"fmt"
	"math"
)

// buffer is the storage backend for grid samples: random access by flat
// index with values crossing the boundary as float64, plus raw
// little-endian encoding for persistence.
type buffer interface {
	Len() int
	Get(i int) float64
	Set(i int, v float64)
	clone() buffer
	encode() []byte
}

// intBuf stores integer samples at native width. Set rounds to the
// nearest integer and saturates at the limits of T.
type intBuf[T int8 | uint8 | int16 | uint16 | int32 | uint32 | int64] []T

func (b intBuf[T]) Len() int          { return len(b) }
func (b intBuf[T]) Get(i int) float64 { return float64(b[i]) }

func (b intBuf[T]) Set(i int, v float64) {
	lo, hi := intLimits[T]()
	r := math.Round(v)
	// float64(hi) rounds up past hi for 64-bit samples, so the bound
	// check must run before the conversion: T(2^63) overflows int64.
	switch {
	case r >= float64(hi):
		b[i] = hi
	case r <= float64(lo):
		b[i] = lo
	default:
		b[i] = T(r)
	}
}

func (b intBuf[T]) clone() buffer {
	out := make(intBuf[T], len(b))
	copy(out, b)
	return out
}

func (b intBuf[T]) encode() []byte {
	var zero T
	out := make([]byte, 0, len(b)*sizeOf(zero))
	for _, v := range b {
		out = appendLE(out, v)
	}
	return out
}

// floatBuf stores floating-point samples at native width.
type floatBuf[T float32 | float64] []T

func (b floatBuf[T]) Len() int             { return len(b) }
func (b floatBuf[T]) Get(i int) float64    { return float64(b[i]) }
func (b floatBuf[T]) Set(i int, v float64) { b[i] = T(v) }

func (b floatBuf[T]) clone() buffer {
	out := make(floatBuf[T], len(b))
	copy(out, b)
	return out
}

func (b floatBuf[T]) encode() []byte {
	var zero T
	out := make([]byte, 0, len(b)*sizeOf(zero))
	for _, v := range b {
		switch any(zero).(type) {
		case float32:
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(v)))
		default:
			out = binary.LittleEndian.AppendUint64(out, math.Float64bits(float64(v)))
		}
	}
	return out
}

// bitBuf stores one-bit samples packed into words.
type bitBuf struct {
	words []uint64
	n     int
}

func newBitBuf(n int) *bitBuf {
	return &bitBuf{words: make([]uint64, (n+63)/64), n: n}
}

func (b *bitBuf) Len() int { return b.n }

func (b *bitBuf) Get(i int) float64 {
	if b.words[i/64]&(1<<(uint(i)%64)) != 0 {
		return 1
	}
	return 0
}

func (b *bitBuf) Set(i int, v float64) {
	if v > 0.5 {
		b.words[i/64] |= 1 << (uint(i) % 64)
	} else {
		b.words[i/64] &^= 1 << (uint(i) % 64)
	}
}

func (b *bitBuf) clone() buffer {
	out := newBitBuf(b.n)
	copy(out.words, b.words)
	return out
}

func (b *bitBuf) encode() []byte {
	out := make([]byte, 0, len(b.words)*8)
	for _, w := range b.words {
		out = binary.LittleEndian.AppendUint64(out, w)
	}
	return out
}

// intLimits returns the smallest and largest values of T.
func intLimits[T int8 | uint8 | int16 | uint16 | int32 | uint32 | int64]() (lo, hi T) {
	var zero T
	if ^zero > zero { // unsigned: ^0 is the largest value
		return 0, ^zero
	}
	bits := uint(sizeOf(zero)) * 8
	lo = ^zero << (bits - 1)
	return lo, ^lo
}

func sizeOf(v any) int {
	switch v.(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	default:
		return 8
	}
}

func appendLE[T int8 | uint8 | int16 | uint16 | int32 | uint32 | int64](out []byte, v T) []byte {
	switch x := any(v).(type) {
	case int8:
		return append(out, byte(x))
	case uint8:
		return append(out, x)
	case int16:
		return binary.LittleEndian.AppendUint16(out, uint16(x))
	case uint16:
		return binary.LittleEndian.AppendUint16(out, x)
	case int32:
		return binary.LittleEndian.AppendUint32(out, uint32(x))
	case uint32:
		return binary.LittleEndian.AppendUint32(out, x)
	default:
		return binary.LittleEndian.AppendUint64(out, uint64(any(v).(int64)))
	}
}

// allocBuffer creates a zeroed buffer of n samples in the given format.
func allocBuffer(f SampleFormat, n int) (buffer, error) {
	switch f {
	case FormatBit:
		return newBitBuf(n), nil
	case FormatUint8:
		return make(intBuf[uint8], n), nil
	case FormatInt8:
		return make(intBuf[int8], n), nil
	case FormatUint12, FormatUint16:
		return make(intBuf[uint16], n), nil
	case FormatInt16:
		return make(intBuf[int16], n), nil
	case FormatUint32:
		return make(intBuf[uint32], n), nil
	case FormatInt32:
		return make(intBuf[int32], n), nil
	case FormatInt64:
		return make(intBuf[int64], n), nil
	case FormatFloat32:
		return make(floatBuf[float32], n), nil
	case FormatFloat64:
		return make(floatBuf[float64], n), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// decodeBuffer reconstructs a buffer of n samples from its little-endian
// encoding, as produced by encode.
func decodeBuffer(f SampleFormat, n int, data []byte) (buffer, error) {
	buf, err := allocBuffer(f, n)
	if err != nil {
		return nil, err
	}
	want := encodedSize(f, n)
	if len(data) != want {
		return nil, fmt.Errorf("sample blob is %d bytes, want %d for %d %s samples", len(data), want, n, f)
	}
	switch b := buf.(type) {
	case *bitBuf:
		for i := range b.words {
			b.words[i] = binary.LittleEndian.Uint64(data[i*8:])
		}
	case intBuf[uint8]:
		for i := range b {
			b[i] = data[i]
		}
	case intBuf[int8]:
		for i := range b {
			b[i] = int8(data[i])
		}
	case intBuf[uint16]:
		for i := range b {
			b[i] = binary.LittleEndian.Uint16(data[i*2:])
		}
	case intBuf[int16]:
		for i := range b {
			b[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case intBuf[uint32]:
		for i := range b {
			b[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	case intBuf[int32]:
		for i := range b {
			b[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case intBuf[int64]:
		for i := range b {
			b[i] = int64(binary.LittleEndian.Uint64(data[i*8:]))
		}
	case floatBuf[float32]:
		for i := range b {
			b[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case floatBuf[float64]:
		for i := range b {
			b[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
		}
	}
	return buf, nil
}

// encodedSize returns the byte length of the encoded form of n samples.
func encodedSize(f SampleFormat, n int) int {
	switch f {
	case FormatBit:
		return ((n + 63) / 64) * 8
	case FormatUint8, FormatInt8:
		return n
	case FormatUint12, FormatUint16, FormatInt16:
		return n * 2
	case FormatUint32, FormatInt32, FormatFloat32:
		return n * 4
	default:
		return n * 8
	}
}
