package grid

import (
	"fmt"
	"math"
)

// SampleFormat identifies one of the closed set of sample
// representations a grid can store.
type SampleFormat string

const (
	FormatBit     SampleFormat = "bit"
	FormatUint8   SampleFormat = "uint8"
	FormatInt8    SampleFormat = "int8"
	FormatUint12  SampleFormat = "uint12"
	FormatUint16  SampleFormat = "uint16"
	FormatInt16   SampleFormat = "int16"
	FormatUint32  SampleFormat = "uint32"
	FormatInt32   SampleFormat = "int32"
	FormatInt64   SampleFormat = "int64"
	FormatFloat32 SampleFormat = "float32"
	FormatFloat64 SampleFormat = "float64"
)

// Domain describes the numeric range of a sample format as plain data:
// bit width, signedness, the representable [Min, Max], and whether the
// format is a one-bit binary mask.
type Domain struct {
	Bits   int
	Signed bool
	Float  bool
	Min    float64
	Max    float64
	OneBit bool
}

var domains = map[SampleFormat]Domain{
	FormatBit:     {Bits: 1, Min: 0, Max: 1, OneBit: true},
	FormatUint8:   {Bits: 8, Min: 0, Max: math.MaxUint8},
	FormatInt8:    {Bits: 8, Signed: true, Min: math.MinInt8, Max: math.MaxInt8},
	FormatUint12:  {Bits: 12, Min: 0, Max: 4095},
	FormatUint16:  {Bits: 16, Min: 0, Max: math.MaxUint16},
	FormatInt16:   {Bits: 16, Signed: true, Min: math.MinInt16, Max: math.MaxInt16},
	FormatUint32:  {Bits: 32, Min: 0, Max: math.MaxUint32},
	FormatInt32:   {Bits: 32, Signed: true, Min: math.MinInt32, Max: math.MaxInt32},
	FormatInt64:   {Bits: 64, Signed: true, Min: math.MinInt64, Max: math.MaxInt64},
	FormatFloat32: {Bits: 32, Signed: true, Float: true, Min: -math.MaxFloat32, Max: math.MaxFloat32},
	FormatFloat64: {Bits: 64, Signed: true, Float: true, Min: -math.MaxFloat64, Max: math.MaxFloat64},
}

// DomainOf returns the numeric domain for a sample format.
func DomainOf(f SampleFormat) (Domain, error) {
	d, ok := domains[f]
	if !ok {
		return Domain{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	return d, nil
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (SampleFormat, error) {
	f := SampleFormat(s)
	if _, ok := domains[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// Formats returns the supported format names, for help text and API
// error messages.
func Formats() []SampleFormat {
	return []SampleFormat{
		FormatBit, FormatUint8, FormatInt8, FormatUint12, FormatUint16,
		FormatInt16, FormatUint32, FormatInt32, FormatInt64,
		FormatFloat32, FormatFloat64,
	}
}
