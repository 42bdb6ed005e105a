/*
NAME
  bitpack.go

DESCRIPTION
  bitpack.go contains mixed-radix integer/string conversion and bit-field
  pack/unpack helpers shared by the callsign and message codecs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bitpack provides mixed-radix integer<->string conversion and
// MSB-first bit-field packing used to build and parse FT8's 77-bit payload.
package bitpack

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned when a mixed-radix conversion is given an empty string.
var ErrEmptyInput = errors.New("bitpack: empty input string")

// ErrLengthMismatch is returned when the input string length does not match the radix table count.
var ErrLengthMismatch = errors.New("bitpack: input length does not match radix table count")

// ErrInvalidChar is returned when an input character is not present in its radix table.
var ErrInvalidChar = errors.New("bitpack: character not in radix table")

// FromMixedRadix decodes input, one character per entry of tables, into an
// integer. Each character is looked up in its corresponding table; the
// leftmost character is most significant.
func FromMixedRadix(input string, tables []string) (uint64, error) {
	runes := []rune(input)
	if len(runes) == 0 {
		return 0, ErrEmptyInput
	}
	if len(runes) != len(tables) {
		return 0, ErrLengthMismatch
	}

	sizes := make([]uint64, len(tables))
	for i, t := range tables {
		sizes[i] = uint64(len([]rune(t)))
	}

	var value uint64
	for i, c := range runes {
		pos := strings.IndexRune(tables[i], c)
		if pos < 0 {
			return 0, errors.Wrapf(ErrInvalidChar, "char %q at position %d", c, i)
		}
		digit := uint64(pos)
		for _, size := range sizes[i+1:] {
			digit *= size
		}
		value += digit
	}
	return value, nil
}

// ToMixedRadix is the inverse of FromMixedRadix: it renders value as a
// string with one character drawn from each entry of tables.
func ToMixedRadix(value uint64, tables []string) (string, error) {
	if len(tables) == 0 {
		return "", ErrEmptyInput
	}

	sizes := make([]uint64, len(tables))
	for i, t := range tables {
		sizes[i] = uint64(len([]rune(t)))
	}

	var b strings.Builder
	remaining := value
	for i, t := range tables {
		radixFactor := uint64(1)
		for _, size := range sizes[i+1:] {
			radixFactor *= size
		}
		digit := remaining / radixFactor
		remaining -= digit * radixFactor

		runes := []rune(t)
		if digit >= uint64(len(runes)) {
			return "", errors.Errorf("bitpack: value out of range for table %d", i)
		}
		b.WriteRune(runes[digit])
	}
	return b.String(), nil
}

// FieldWriter accumulates fixed-width bit fields, MSB-first, into a single
// unsigned integer. It holds at most 64 bits, so it suits individual
// sub-64-bit fields; the 77-bit FT8 payload is built with Builder instead.
type FieldWriter struct {
	value uint64
	bits  uint
}

// WriteField appends the low `width` bits of v, most-significant-field-first.
func (w *FieldWriter) WriteField(v uint64, width uint) {
	mask := uint64(1)<<width - 1
	w.value = (w.value << width) | (v & mask)
	w.bits += width
}

// Uint64 returns the accumulated value.
func (w *FieldWriter) Uint64() uint64 { return w.value }

// Bits returns the total number of bits written so far.
func (w *FieldWriter) Bits() uint { return w.bits }

// FieldReader extracts fixed-width bit fields, MSB-first, from a packed
// value of a known total bit width.
type FieldReader struct {
	value     uint64
	remaining uint
}

// NewFieldReader creates a reader over the low `totalBits` bits of value.
func NewFieldReader(value uint64, totalBits uint) *FieldReader {
	return &FieldReader{value: value, remaining: totalBits}
}

// ReadField consumes and returns the next `width` bits, most significant first.
func (r *FieldReader) ReadField(width uint) uint64 {
	r.remaining -= width
	v := (r.value >> r.remaining) & (uint64(1)<<width - 1)
	return v
}

// Remaining returns the number of unread bits.
func (r *FieldReader) Remaining() uint { return r.remaining }

// BitAt returns bit i (0 = MSB) of value, which is understood to be totalBits wide.
func BitAt(value uint64, totalBits, i uint) byte {
	shift := totalBits - 1 - i
	return byte((value >> shift) & 1)
}

// PackBits packs a slice of 0/1 bits (MSB-first) into a uint64.
func PackBits(bits []byte) uint64 {
	var v uint64
	for _, b := range bits {
		v = (v << 1) | uint64(b&1)
	}
	return v
}

// UnpackBits unpacks the low `width` bits of value into a slice, MSB-first.
func UnpackBits(value uint64, width int) []byte {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		shift := width - 1 - i
		out[i] = byte((value >> shift) & 1)
	}
	return out
}
