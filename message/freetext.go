/*
NAME
  freetext.go

DESCRIPTION
  freetext.go packs and unpacks the 71-bit free-text field (Type-0/0
  messages): a 13-character string drawn from a 42-symbol alphabet, encoded
  base-42. 42^13 exceeds the range of a uint64, so the accumulator is a
  9-byte big-endian buffer with its own multiply-add and divide-in-place
  routines rather than a native integer type.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package message

import (
	"fmt"
	"strings"

	"github.com/ausocean/ft8/callsign"
)

const (
	freeTextChars = 13
	freeTextBase  = 42
	freeTextBytes = 9  // 72 bits hold the 71-bit field plus one always-zero pad bit
	FreeTextBits  = 71
)

// EncodeFreeText packs up to 13 characters of text, left-padded with
// spaces to 13 characters, into the 71-bit free-text field.
func EncodeFreeText(text string) ([]byte, error) {
	if len(text) > freeTextChars {
		return nil, ErrTextTooLong
	}
	padded := fmt.Sprintf("%13s", text)

	acc := make([]byte, freeTextBytes)
	for i := 0; i < len(padded); i++ {
		idx := strings.IndexByte(callsign.TableFull, padded[i])
		if idx < 0 {
			return nil, ErrInvalidCharset
		}
		multiplyAdd(acc, freeTextBase, uint64(idx))
	}
	acc[0] &= 0x7F

	return bitsFromBigEndian(acc, FreeTextBits), nil
}

// DecodeFreeText is the inverse of EncodeFreeText; the returned string is
// not trimmed of its leading padding, matching WSJT-X's canonical form.
func DecodeFreeText(bits []byte) (string, error) {
	if len(bits) != FreeTextBits {
		return "", ErrInvalidField
	}
	acc := bitsToBigEndian(bits, freeTextBytes)
	acc[0] &= 0x7F

	buf := make([]byte, freeTextChars)
	for i := freeTextChars - 1; i >= 0; i-- {
		r := divideInPlace(acc, freeTextBase)
		if int(r) >= len(callsign.TableFull) {
			return "", ErrInvalidCharset
		}
		buf[i] = callsign.TableFull[r]
	}
	return string(buf), nil
}

// multiplyAdd computes acc = acc*multiplier + addend in place, acc being a
// big-endian arbitrary-width unsigned integer.
func multiplyAdd(acc []byte, multiplier, addend uint64) {
	carry := addend
	for i := len(acc) - 1; i >= 0; i-- {
		val := uint64(acc[i])*multiplier + carry
		acc[i] = byte(val & 0xFF)
		carry = val >> 8
	}
}

// divideInPlace computes acc /= divisor in place and returns the remainder.
func divideInPlace(acc []byte, divisor uint64) uint64 {
	var remainder uint64
	for i := 0; i < len(acc); i++ {
		val := (remainder << 8) | uint64(acc[i])
		acc[i] = byte(val / divisor)
		remainder = val % divisor
	}
	return remainder
}

// bitsFromBigEndian extracts the low totalBits bits of a big-endian byte
// buffer as a 0/1 slice, most significant bit first.
func bitsFromBigEndian(b []byte, totalBits int) []byte {
	skip := len(b)*8 - totalBits
	bits := make([]byte, totalBits)
	for i := 0; i < totalBits; i++ {
		bitPos := skip + i
		bits[i] = (b[bitPos/8] >> uint(7-bitPos%8)) & 1
	}
	return bits
}

// bitsToBigEndian is the inverse of bitsFromBigEndian, zero-extending into a
// buffer of totalBytes bytes.
func bitsToBigEndian(bits []byte, totalBytes int) []byte {
	out := make([]byte, totalBytes)
	skip := totalBytes*8 - len(bits)
	for i, bit := range bits {
		bitPos := skip + i
		out[bitPos/8] |= bit << uint(7-bitPos%8)
	}
	return out
}
