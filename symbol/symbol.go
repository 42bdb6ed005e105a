/*
NAME
  symbol.go

DESCRIPTION
  symbol.go maps a 174-bit LDPC codeword to the 79 8-FSK tones of an FT8
  transmission and back: three 7-symbol Costas sync arrays bracketing two
  29-symbol Gray-coded data blocks (S7 D29 S7 D29 S7), per spec §4.5.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package symbol converts between 174-bit LDPC codewords and the 79-tone
// 8-FSK symbol sequence FT8 transmits, inserting and stripping the three
// Costas sync arrays along the way.
package symbol

import "github.com/pkg/errors"

// ND is the number of data symbols (174 bits / 3 bits per symbol).
const ND = 58

// NS is the number of sync symbols: 3 Costas arrays of 7 symbols each.
const NS = 21

// NN is the total symbol count of one FT8 transmission.
const NN = ND + NS

// CodewordBits is the width of the LDPC codeword map/demap operate on.
const CodewordBits = 174

// Costas is the 7-symbol Costas array used for coarse time/frequency sync,
// repeated at the start, middle, and end of the symbol sequence.
var Costas = [7]byte{3, 1, 4, 0, 6, 5, 2}

// graymap converts a 3-bit value (0-7) to its Gray-coded tone, chosen so
// adjacent tones differ by a single bit - a tone slip from noise corrupts
// the fewest bits possible.
var graymap = [8]byte{0, 1, 3, 2, 5, 6, 4, 7}

// graymapInv is the inverse of graymap: tone to 3-bit value.
var graymapInv = [8]byte{0, 1, 3, 2, 6, 4, 5, 7}

// Errors returned by this package.
var (
	ErrCodewordLength = errors.New("symbol: codeword must be exactly 174 bits")
)

// dataStart returns the symbol index of a data block's first symbol: block
// 0 starts right after the first Costas array at index 7, block 1 starts
// after the middle Costas array at index 43.
func dataStart(block int) int {
	if block == 0 {
		return 7
	}
	return 43
}

// DataStart exposes dataStart for callers outside this package that need to
// walk the same data-symbol layout, such as soft-decision LLR extraction.
func DataStart(block int) int { return dataStart(block) }

// GrayMap returns the 3-bit-value-to-tone table Map uses.
func GrayMap() [8]byte { return graymap }

// GrayMapInv returns the tone-to-3-bit-value table Demap uses.
func GrayMapInv() [8]byte { return graymapInv }

// Map converts a 174-bit LDPC codeword (one 0/1 value per bit, most
// significant bit first) into the 79-symbol tone sequence transmitted over
// the air, inserting the three Costas sync arrays at positions 0, 36, 72.
func Map(codeword []byte) ([NN]byte, error) {
	var symbols [NN]byte
	if len(codeword) != CodewordBits {
		return symbols, ErrCodewordLength
	}

	copy(symbols[0:7], Costas[:])
	copy(symbols[36:43], Costas[:])
	copy(symbols[72:79], Costas[:])

	k := dataStart(0)
	for j := 0; j < ND; j++ {
		if j == 29 {
			k = dataStart(1)
		}
		i := 3 * j
		idx := codeword[i]<<2 | codeword[i+1]<<1 | codeword[i+2]
		symbols[k] = graymap[idx]
		k++
	}
	return symbols, nil
}

// Demap is the inverse of Map: it extracts the 58 data symbols from a
// 79-symbol tone sequence, ignoring the sync symbols, and converts each
// back to 3 codeword bits via the inverse Gray table.
func Demap(symbols [NN]byte) []byte {
	codeword := make([]byte, CodewordBits)

	k := dataStart(0)
	for j := 0; j < ND; j++ {
		if j == 29 {
			k = dataStart(1)
		}
		i := 3 * j
		idx := graymapInv[symbols[k]]
		codeword[i] = (idx >> 2) & 1
		codeword[i+1] = (idx >> 1) & 1
		codeword[i+2] = idx & 1
		k++
	}
	return codeword
}
