/*
NAME
  crc14.go

DESCRIPTION
  crc14.go computes and verifies the CRC-14 checksum FT8 appends to its
  77-bit payload.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package crc implements the CRC-14 checksum used to protect FT8's 77-bit
// payload, polynomial 0x2757 (x^14+x^13+x^10+x^9+x^8+x^6+x^4+x^2+x+1).
package crc

// Polynomial is the 14-bit CRC-14 polynomial (leading x^14 term implied), as
// used by FT8/FT4 (see WSJT-X's ft8_crc routine).
const Polynomial uint16 = 0x2757

const width = 14
const topBit = uint16(1) << (width - 1) // 0x2000
const mask = uint16(1)<<width - 1       // 0x3FFF

// PayloadBits is the width of the unprotected FT8 payload. A value this wide
// does not fit in a uint64, so payloads here are represented as a []byte of
// one 0/1 value per bit, most significant bit first - the same convention
// ldpc uses for codewords.
const PayloadBits = 77

// FrameBits is PayloadBits plus the 14-bit CRC.
const FrameBits = PayloadBits + width

// extendedBits is PayloadBits extended with 5 zero bits, per spec §4.3
// ("zero-extended from 77 to 82 bits, shift left 5").
const extendedBits = PayloadBits + 5

// Compute returns the 14-bit CRC of a 77-bit payload. payload must have
// length PayloadBits. The payload is zero-extended to 82 bits before the CRC
// is run, matching WSJT-X's behavior of computing the CRC over msg with 5
// trailing zero bits appended (i.e. over msg77<<5).
func Compute(payload []byte) uint16 {
	extended := make([]byte, extendedBits)
	copy(extended, payload[:PayloadBits])
	return computeOverBits(extended)
}

// Check reports whether the embedded 14-bit CRC of a 91-bit frame (77
// payload bits followed by 14 CRC bits) matches a freshly computed CRC over
// the first 77 bits. frame must have length FrameBits.
func Check(frame []byte) bool {
	payload := frame[:PayloadBits]
	embedded := bitsToUint16(frame[PayloadBits:FrameBits])
	return Compute(payload) == embedded
}

// Append returns a 91-bit frame: the 77-bit payload followed by its 14-bit
// CRC. payload must have length PayloadBits.
func Append(payload []byte) []byte {
	c := Compute(payload)
	frame := make([]byte, FrameBits)
	copy(frame, payload[:PayloadBits])
	for i := 0; i < width; i++ {
		frame[PayloadBits+i] = byte((c >> uint(width-1-i)) & 1)
	}
	return frame
}

// computeOverBits runs the bit-serial CRC-14 shift register over bits,
// most-significant bit first, initial remainder zero, no reflection, no
// final XOR.
func computeOverBits(bits []byte) uint16 {
	var reg uint16
	for _, bit := range bits {
		reg ^= uint16(bit) << (width - 1)
		if reg&topBit != 0 {
			reg = (reg << 1) ^ Polynomial
		} else {
			reg <<= 1
		}
		reg &= mask
	}
	return reg
}

func bitsToUint16(bits []byte) uint16 {
	var v uint16
	for _, b := range bits {
		v = (v << 1) | uint16(b)
	}
	return v
}
