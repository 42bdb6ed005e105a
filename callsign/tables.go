/*
NAME
  tables.go

DESCRIPTION
  tables.go holds the FT8 character alphabets used throughout callsign and
  message field encoding.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package callsign implements FT8 callsign packing (28-bit and 58-bit),
// callsign hashing, and the hash-resolution cache used to recover callsigns
// that were sent as a hash rather than spelled out in full.
package callsign

// Character tables, in the form the protocol's bit-packing rules use them.
// Each table doubles as a fixed-radix alphabet: a character's index within
// the table is its digit value.
const (
	TableFull              = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ+-./?"
	TableAlnumSpaceSlash   = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ/"
	TableAlnumSpace        = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	TableAlphaSpace        = " ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	TableGridsquareAlpha   = "ABCDEFGHIJKLMNOPQR"
	TableGridsquareAlphaLC = "abcdefghijklmnopqrstuvwx"
	TableAlnum             = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	TableNumeric           = "0123456789"
)

// hashMultiplier is the constant used to spread a packed callsign value over
// the 64-bit hash space before truncating to 10, 12, or 22 bits.
const hashMultiplier = 47055833459
