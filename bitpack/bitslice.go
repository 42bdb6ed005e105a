/*
NAME
  bitslice.go

DESCRIPTION
  bitslice.go provides a growable bit-array builder and cursor for payloads
  wider than 64 bits (FT8's 77-bit message and 91-bit CRC-protected frame),
  where a single uint64 field is no longer enough to hold the whole value.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bitpack

// Builder accumulates 0/1 bits, MSB-first within each field, into a single
// growing slice. Unlike FieldWriter it has no 64-bit ceiling, so it is the
// right tool for assembling a full 77-bit message or 91-bit frame.
type Builder struct {
	bits []byte
}

// WriteUint appends the low `width` bits of v, most significant bit first.
// width must be 64 or less.
func (b *Builder) WriteUint(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		b.bits = append(b.bits, byte((v>>uint(i))&1))
	}
}

// WriteBits appends a slice of 0/1 bits verbatim.
func (b *Builder) WriteBits(bits []byte) {
	b.bits = append(b.bits, bits...)
}

// WriteBool appends a single bit: 1 if v, 0 otherwise.
func (b *Builder) WriteBool(v bool) {
	if v {
		b.bits = append(b.bits, 1)
	} else {
		b.bits = append(b.bits, 0)
	}
}

// Bits returns the accumulated bit slice.
func (b *Builder) Bits() []byte { return b.bits }

// Len returns the number of bits accumulated so far.
func (b *Builder) Len() int { return len(b.bits) }

// Cursor reads fixed-width fields out of a bit slice in sequence.
type Cursor struct {
	bits []byte
	pos  int
}

// NewCursor returns a Cursor reading from the start of bits.
func NewCursor(bits []byte) *Cursor {
	return &Cursor{bits: bits}
}

// ReadUint consumes and returns the next `width` bits as a uint64,
// most-significant bit first. width must be 64 or less.
func (c *Cursor) ReadUint(width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v = (v << 1) | uint64(c.bits[c.pos])
		c.pos++
	}
	return v
}

// ReadBool consumes and returns the next bit as a bool.
func (c *Cursor) ReadBool() bool {
	return c.ReadUint(1) == 1
}

// ReadBits consumes and returns the next `width` bits verbatim.
func (c *Cursor) ReadBits(width int) []byte {
	out := c.bits[c.pos : c.pos+width]
	c.pos += width
	return out
}

// Remaining returns the number of unread bits.
func (c *Cursor) Remaining() int { return len(c.bits) - c.pos }

// Pos returns the current read offset.
func (c *Cursor) Pos() int { return c.pos }
