package gfx

import (
	"encoding/binary"
	"math/bits"
)

// Format describes how pixels of one color type are packed into a row.
type Format interface {
	// BitsPerPixel is fixed per format.
	BitsPerPixel() int
	// MirrorX reverses the pixel order of a packed row of width pixels in
	// place. The first pixel ends up at the most significant bit of row[0].
	MirrorX(row []byte, width int)
}

// Color fills and blits pixels of its format into packed rows.
type Color interface {
	Format
	// Fill sets every pixel in [left, right) of row to the color.
	Fill(row []byte, left, right int)
	// RenderBitmapRow copies source pixels [left, right) of src to row,
	// source pixel i landing on destination pixel x+i. Pixels outside
	// [x+left, x+right) are left untouched.
	RenderBitmapRow(row []byte, x int, src []byte, left, right int)
}

// Stride returns the number of bytes of one packed row.
func Stride(width, bitsPerPixel int) int {
	return (width*bitsPerPixel + 7) / 8
}

// BlackWhite is the 1 bit per pixel color. A set bit is white.
//
// Bitmap sources use a set bit for ink: White copies the source bits as
// they are, Black writes their complement.
type BlackWhite uint8

const (
	White BlackWhite = iota
	Black
)

// Mono is the format of BlackWhite buffers.
var Mono Format = White

func (c BlackWhite) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func (BlackWhite) BitsPerPixel() int { return 1 }

func (c BlackWhite) Fill(row []byte, left, right int) {
	if left >= right {
		return
	}
	li, ri := left>>3, right>>3
	leftMask := byte(0xff) >> (left & 7)
	rightMask := byte(uint16(0xff00) >> (right & 7))

	if li == ri {
		c.apply(row, li, leftMask&rightMask)
		return
	}
	c.apply(row, li, leftMask)
	var v byte
	if c == White {
		v = 0xff
	}
	for i := li + 1; i < ri; i++ {
		row[i] = v
	}
	if right&7 != 0 {
		c.apply(row, ri, rightMask)
	}
}

func (c BlackWhite) apply(row []byte, i int, mask byte) {
	if c == White {
		row[i] |= mask
	} else {
		row[i] &^= mask
	}
}

// invert is XORed onto source bytes before they are stored.
func (c BlackWhite) invert() byte {
	if c == Black {
		return 0xff
	}
	return 0
}

func (c BlackWhite) RenderBitmapRow(row []byte, x int, src []byte, left, right int) {
	if left >= right {
		return
	}
	dl, dr := x+left, x+right
	inv := c.invert()

	if dl>>3 == (dr-1)>>3 {
		copyBits(row, dl, src, left, right-left, inv)
		return
	}
	if x&7 != 0 {
		blitShifted(row, x, src, dl, dr, inv)
		return
	}

	// Source and destination bytes line up; only the ends need bit work.
	start, end := dl, dr
	if dl&7 != 0 {
		n := 8 - dl&7
		copyBits(row, dl, src, left, n, inv)
		start += n
	}
	if dr&7 != 0 {
		end = dr &^ 7
		copyBits(row, end, src, end-x, dr-end, inv)
	}
	off := x >> 3
	a, b := start>>3, end>>3
	if inv == 0 {
		copy(row[a:b], src[a-off:b-off])
		return
	}
	for j := a; j < b; j++ {
		row[j] = src[j-off] ^ inv
	}
}

// blitShifted assembles every destination byte in [dl, dr) from the two
// source bytes it straddles.
func blitShifted(row []byte, x int, src []byte, dl, dr int, inv byte) {
	first, last := dl>>3, (dr-1)>>3
	for j := first; j <= last; j++ {
		p := j*8 - x
		k, s := p>>3, p&7
		v := byteAt(src, k)<<s | byteAt(src, k+1)>>(8-s)

		mask := byte(0xff)
		if j == first {
			mask &= byte(0xff) >> (dl & 7)
		}
		if j == last && dr&7 != 0 {
			mask &= byte(uint16(0xff00) >> (dr & 7))
		}
		row[j] = row[j]&^mask | (v^inv)&mask
	}
}

func byteAt(b []byte, i int) byte {
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

// copyBits copies n pixels one at a time.
func copyBits(row []byte, dst int, src []byte, s, n int, inv byte) {
	for i := 0; i < n; i++ {
		sp, dp := s+i, dst+i
		on := src[sp>>3]&(byte(0x80)>>(sp&7)) != 0
		if inv != 0 {
			on = !on
		}
		m := byte(0x80) >> (dp & 7)
		if on {
			row[dp>>3] |= m
		} else {
			row[dp>>3] &^= m
		}
	}
}

func (BlackWhite) MirrorX(row []byte, width int) {
	n := (width + 7) >> 3
	row = row[:n]

	lo, hi := 0, n
	for hi-lo >= 8 {
		a := binary.BigEndian.Uint32(row[lo:])
		b := binary.BigEndian.Uint32(row[hi-4:])
		binary.BigEndian.PutUint32(row[lo:], bits.Reverse32(b))
		binary.BigEndian.PutUint32(row[hi-4:], bits.Reverse32(a))
		lo += 4
		hi -= 4
	}
	for hi-lo >= 2 {
		a, b := row[lo], row[hi-1]
		row[lo] = bits.Reverse8(b)
		row[hi-1] = bits.Reverse8(a)
		lo++
		hi--
	}
	if hi-lo == 1 {
		row[lo] = bits.Reverse8(row[lo])
	}

	// The trailing padding is now in front; shift it out.
	if rem := width & 7; rem != 0 {
		shift := 8 - rem
		for i := 0; i < n-1; i++ {
			row[i] = row[i]<<shift | row[i+1]>>rem
		}
		row[n-1] <<= shift
	}
}
