// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package salsa provides the reduced-round Salsa20/8 core used as the
// mixing function of scrypt.
//
// The core is a keyless permutation-plus-feedforward over a 64-byte block,
// described in section 3 of RFC 7914. It is not a stream cipher and must not
// be used as one.
package salsa

import (
	"encoding/binary"
	"math/bits"
)

// BlockSize is the size in bytes of the block processed by Core208.
const BlockSize = 64

// Mix208 applies the Salsa20/8 core to the 16 little-endian words in and
// writes the result to out. in and out may be the same array.
func Mix208(out, in *[16]uint32) {
	x0, x1, x2, x3 := in[0], in[1], in[2], in[3]
	x4, x5, x6, x7 := in[4], in[5], in[6], in[7]
	x8, x9, x10, x11 := in[8], in[9], in[10], in[11]
	x12, x13, x14, x15 := in[12], in[13], in[14], in[15]

	for i := 0; i < 8; i += 2 {
		// columns
		x4 ^= bits.RotateLeft32(x0+x12, 7)
		x8 ^= bits.RotateLeft32(x4+x0, 9)
		x12 ^= bits.RotateLeft32(x8+x4, 13)
		x0 ^= bits.RotateLeft32(x12+x8, 18)

		x9 ^= bits.RotateLeft32(x5+x1, 7)
		x13 ^= bits.RotateLeft32(x9+x5, 9)
		x1 ^= bits.RotateLeft32(x13+x9, 13)
		x5 ^= bits.RotateLeft32(x1+x13, 18)

		x14 ^= bits.RotateLeft32(x10+x6, 7)
		x2 ^= bits.RotateLeft32(x14+x10, 9)
		x6 ^= bits.RotateLeft32(x2+x14, 13)
		x10 ^= bits.RotateLeft32(x6+x2, 18)

		x3 ^= bits.RotateLeft32(x15+x11, 7)
		x7 ^= bits.RotateLeft32(x3+x15, 9)
		x11 ^= bits.RotateLeft32(x7+x3, 13)
		x15 ^= bits.RotateLeft32(x11+x7, 18)

		// rows
		x1 ^= bits.RotateLeft32(x0+x3, 7)
		x2 ^= bits.RotateLeft32(x1+x0, 9)
		x3 ^= bits.RotateLeft32(x2+x1, 13)
		x0 ^= bits.RotateLeft32(x3+x2, 18)

		x6 ^= bits.RotateLeft32(x5+x4, 7)
		x7 ^= bits.RotateLeft32(x6+x5, 9)
		x4 ^= bits.RotateLeft32(x7+x6, 13)
		x5 ^= bits.RotateLeft32(x4+x7, 18)

		x11 ^= bits.RotateLeft32(x10+x9, 7)
		x8 ^= bits.RotateLeft32(x11+x10, 9)
		x9 ^= bits.RotateLeft32(x8+x11, 13)
		x10 ^= bits.RotateLeft32(x9+x8, 18)

		x12 ^= bits.RotateLeft32(x15+x14, 7)
		x13 ^= bits.RotateLeft32(x12+x15, 9)
		x14 ^= bits.RotateLeft32(x13+x12, 13)
		x15 ^= bits.RotateLeft32(x14+x13, 18)
	}

	out[0], out[1], out[2], out[3] = x0+in[0], x1+in[1], x2+in[2], x3+in[3]
	out[4], out[5], out[6], out[7] = x4+in[4], x5+in[5], x6+in[6], x7+in[7]
	out[8], out[9], out[10], out[11] = x8+in[8], x9+in[9], x10+in[10], x11+in[11]
	out[12], out[13], out[14], out[15] = x12+in[12], x13+in[13], x14+in[14], x15+in[15]
}

// Core208 applies the Salsa20/8 core to the 64-byte block in and puts the
// result into out. in and out may be the same array.
func Core208(out, in *[BlockSize]byte) {
	var w [16]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(in[i*4:])
	}
	Mix208(&w, &w)
	for i, v := range w {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
}
