// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crypt64 implements the base-64 encoding used by "$7$" scrypt
// password hashes. It shares the crypt(3) alphabet with md5crypt and
// sha-crypt, but packs bits little-endian: each group of up to three bytes
// is read as a little-endian integer and written six bits at a time, least
// significant bits first. encoding/base64 packs big-endian and cannot
// express this layout.
package crypt64

import "github.com/grailbio/base/errors"

const alphabet = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

var decodeMap [256]byte

const invalid = 0xff

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = byte(i)
	}
}

// ErrInvalidEncoding is returned for characters outside the alphabet,
// truncated input, and encodings with non-zero padding bits.
var ErrInvalidEncoding = errors.E(errors.Integrity, "crypt64: invalid encoding")

// EncodedLen returns the length of the encoding of n bytes.
func EncodedLen(n int) int {
	return (n*8 + 5) / 6
}

// DecodedLen returns the number of bytes encoded by n characters. It returns
// -1 for lengths no encoding can have.
func DecodedLen(n int) int {
	if n%4 == 1 {
		return -1
	}
	return n * 6 / 8
}

// Char returns the character encoding the 6-bit value v.
func Char(v uint32) byte {
	return alphabet[v&0x3f]
}

// Value returns the 6-bit value encoded by c.
func Value(c byte) (uint32, bool) {
	v := decodeMap[c]
	return uint32(v), v != invalid
}

// AppendUint32 appends the low bits of v, rounded up to a multiple of six,
// least significant group first.
func AppendUint32(dst []byte, v uint32, bits int) []byte {
	for bit := 0; bit < bits; bit += 6 {
		dst = append(dst, Char(v))
		v >>= 6
	}
	return dst
}

// Uint32 decodes a value of the given bit width from the front of src and
// returns it with the number of characters consumed.
func Uint32(src []byte, bits int) (v uint32, n int, err error) {
	for bit := 0; bit < bits; bit += 6 {
		if n >= len(src) {
			return 0, 0, ErrInvalidEncoding
		}
		c, ok := Value(src[n])
		if !ok {
			return 0, 0, ErrInvalidEncoding
		}
		v |= c << uint(bit)
		n++
	}
	return v, n, nil
}

// Append appends the encoding of src to dst.
func Append(dst, src []byte) []byte {
	for i := 0; i < len(src); {
		var value uint32
		bits := 0
		for bits < 24 && i < len(src) {
			value |= uint32(src[i]) << uint(bits)
			bits += 8
			i++
		}
		dst = AppendUint32(dst, value, bits)
	}
	return dst
}

// Encode returns the encoding of src.
func Encode(src []byte) []byte {
	return Append(make([]byte, 0, EncodedLen(len(src))), src)
}

// Decode decodes src. Only canonical encodings, as produced by Encode, are
// accepted.
func Decode(src []byte) ([]byte, error) {
	n := DecodedLen(len(src))
	if n < 0 {
		return nil, ErrInvalidEncoding
	}
	dst := make([]byte, 0, n)
	for len(src) > 0 {
		chars := len(src)
		if chars > 4 {
			chars = 4
		}
		bytes := chars * 6 / 8
		value, _, err := Uint32(src[:chars], chars*6)
		if err != nil {
			return nil, err
		}
		if value>>uint(bytes*8) != 0 {
			return nil, ErrInvalidEncoding
		}
		for i := 0; i < bytes; i++ {
			dst = append(dst, byte(value))
			value >>= 8
		}
		src = src[chars:]
	}
	return dst, nil
}
