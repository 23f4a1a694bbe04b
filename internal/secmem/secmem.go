// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package secmem holds the small amount of memory hygiene shared by the
// key derivation packages: zeroing, constant-time comparison and
// best-effort page locking of secret buffers.
package secmem

import (
	"crypto/subtle"
	"runtime"
	"unsafe"
)

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroWords overwrites w with zeros.
func ZeroWords(w []uint32) {
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(w)
}

// LockWords is Lock for a word slice.
func LockWords(w []uint32) bool { return Lock(wordBytes(w)) }

// UnlockWords is Unlock for a word slice.
func UnlockWords(w []uint32) { Unlock(wordBytes(w)) }

func wordBytes(w []uint32) []byte {
	if len(w) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&w[0])), len(w)*4)
}

// Equal reports whether a and b hold the same bytes. The time taken depends
// only on the lengths of the slices, which are treated as public.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return subtle.ConstantTimeByteEq(v, 0) == 1
}
