// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package pbkdf2 implements the key derivation function PBKDF2 as defined in
RFC 8018 (PKCS #5 v2.1).

A key derivation function is useful when encrypting data based on a password
or any other not-fully-random data. It uses a pseudorandom function to derive
a secure encryption key based on the password.

scrypt uses PBKDF2 with HMAC-SHA-256 and a single iteration, twice: once to
expand the password and salt into its working buffer and once to compress
the mixed buffer into the output key.

	dk := pbkdf2.Key([]byte("some password"), salt, 4096, 32, sha256.New)
*/
package pbkdf2

import (
	"crypto/hmac"
	"encoding/binary"
	"hash"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
	"github.com/sodiumgo/crypto/internal/secmem"
)

var (
	// ErrInvalidLengthParameter is returned when the requested output length
	// is zero, negative, or larger than (2^32-1) blocks of the underlying hash.
	ErrInvalidLengthParameter = errors.E(errors.Invalid, "pbkdf2: invalid length parameter")

	// ErrInvalidIterationsParameter is returned when the iteration count is
	// smaller than one.
	ErrInvalidIterationsParameter = errors.E(errors.Invalid, "pbkdf2: invalid iterations parameter")
)

// Verify KDF completely implements the io.Reader interface.
var _ io.Reader = &KDF{}

// KDF is a PBKDF2 output stream. Successive reads return successive bytes of
// the derived key until length bytes have been produced.
type KDF struct {
	prf        hash.Hash
	salt       []byte
	iterations int
	length     int
	position   int
	block      uint32
	// buffer holds the unread tail of the last computed block.
	buffer []byte
	t, u   []byte
}

// NewKDF returns a PBKDF2 stream producing length bytes derived from password
// and salt with iter iterations of HMAC keyed by h.
func NewKDF(password, salt []byte, iter, length int, h func() hash.Hash) (*KDF, error) {
	if iter < 1 {
		return nil, ErrInvalidIterationsParameter
	}
	prf := hmac.New(h, password)
	maxlen := int64(1<<32-1) * int64(prf.Size())
	if length <= 0 || int64(length) > maxlen {
		return nil, ErrInvalidLengthParameter
	}
	return &KDF{
		prf:        prf,
		salt:       salt,
		iterations: iter,
		length:     length,
		t:          make([]byte, 0, prf.Size()),
		u:          make([]byte, 0, prf.Size()),
	}, nil
}

// Read reads the next len(p) bytes of the derived key.
func (kdf *KDF) Read(p []byte) (n int, err error) {
	toRead := len(p)
	if left := kdf.length - kdf.position; left < toRead {
		toRead = left
	}
	if toRead == 0 {
		return 0, io.EOF
	}
	// Use buffered data first to attempt to satisfy request.
	if len(kdf.buffer) > 0 {
		n = copy(p[:toRead], kdf.buffer)
		kdf.buffer = kdf.buffer[n:]
	}
	for n < toRead {
		t := kdf.next()
		m := copy(p[n:toRead], t)
		kdf.buffer = t[m:]
		n += m
	}
	kdf.position += n
	return n, nil
}

// next computes T_i = U_1 ^ U_2 ^ ... ^ U_c for the next block index i.
func (kdf *KDF) next() []byte {
	kdf.block++
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], kdf.block)

	prf := kdf.prf
	prf.Reset()
	prf.Write(kdf.salt)
	prf.Write(buf[:])
	kdf.t = prf.Sum(kdf.t[:0])
	kdf.u = append(kdf.u[:0], kdf.t...)

	for n := 2; n <= kdf.iterations; n++ {
		prf.Reset()
		prf.Write(kdf.u)
		kdf.u = prf.Sum(kdf.u[:0])
		for i, v := range kdf.u {
			kdf.t[i] ^= v
		}
	}
	return kdf.t
}

// Wipe zeroes the internal block buffers. The HMAC state keyed by the
// password is owned by the hash implementation and cannot be cleared here.
func (kdf *KDF) Wipe() {
	secmem.Zero(kdf.t[:cap(kdf.t)])
	secmem.Zero(kdf.u[:cap(kdf.u)])
	kdf.buffer = nil
}

// KeyChecked derives a key of keyLen bytes from the password, salt and
// iteration count, using h as the HMAC hash. Invalid parameters are
// reported as errors of kind errors.Invalid.
func KeyChecked(password, salt []byte, iter, keyLen int, h func() hash.Hash) ([]byte, error) {
	kdf, err := NewKDF(password, salt, iter, keyLen, h)
	if err != nil {
		return nil, err
	}
	defer kdf.Wipe()
	dk := make([]byte, keyLen)
	if _, err := io.ReadFull(kdf, dk); err != nil {
		return nil, err
	}
	return dk, nil
}

// Key derives a key from the password, salt and iteration count, returning a
// []byte of length keyLen that can be used as cryptographic key. The key is
// derived based on the method described as PBKDF2 with the HMAC variant using
// the supplied hash function.
//
// Key panics if iter < 1 or keyLen is out of range; use KeyChecked when the
// parameters are not under the caller's control.
func Key(password, salt []byte, iter, keyLen int, h func() hash.Hash) []byte {
	dk, err := KeyChecked(password, salt, iter, keyLen, h)
	must.Nil(err)
	return dk
}
