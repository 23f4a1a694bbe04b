// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randombytes is the source of unpredictable bytes for salts.
package randombytes

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
	"github.com/sodiumgo/crypto/internal/secmem"
)

// Reader is the random source. It defaults to crypto/rand.Reader and must
// only be replaced before first use, typically in tests.
var Reader io.Reader = rand.Reader

var (
	initOnce sync.Once
	initErr  error
)

// Init checks once that the random source can be read. It is safe to call
// any number of times from any goroutine; every call returns the result of
// the first check.
func Init() error {
	initOnce.Do(func() {
		var probe [16]byte
		initErr = Buf(probe[:])
		secmem.Zero(probe[:])
	})
	return initErr
}

// Buf fills b with random bytes.
func Buf(b []byte) error {
	if _, err := io.ReadFull(Reader, b); err != nil {
		return errors.E(errors.Unavailable, "randombytes: reading random source", err)
	}
	return nil
}

// Random returns n random bytes. A failing random source is fatal.
func Random(n int) []byte {
	b := make([]byte, n)
	must.Nil(Buf(b), "randombytes")
	return b
}
