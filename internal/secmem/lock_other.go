// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package secmem

// Lock is a no-op on platforms without mlock.
func Lock(b []byte) bool { return false }

// Unlock is a no-op on platforms without mlock.
func Unlock(b []byte) {}
