// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package secmem

import "golang.org/x/sys/unix"

// Lock asks the kernel to keep the pages backing b out of swap. It reports
// whether the request succeeded; failure (typically RLIMIT_MEMLOCK) is not
// an error for callers, who proceed with unlocked memory.
func Lock(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	return unix.Mlock(b) == nil
}

// Unlock releases a lock taken by Lock. It must only be called when Lock
// returned true for the same slice.
func Unlock(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Munlock(b)
}
