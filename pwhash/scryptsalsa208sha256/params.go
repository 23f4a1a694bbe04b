// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scryptsalsa208sha256

import (
	"math/bits"

	"github.com/grailbio/base/errors"
	"github.com/sodiumgo/crypto/scrypt"
)

// OpsLimit is the maximum amount of computation to perform. A higher
// OpsLimit makes derivation require more CPU cycles.
type OpsLimit uint64

// MemLimit is the maximum amount of RAM, in bytes, a derivation may use.
// It is highly recommended to allow at least 16 megabytes.
type MemLimit uint64

const (
	// OpsLimitInteractive and MemLimitInteractive are a safe baseline for
	// interactive, online operations: N=2^14, r=8, p=1, 16 MiB.
	OpsLimitInteractive OpsLimit = 524288
	MemLimitInteractive MemLimit = 16777216

	// OpsLimitSensitive and MemLimitSensitive are meant for highly
	// sensitive data: N=2^20, r=8, p=1, 1 GiB. Deriving a key with them
	// takes seconds.
	OpsLimitSensitive OpsLimit = 33554432
	MemLimitSensitive MemLimit = 1073741824
)

const (
	minOpsLimit = 32768
	blockSizeR  = 8
	maxRP       = 1<<30 - 1
)

// pickParams maps an operations and memory budget to scrypt parameters.
// r is always 8. When the memory budget dominates, N is sized from the
// operations budget and p is 1; otherwise N is the largest power of two
// fitting in the memory budget and p absorbs the remaining operations.
func pickParams(ops OpsLimit, mem MemLimit) (scrypt.Params, error) {
	if ops < minOpsLimit {
		ops = minOpsLimit
	}
	var (
		logN int
		p    uint64
	)
	if uint64(ops) < uint64(mem)/32 {
		p = 1
		logN = logNFor(uint64(ops) / (blockSizeR * 4))
	} else {
		logN = logNFor(uint64(mem) / (blockSizeR * 128))
		maxrp := (uint64(ops) / 4) >> uint(logN)
		if maxrp > maxRP {
			maxrp = maxRP
		}
		p = maxrp / blockSizeR
	}
	if p < 1 {
		p = 1
	}
	if logN > bits.UintSize-2 {
		return scrypt.Params{}, errors.E(errors.OOM, "scryptsalsa208sha256: memory limit too large for this platform")
	}
	params := scrypt.Params{N: 1 << uint(logN), R: blockSizeR, P: int(p)}
	return params, params.Validate()
}

// logNFor returns the smallest n in [1, 63] such that 2^n > maxN/2.
func logNFor(maxN uint64) int {
	n := 1
	for ; n < 63; n++ {
		if uint64(1)<<uint(n) > maxN/2 {
			break
		}
	}
	return n
}

// engineFor returns the engine used for derivations budgeted by mem. The
// budget bounds the concurrent lanes but never rejects the single lane
// pickParams chose for it.
func engineFor(mem MemLimit, params scrypt.Params) scrypt.Engine {
	limit := uint64(mem)
	if m := params.MinMemory(); limit < m {
		limit = m
	}
	return scrypt.Engine{MaxMemory: limit}
}
