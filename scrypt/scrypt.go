// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scrypt implements the scrypt key derivation function as defined in
// Colin Percival's paper "Stronger Key Derivation via Sequential Memory-Hard
// Functions" (https://www.tarsnap.com/scrypt/scrypt.pdf) and RFC 7914.
//
// The construction is PBKDF2-HMAC-SHA-256 to expand the password and salt
// into p lanes of 128*r bytes, ROMix over each lane with Salsa20/8 as the
// mixing core, and PBKDF2-HMAC-SHA-256 again to compress the lanes into the
// output key.
//
// Errors are *github.com/grailbio/base/errors.Error values: invalid cost
// parameters have kind errors.Invalid, and parameters whose scratch memory
// cannot be provided have kind errors.OOM.
package scrypt

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/bits"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
	"github.com/grailbio/base/traverse"
	"github.com/sodiumgo/crypto/internal/secmem"
	"github.com/sodiumgo/crypto/pbkdf2"
	"github.com/sodiumgo/crypto/salsa20/salsa"
)

const maxInt = int(^uint(0) >> 1)

// Params are the scrypt cost parameters.
type Params struct {
	// N is the CPU/memory cost. It must be a power of two greater than 1.
	N int
	// R is the block size multiplier.
	R int
	// P is the parallelization factor: the number of independent lanes.
	P int
}

// Validate checks that the parameters are usable. r*p must be below 2^30,
// and the buffers they imply must be addressable.
func (p Params) Validate() error {
	if p.N <= 1 || p.N&(p.N-1) != 0 {
		return errors.E(errors.Invalid, "scrypt: N must be > 1 and a power of 2")
	}
	if p.R < 1 || p.P < 1 {
		return errors.E(errors.Invalid, "scrypt: r and p must be positive")
	}
	if uint64(p.R)*uint64(p.P) >= 1<<30 {
		return errors.E(errors.Invalid, "scrypt: r*p must be < 2^30")
	}
	if p.R > maxInt/256 || p.R > maxInt/128/p.P || p.N > maxInt/128/p.R {
		return errors.E(errors.OOM, "scrypt: parameters are too large")
	}
	return nil
}

// LogN returns log2(N). It is only meaningful for valid parameters.
func (p Params) LogN() int {
	return bits.TrailingZeros64(uint64(p.N))
}

// Memory returns the size in bytes of the scratch region used by one lane.
func (p Params) Memory() uint64 {
	return 128 * uint64(p.R) * uint64(p.N)
}

// MinMemory returns the smallest Engine.MaxMemory that can run the
// parameters: one lane's scratch and mixing buffers plus the 128*r*p byte
// buffer holding every lane.
func (p Params) MinMemory() uint64 {
	lane, seed := p.footprint()
	return lane + seed
}

// footprint returns the bytes held by each running lane and the bytes of
// the buffer shared by all lanes.
func (p Params) footprint() (lane, seed uint64) {
	return p.Memory() + 256*uint64(p.R), 128 * uint64(p.R) * uint64(p.P)
}

func (p Params) String() string {
	return fmt.Sprintf("N=%d,r=%d,p=%d", p.N, p.R, p.P)
}

// An Engine computes scrypt keys. The zero Engine runs as many lanes
// concurrently as GOMAXPROCS allows and places no bound on memory.
type Engine struct {
	// Parallelism bounds the number of lanes computed concurrently. Each
	// concurrent lane owns a scratch region of Params.Memory bytes. Zero
	// means runtime.GOMAXPROCS(0).
	Parallelism int
	// MaxMemory bounds the working memory of one call, in bytes: the
	// 128*r*p byte lane buffer plus the scratch of every running lane.
	// Concurrency is reduced until the running lanes fit; parameters that do
	// not fit even with a single lane (see Params.MinMemory) fail with
	// errors.OOM before anything is allocated. Zero means no bound.
	MaxMemory uint64
}

// workers returns how many lanes run at once, each holding lane bytes of
// scratch next to the seed bytes shared by all of them, or 0 if not even one
// fits.
func (e Engine) workers(p int, lane, seed uint64) int {
	n := e.Parallelism
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > p {
		n = p
	}
	if limit := uint64(maxInt) / lane; uint64(n) > limit {
		n = int(limit)
	}
	if e.MaxMemory > 0 {
		if seed >= e.MaxMemory {
			return 0
		}
		if limit := (e.MaxMemory - seed) / lane; uint64(n) > limit {
			n = int(limit)
		}
	}
	return n
}

// Key derives a key from the password, salt, and cost parameters, returning
// a byte slice of length keyLen. No output is returned on error.
func (e Engine) Key(password, salt []byte, params Params, keyLen int) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if keyLen < 1 {
		return nil, errors.E(errors.Invalid, "scrypt: key length must be positive")
	}
	if uint64(keyLen) > (1<<32-1)*sha256.Size {
		return nil, errors.E(errors.Invalid, "scrypt: key length too large")
	}
	var (
		N, r, p    = params.N, params.R, params.P
		lane, seed = params.footprint()
		workers    = e.workers(p, lane, seed)
	)
	if workers == 0 {
		return nil, errors.E(errors.OOM,
			fmt.Sprintf("scrypt: %s needs %d bytes of working memory, over the limit of %d bytes",
				params, params.MinMemory(), e.MaxMemory))
	}

	scratch, err := allocate(workers, r, N)
	if err != nil {
		return nil, err
	}
	defer release(scratch)

	b := pbkdf2.Key(password, salt, 1, p*128*r, sha256.New)
	if secmem.Lock(b) {
		defer secmem.Unlock(b)
	}
	defer secmem.Zero(b)

	err = traverse.Limit(workers).Each(workers, func(w int) error {
		s := scratch[w]
		for i := w; i < p; i += workers {
			roMix(b[i*128*r:(i+1)*128*r], r, N, s.v, s.xy)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key(password, b, 1, keyLen, sha256.New), nil
}

// Key derives a key from the password, salt, and cost parameters, returning
// a byte slice of length keyLen that can be used as cryptographic key.
//
// N is a CPU/memory cost parameter, which must be a power of two greater than 1.
// r and p must satisfy r * p < 2³⁰. If the parameters do not satisfy the
// limits, the function returns a nil byte slice and an error.
//
// For example, you can get a derived key for e.g. AES-256 (which needs a
// 32-byte key) by doing:
//
//	dk, err := scrypt.Key([]byte("some password"), salt, 32768, 8, 1, 32)
//
// The recommended parameters for interactive logins as of 2017 are N=32768, r=8
// and p=1. The parameters N, r, and p should be increased as memory latency and
// CPU parallelism increases; consider setting N to the highest power of 2 you
// can derive within 100 milliseconds. Remember to get a good random salt.
func Key(password, salt []byte, N, r, p, keyLen int) ([]byte, error) {
	return Engine{}.Key(password, salt, Params{N: N, R: r, P: p}, keyLen)
}

// laneScratch is the working memory of one worker: v holds N blocks of
// 32*r words, xy holds the two 32*r word buffers blockMix alternates between.
type laneScratch struct {
	v, xy  []uint32
	locked bool
}

// allocate reserves the scratch regions for workers lanes. A runtime
// allocation failure that surfaces as a panic is reported as errors.OOM.
func allocate(workers, r, N int) (scratch []laneScratch, err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if _, ok := e.(runtime.Error); !ok {
			panic(e)
		}
		release(scratch)
		scratch = nil
		err = errors.E(errors.OOM, fmt.Sprintf("scrypt: cannot allocate %d scratch regions of %d bytes: %v", workers, 128*r*N, e))
	}()
	scratch = make([]laneScratch, 0, workers)
	for i := 0; i < workers; i++ {
		s := laneScratch{
			xy: make([]uint32, 64*r),
			v:  make([]uint32, 32*r*N),
		}
		s.locked = secmem.LockWords(s.v)
		scratch = append(scratch, s)
	}
	return scratch, nil
}

// release zeroes and unlocks the scratch regions. They are never reused.
func release(scratch []laneScratch) {
	for _, s := range scratch {
		secmem.ZeroWords(s.xy)
		secmem.ZeroWords(s.v)
		if s.locked {
			secmem.UnlockWords(s.v)
		}
	}
}

// blockCopy copies n words from src into dst.
func blockCopy(dst, src []uint32, n int) {
	copy(dst, src[:n])
}

// blockXOR XORs n words from src into dst.
func blockXOR(dst, src []uint32, n int) {
	for i, v := range src[:n] {
		dst[i] ^= v
	}
}

// salsaXOR applies Salsa20/8 to the XOR of 16 words from tmp and in,
// and puts the result into both tmp and out.
func salsaXOR(tmp *[16]uint32, in, out []uint32) {
	blockXOR(tmp[:], in, 16)
	salsa.Mix208(tmp, tmp)
	blockCopy(out, tmp[:], 16)
}

// blockMix computes BlockMix_{Salsa20/8, r} of in into out. The output
// blocks are written already de-interleaved: even-indexed results fill the
// first half of out and odd-indexed results the second half.
func blockMix(tmp *[16]uint32, in, out []uint32, r int) {
	blockCopy(tmp[:], in[(2*r-1)*16:], 16)
	for i := 0; i < 2*r; i += 2 {
		salsaXOR(tmp, in[i*16:], out[i*8:])
		salsaXOR(tmp, in[i*16+16:], out[i*8+r*16:])
	}
}

// integer returns Integerify(b): the first 64 bits of the last 64-byte block
// of b, little-endian.
func integer(b []uint32, r int) uint64 {
	j := (2*r - 1) * 16
	return uint64(b[j]) | uint64(b[j+1])<<32
}

// roMix runs ROMix_{r}(b, N) in place. v must hold N*32*r words and xy
// 64*r words; both belong to the caller and are overwritten.
func roMix(b []byte, r, N int, v, xy []uint32) {
	R := 32 * r
	must.True(len(b) == 4*R, "scrypt: roMix: lane is not 128*r bytes")
	must.True(len(v) >= N*R && len(xy) >= 2*R, "scrypt: roMix: short scratch region")

	var tmp [16]uint32
	x := xy
	y := xy[R:]

	j := 0
	for i := 0; i < R; i++ {
		x[i] = binary.LittleEndian.Uint32(b[j:])
		j += 4
	}
	for i := 0; i < N; i += 2 {
		blockCopy(v[i*R:], x, R)
		blockMix(&tmp, x, y, r)

		blockCopy(v[(i+1)*R:], y, R)
		blockMix(&tmp, y, x, r)
	}
	for i := 0; i < N; i += 2 {
		j := int(integer(x, r) & uint64(N-1))
		blockXOR(x, v[j*R:], R)
		blockMix(&tmp, x, y, r)

		j = int(integer(y, r) & uint64(N-1))
		blockXOR(y, v[j*R:], R)
		blockMix(&tmp, y, x, r)
	}
	j = 0
	for _, v := range x[:R] {
		binary.LittleEndian.PutUint32(b[j:], v)
		j += 4
	}
	secmem.ZeroWords(tmp[:])
}
