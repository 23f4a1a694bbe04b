// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scryptsalsa208sha256 implements password hashing with scrypt
// instantiated with Salsa20/8 and SHA-256, compatible with libsodium's
// crypto_pwhash_scryptsalsa208sha256.
//
// DeriveKey turns a password and a salt into key material. Pwhash produces a
// self-describing HashedPassword ("$7$...") that embeds the cost parameters
// and a random salt, and PwhashVerify checks a password against it.
// Verifiers produced here and by libsodium are interchangeable.
//
// Errors are *github.com/grailbio/base/errors.Error values classified by
// kind: errors.Invalid for unusable cost parameters or key sizes,
// errors.OOM when the scratch memory cannot be provided, errors.NotSupported
// for strings that are not "$7$" verifiers, and errors.Integrity for
// malformed verifiers. Failures of the derivation itself carry the message
// "key derivation failed" and the kind of their cause. PwhashVerify never
// returns an error: every failure is reported as false.
package scryptsalsa208sha256

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/sodiumgo/crypto/internal/secmem"
	"github.com/sodiumgo/crypto/randombytes"
	"github.com/sodiumgo/crypto/scrypt"
)

const (
	// SaltBytes is the size of a Salt.
	SaltBytes = 32

	// BytesMin and BytesMax bound the size of keys produced by DeriveKey.
	BytesMin = 16
	BytesMax = (1<<32 - 1) * 32
)

// MaxVerifyMemory bounds the working memory, in bytes, that a verifier
// passed to PwhashVerify may demand (see scrypt.Engine.MaxMemory). Verifiers asking for more fail
// verification rather than exhausting the process. It should only be
// changed during program initialization.
var MaxVerifyMemory = 4 * uint64(MemLimitSensitive)

// Salt is the random per-password input of DeriveKey.
type Salt [SaltBytes]byte

// Wipe zeroes the salt.
func (s *Salt) Wipe() {
	secmem.Zero(s[:])
}

// SaltFromSlice returns a Salt holding b, which must be SaltBytes long.
func SaltFromSlice(b []byte) (Salt, error) {
	var s Salt
	if len(b) != SaltBytes {
		return s, errors.E(errors.Invalid, fmt.Sprintf("scryptsalsa208sha256: salt must be %d bytes, got %d", SaltBytes, len(b)))
	}
	copy(s[:], b)
	return s, nil
}

// Init prepares the package's random source. It is idempotent and safe for
// concurrent use; calling it is optional, but it surfaces an unusable random
// source early.
func Init() error {
	return randombytes.Init()
}

// GenSalt returns a new random Salt.
func GenSalt() Salt {
	var s Salt
	b := randombytes.Random(SaltBytes)
	copy(s[:], b)
	secmem.Zero(b)
	return s
}

// DeriveKey derives a key from a password and a Salt and stores it into
// key, which must be between BytesMin and BytesMax bytes long.
//
// ops and mem bound the computation and the memory used; the same password,
// salt, ops and mem always produce the same key. OpsLimitInteractive and
// MemLimitInteractive are a safe baseline; OpsLimitSensitive and
// MemLimitSensitive take seconds and up to 1 GiB of RAM.
//
// key is zeroed first and left zeroed on failure.
func DeriveKey(key, password []byte, salt *Salt, ops OpsLimit, mem MemLimit) error {
	secmem.Zero(key)
	params, err := pickParams(ops, mem)
	if err != nil {
		return derivationFailed(err)
	}
	return deriveKey(key, password, salt[:], params, engineFor(mem, params))
}

// DeriveKeyWithParams is DeriveKey with explicit scrypt parameters and an
// arbitrary salt.
func DeriveKeyWithParams(key, password, salt []byte, params scrypt.Params) error {
	secmem.Zero(key)
	return deriveKey(key, password, salt, params, scrypt.Engine{})
}

func deriveKey(key, password, salt []byte, params scrypt.Params, engine scrypt.Engine) error {
	if len(key) < BytesMin || uint64(len(key)) > BytesMax {
		return derivationFailed(errors.E(errors.Invalid,
			fmt.Sprintf("key must be between %d and %d bytes, got %d", BytesMin, uint64(BytesMax), len(key))))
	}
	dk, err := engine.Key(password, salt, params, len(key))
	if err != nil {
		return derivationFailed(err)
	}
	copy(key, dk)
	secmem.Zero(dk)
	return nil
}

func derivationFailed(err error) error {
	return errors.E("scryptsalsa208sha256: key derivation failed", err)
}

// Pwhash returns a HashedPassword for password. It embeds a fresh random
// salt and the parameters derived from ops and mem, so that PwhashVerify
// needs nothing else.
func Pwhash(password []byte, ops OpsLimit, mem MemLimit) (HashedPassword, error) {
	params, err := pickParams(ops, mem)
	if err != nil {
		return HashedPassword{}, derivationFailed(err)
	}
	v := &Verifier{Params: params}
	if err := randombytes.Buf(v.Salt[:]); err != nil {
		return HashedPassword{}, err
	}
	digest, err := v.compute(password, engineFor(mem, params))
	if err != nil {
		return HashedPassword{}, derivationFailed(err)
	}
	copy(v.Digest[:], digest)
	secmem.Zero(digest)
	hp, err := v.Encode()
	secmem.Zero(v.Digest[:])
	return hp, err
}

// compute returns the digest of password under v's parameters and salt.
func (v *Verifier) compute(password []byte, engine scrypt.Engine) ([]byte, error) {
	var buf [settingBytes]byte
	setting, err := v.appendSetting(buf[:0])
	if err != nil {
		return nil, err
	}
	return engine.Key(password, setting[len(setting)-saltTextBytes:], v.Params, DigestBytes)
}

// PwhashVerify reports whether password matches the verifier hp produced by
// Pwhash. A malformed or foreign verifier is reported as false, exactly like
// a wrong password, and so is a nil hp.
func PwhashVerify(hp *HashedPassword, password []byte) bool {
	err := verify(hp, password)
	if err != nil && err != ErrMismatchedHashAndPassword {
		log.Debug.Printf("scryptsalsa208sha256: verifier rejected: %v", err)
	}
	return err == nil
}

// verify recomputes the digest embedded in hp, bounded by MaxVerifyMemory,
// and compares it with the stored one in constant time.
func verify(hp *HashedPassword, password []byte) error {
	v, err := DecodeVerifier(hp)
	if err != nil {
		return err
	}
	defer secmem.Zero(v.Digest[:])
	digest, err := v.compute(password, scrypt.Engine{MaxMemory: MaxVerifyMemory})
	if err != nil {
		return derivationFailed(err)
	}
	defer secmem.Zero(digest)
	if !secmem.Equal(digest, v.Digest[:]) {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

// PwhashVerifyBytes is PwhashVerify for a verifier as read from storage:
// the text, optionally NUL-padded up to StrBytes.
func PwhashVerifyBytes(stored, password []byte) bool {
	hp, err := ParseHashedPassword(stored)
	if err != nil {
		log.Debug.Printf("scryptsalsa208sha256: verifier rejected: %v", err)
		return false
	}
	return PwhashVerify(&hp, password)
}

// NeedsRehash reports whether hp was produced with parameters other than
// those ops and mem select, in which case the password should be hashed
// again on the next successful verification.
func NeedsRehash(hp *HashedPassword, ops OpsLimit, mem MemLimit) (bool, error) {
	v, err := DecodeVerifier(hp)
	if err != nil {
		return false, err
	}
	want, err := pickParams(ops, mem)
	if err != nil {
		return false, err
	}
	return v.Params != want, nil
}
