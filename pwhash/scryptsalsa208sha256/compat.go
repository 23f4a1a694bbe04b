// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scryptsalsa208sha256

import (
	"github.com/grailbio/base/errors"
)

// ErrMismatchedHashAndPassword is returned from CompareHashAndPassword when a
// password and hash do not match.
var ErrMismatchedHashAndPassword = errors.E(errors.NotAllowed,
	"scryptsalsa208sha256: hashedPassword is not the hash of the given password")

// GenerateFromPassword returns the verifier text of password at the given
// cost, in the form CompareHashAndPassword expects. It is Pwhash for callers
// storing verifiers as byte slices, in the manner of bcrypt.
func GenerateFromPassword(password []byte, ops OpsLimit, mem MemLimit) ([]byte, error) {
	hp, err := Pwhash(password, ops, mem)
	if err != nil {
		return nil, err
	}
	return hp.MarshalText()
}

// CompareHashAndPassword compares a verifier with its possible plaintext
// equivalent. It returns nil on success, ErrMismatchedHashAndPassword for a
// wrong password, and a decoding error when hashedPassword is not a
// well-formed verifier.
func CompareHashAndPassword(hashedPassword, password []byte) error {
	hp, err := ParseHashedPassword(hashedPassword)
	if err != nil {
		return err
	}
	return verify(&hp, password)
}
