// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scryptsalsa208sha256

import (
	"bytes"
	"fmt"
	"math/bits"

	"github.com/grailbio/base/errors"
	"github.com/sodiumgo/crypto/internal/crypt64"
	"github.com/sodiumgo/crypto/internal/secmem"
	"github.com/sodiumgo/crypto/scrypt"
)

const (
	// StrPrefix identifies the algorithm and encoding of a HashedPassword.
	StrPrefix = "$7$"

	// StrBytes is the size of a HashedPassword, including the NUL
	// terminator.
	StrBytes = len(StrPrefix) + 1 + 5 + 5 + saltTextBytes + 1 + digestTextBytes + 1

	// DigestBytes is the size of the digest embedded in a HashedPassword.
	DigestBytes = 32

	paramBits       = 30
	saltTextBytes   = (SaltBytes*8 + 5) / 6
	digestTextBytes = (DigestBytes*8 + 5) / 6
	settingBytes    = len(StrPrefix) + 1 + 5 + 5 + saltTextBytes
)

// HashedPassword is a password verifier generated by Pwhash. It is
// NUL-terminated and holds only ASCII characters, so it can be stored in SQL
// databases and other data stores as is. No additional information is
// needed to verify a password against it.
//
// The layout is
//
//	$7$ <log2 N> <r> <p> <salt> $ <digest> NUL
//
// with log2 N one character, r and p five characters each, and the 32-byte
// salt and digest 43 characters each, all in the crypt64 encoding.
type HashedPassword [StrBytes]byte

// String returns the verifier text, without the terminator.
func (hp HashedPassword) String() string {
	return string(hp.text())
}

// MarshalText implements encoding.TextMarshaler.
func (hp HashedPassword) MarshalText() ([]byte, error) {
	return hp.text(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text must be a
// well-formed verifier.
func (hp *HashedPassword) UnmarshalText(text []byte) error {
	parsed, err := ParseHashedPassword(text)
	if err != nil {
		return err
	}
	*hp = parsed
	return nil
}

// Wipe zeroes the verifier.
func (hp *HashedPassword) Wipe() {
	secmem.Zero(hp[:])
}

func (hp HashedPassword) text() []byte {
	if i := bytes.IndexByte(hp[:], 0); i >= 0 {
		return hp[:i]
	}
	return hp[:]
}

// ParseHashedPassword copies a stored verifier into a HashedPassword. b
// holds the verifier text, optionally followed by NUL padding up to
// StrBytes. The verifier is checked for well-formedness.
func ParseHashedPassword(b []byte) (HashedPassword, error) {
	var hp HashedPassword
	if len(b) > StrBytes {
		return hp, malformed("verifier", "longer than %d bytes", StrBytes)
	}
	text := b
	if i := bytes.IndexByte(b, 0); i >= 0 {
		text = b[:i]
		for _, c := range b[i:] {
			if c != 0 {
				return hp, malformed("verifier", "embedded NUL byte")
			}
		}
	}
	if len(text) >= StrBytes {
		return hp, malformed("verifier", "missing terminator")
	}
	copy(hp[:], text)
	if _, err := DecodeVerifier(&hp); err != nil {
		return HashedPassword{}, err
	}
	return hp, nil
}

// A Verifier is the decoded content of a HashedPassword.
type Verifier struct {
	Params scrypt.Params
	Salt   Salt
	Digest [DigestBytes]byte
}

// Encode returns the HashedPassword representing v.
func (v *Verifier) Encode() (HashedPassword, error) {
	var hp HashedPassword
	b, err := v.appendSetting(hp[:0])
	if err != nil {
		return hp, err
	}
	b = append(b, '$')
	b = crypt64.Append(b, v.Digest[:])
	if len(b) != StrBytes-1 {
		return HashedPassword{}, errors.E(errors.Invalid, fmt.Sprintf("scryptsalsa208sha256: encoded verifier has %d bytes", len(b)))
	}
	return hp, nil
}

// appendSetting appends the prefix, parameters and encoded salt. The
// encoded salt, not the raw salt bytes, is the scrypt salt of the digest.
func (v *Verifier) appendSetting(dst []byte) ([]byte, error) {
	if err := v.Params.Validate(); err != nil {
		return nil, err
	}
	dst = append(dst, StrPrefix...)
	dst = append(dst, crypt64.Char(uint32(v.Params.LogN())))
	dst = crypt64.AppendUint32(dst, uint32(v.Params.R), paramBits)
	dst = crypt64.AppendUint32(dst, uint32(v.Params.P), paramBits)
	return crypt64.Append(dst, v.Salt[:]), nil
}

// DecodeVerifier parses a HashedPassword. Strings without the "$7$"
// prefix fail with kind errors.NotSupported; any other defect fails with
// kind errors.Integrity. A nil hp fails with kind errors.Invalid.
func DecodeVerifier(hp *HashedPassword) (*Verifier, error) {
	if hp == nil {
		return nil, errors.E(errors.Invalid, "scryptsalsa208sha256: nil verifier")
	}
	text := hp.text()
	if !bytes.HasPrefix(text, []byte(StrPrefix)) {
		return nil, errors.E(errors.NotSupported, "scryptsalsa208sha256: unrecognized format")
	}
	if len(text) != StrBytes-1 {
		return nil, malformed("verifier", "length %d, want %d", len(text), StrBytes-1)
	}
	src := text[len(StrPrefix):]

	logN, ok := crypt64.Value(src[0])
	if !ok || logN < 1 || int(logN) > bits.UintSize-2 {
		return nil, malformed("N", "invalid cost")
	}
	src = src[1:]
	r, n, err := crypt64.Uint32(src, paramBits)
	if err != nil {
		return nil, malformed("r", "%v", err)
	}
	src = src[n:]
	p, n, err := crypt64.Uint32(src, paramBits)
	if err != nil {
		return nil, malformed("p", "%v", err)
	}
	src = src[n:]

	v := new(Verifier)
	v.Params = scrypt.Params{N: 1 << logN, R: int(r), P: int(p)}
	if err := v.Params.Validate(); err != nil {
		return nil, malformed("parameters", "%v", err)
	}

	salt, err := crypt64.Decode(src[:saltTextBytes])
	if err != nil || len(salt) != SaltBytes {
		return nil, malformed("salt", "invalid encoding")
	}
	copy(v.Salt[:], salt)
	src = src[saltTextBytes:]

	if src[0] != '$' {
		return nil, malformed("digest", "missing separator")
	}
	digest, err := crypt64.Decode(src[1:])
	if err != nil || len(digest) != DigestBytes {
		return nil, malformed("digest", "invalid encoding")
	}
	copy(v.Digest[:], digest)
	secmem.Zero(digest)
	return v, nil
}

func malformed(field, format string, args ...interface{}) error {
	return errors.E(errors.Integrity,
		fmt.Sprintf("scryptsalsa208sha256: malformed %s: %s", field, fmt.Sprintf(format, args...)))
}
