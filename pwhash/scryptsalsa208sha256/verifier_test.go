// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scryptsalsa208sha256

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/bits"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/sodiumgo/crypto/scrypt"
)

// zeroVerifier is the encoding of N=2^14, r=8, p=1 with an all-zero salt
// and digest.
var zeroVerifier = "$7$C6..../...." + strings.Repeat(".", 43) + "$" + strings.Repeat(".", 43)

func TestEncodeLayout(t *testing.T) {
	v := &Verifier{Params: scrypt.Params{N: 1 << 14, R: 8, P: 1}}
	hp, err := v.Encode()
	expect.NoError(t, err)
	expect.EQ(t, hp.String(), zeroVerifier)
	expect.EQ(t, len(hp.String()), StrBytes-1)
	expect.EQ(t, hp[StrBytes-1], byte(0))
}

func TestEncodeDecode(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	params := []scrypt.Params{
		{N: 2, R: 1, P: 1},
		{N: 1 << 14, R: 8, P: 1},
		{N: 1 << 20, R: 8, P: 3},
	}
	if bits.UintSize == 64 {
		// Extreme r and p only have addressable buffers on 64-bit platforms.
		params = append(params,
			scrypt.Params{N: 1 << 10, R: 1<<30 - 1, P: 1},
			scrypt.Params{N: 1 << 10, R: 1, P: 1<<30 - 1})
	}
	for _, p := range params {
		v := &Verifier{Params: p}
		rnd.Read(v.Salt[:])
		rnd.Read(v.Digest[:])
		hp, err := v.Encode()
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		got, err := DecodeVerifier(&hp)
		if err != nil {
			t.Fatalf("%v: %v", p, err)
		}
		if *got != *v {
			t.Errorf("%v: got %+v, want %+v", p, got, v)
		}
	}
}

func TestEncodeInvalidParams(t *testing.T) {
	v := &Verifier{Params: scrypt.Params{N: 3, R: 8, P: 1}}
	_, err := v.Encode()
	expect.True(t, errors.Is(errors.Invalid, err), err)
}

func replaceAt(s string, i int, r string) string {
	return s[:i] + r + s[i+len(r):]
}

func TestDecodeVerifierErrors(t *testing.T) {
	var (
		logNAt   = len(StrPrefix)
		rAt      = logNAt + 1
		saltAt   = rAt + 10
		sepAt    = saltAt + saltTextBytes
		digestAt = sepAt + 1
	)
	for _, c := range []struct {
		name string
		text string
		kind errors.Kind
	}{
		{"empty", "", errors.NotSupported},
		{"bcrypt", "$2a$10$" + strings.Repeat("a", 53), errors.NotSupported},
		{"argon2", "$argon2id$v=19$m=65536,t=2,p=1$c29tZXNhbHQ$aGFzaA", errors.NotSupported},
		{"other scrypt", "$8$" + zeroVerifier[3:], errors.NotSupported},
		{"prefix only", StrPrefix, errors.Integrity},
		{"truncated", zeroVerifier[:len(zeroVerifier)-1], errors.Integrity},
		{"log2 N zero", replaceAt(zeroVerifier, logNAt, "."), errors.Integrity},
		{"log2 N too large", replaceAt(zeroVerifier, logNAt, "z"), errors.Integrity},
		{"log2 N not crypt64", replaceAt(zeroVerifier, logNAt, "!"), errors.Integrity},
		{"r zero", replaceAt(zeroVerifier, rAt, "....."), errors.Integrity},
		{"r not crypt64", replaceAt(zeroVerifier, rAt, "6...~"), errors.Integrity},
		{"p zero", replaceAt(zeroVerifier, rAt+5, "....."), errors.Integrity},
		{"r*p too large", replaceAt(zeroVerifier, rAt, "zzzzzzzzzz"), errors.Integrity},
		{"salt not crypt64", replaceAt(zeroVerifier, saltAt+7, "-"), errors.Integrity},
		{"salt padding bits", replaceAt(zeroVerifier, sepAt-1, "z"), errors.Integrity},
		{"missing separator", replaceAt(zeroVerifier, sepAt, "."), errors.Integrity},
		{"digest not crypt64", replaceAt(zeroVerifier, digestAt, "_"), errors.Integrity},
		{"digest padding bits", replaceAt(zeroVerifier, len(zeroVerifier)-1, "z"), errors.Integrity},
	} {
		t.Run(c.name, func(t *testing.T) {
			var hp HashedPassword
			copy(hp[:], c.text)
			_, err := DecodeVerifier(&hp)
			if !errors.Is(c.kind, err) {
				t.Errorf("got %v, want kind %v", err, c.kind)
			}
		})
	}
}

func TestDecodeVerifierFull(t *testing.T) {
	// A verifier filling every byte has no terminator.
	var hp HashedPassword
	copy(hp[:], zeroVerifier+".")
	_, err := DecodeVerifier(&hp)
	expect.True(t, errors.Is(errors.Integrity, err), err)
}

func TestParseHashedPassword(t *testing.T) {
	hp, err := ParseHashedPassword([]byte(zeroVerifier))
	expect.NoError(t, err)
	expect.EQ(t, hp.String(), zeroVerifier)

	padded := make([]byte, StrBytes)
	copy(padded, zeroVerifier)
	hp, err = ParseHashedPassword(padded)
	expect.NoError(t, err)
	expect.EQ(t, hp.String(), zeroVerifier)

	for _, c := range []struct {
		name string
		b    []byte
		kind errors.Kind
	}{
		{"too long", append(padded, 0), errors.Integrity},
		{"no terminator", []byte(zeroVerifier + "."), errors.Integrity},
		{"garbage after NUL", append([]byte(zeroVerifier), 0, 'x'), errors.Integrity},
		{"foreign", []byte("$2a$10$abc"), errors.NotSupported},
	} {
		t.Run(c.name, func(t *testing.T) {
			hp, err := ParseHashedPassword(c.b)
			if !errors.Is(c.kind, err) {
				t.Errorf("got %v, want kind %v", err, c.kind)
			}
			if hp != (HashedPassword{}) {
				t.Errorf("got non-zero verifier %q on error", hp.String())
			}
		})
	}
}

func TestHashedPasswordJSON(t *testing.T) {
	type record struct {
		User string
		Hash HashedPassword
	}
	hp, err := ParseHashedPassword([]byte(zeroVerifier))
	expect.NoError(t, err)
	b, err := json.Marshal(record{User: "gopher", Hash: hp})
	expect.NoError(t, err)
	expect.HasSubstr(t, string(b), `"Hash":"`+zeroVerifier+`"`)

	var r record
	expect.NoError(t, json.Unmarshal(b, &r))
	expect.EQ(t, r.Hash, hp)

	err = json.Unmarshal([]byte(`{"Hash":"$7$C"}`), &r)
	expect.True(t, errors.Is(errors.Integrity, err), err)
}

func TestHashedPasswordFormat(t *testing.T) {
	hp, err := ParseHashedPassword([]byte(zeroVerifier))
	expect.NoError(t, err)
	expect.EQ(t, fmt.Sprint(hp), zeroVerifier)
	expect.EQ(t, fmt.Sprint(&hp), zeroVerifier)
	expect.EQ(t, fmt.Sprintf("%s", hp), zeroVerifier)
}

func TestHashedPasswordWipe(t *testing.T) {
	hp, err := ParseHashedPassword([]byte(zeroVerifier))
	expect.NoError(t, err)
	hp.Wipe()
	expect.True(t, bytes.Equal(hp[:], make([]byte, StrBytes)))
	expect.EQ(t, hp.String(), "")
}
