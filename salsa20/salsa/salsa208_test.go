// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package salsa

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math/rand"
	"testing"

	upstream "golang.org/x/crypto/salsa20/salsa"
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// RFC 7914, section 8.
func TestCore208Vector(t *testing.T) {
	var in, out [BlockSize]byte
	copy(in[:], mustHex("7e879a214f3ec9867ca940e641718f26"+
		"baee555b8c61c1b50df846116dcd3b1d"+
		"ee24f319df9b3d8514121e4b5ac5aa32"+
		"76021d2909c74829edebc68db8b8c25e"))
	want := mustHex("a41f859c6608cc993b81cacb020cef05" +
		"044b2181a2fd337dfd7b1c6396682f29" +
		"b4393168e3c9e6bcfe6bc5b7a06d96ba" +
		"e424cc102c91745c24ad673dc7618f81")

	Core208(&out, &in)
	if !bytes.Equal(out[:], want) {
		t.Errorf("got %s, want %s", hex.EncodeToString(out[:]), hex.EncodeToString(want))
	}

	// in place
	Core208(&in, &in)
	if !bytes.Equal(in[:], want) {
		t.Errorf("in place: got %s, want %s", hex.EncodeToString(in[:]), hex.EncodeToString(want))
	}
}

func TestCore208MatchesUpstream(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 256; i++ {
		var in, got, want [BlockSize]byte
		rnd.Read(in[:])
		Core208(&got, &in)
		upstream.Core208(&want, &in)
		if got != want {
			t.Fatalf("%d: got %x, want %x", i, got, want)
		}
	}
}

func TestMix208Words(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	var in, out [BlockSize]byte
	rnd.Read(in[:])
	Core208(&out, &in)

	var w [16]uint32
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(in[i*4:])
	}
	var mixed [16]uint32
	Mix208(&mixed, &w)
	for i, v := range mixed {
		if got := binary.LittleEndian.Uint32(out[i*4:]); got != v {
			t.Errorf("word %d: got %#08x, want %#08x", i, v, got)
		}
	}
}

func TestMix208Zero(t *testing.T) {
	// The all-zero block is a fixed point of the core.
	var zero, out [16]uint32
	Mix208(&out, &zero)
	if out != zero {
		t.Errorf("got %x, want all zero", out)
	}
}

func BenchmarkCore208(b *testing.B) {
	var x [BlockSize]byte
	b.SetBytes(BlockSize)
	for i := 0; i < b.N; i++ {
		Core208(&x, &x)
	}
}
