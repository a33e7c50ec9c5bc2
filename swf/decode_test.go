// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"testing"

	"github.com/cosnicolaou/swfdump/internal/bitio"
	"github.com/cosnicolaou/swfdump/internal/swftest"
)

// RECT short: input 1b ae 80 decodes to (3, 5, 3, 5), nbits = 3.
func TestReadRectShort(t *testing.T) {
	d := newDecoder(bitio.NewSource([]byte{0x1b, 0xae, 0x80}), options{})
	n, err := d.readRect()
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		want int64
	}{
		{"XMin", 3}, {"XMax", 5}, {"YMin", 3}, {"YMax", 5},
	} {
		got, ok := n.Field(tc.name)
		if !ok || got != tc.want {
			t.Errorf("%s = %v, want %d", tc.name, got, tc.want)
		}
	}
}

// RECT long: input 70 00 0a 8c 00 00 da c0 decodes to (0, 5400, 0, 7000),
// nbits = 14.
func TestReadRectLong(t *testing.T) {
	d := newDecoder(bitio.NewSource([]byte{0x70, 0x00, 0x0a, 0x8c, 0x00, 0x00, 0xda, 0xc0}), options{})
	n, err := d.readRect()
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		name string
		want int64
	}{
		{"XMin", 0}, {"XMax", 5400}, {"YMin", 0}, {"YMax", 7000},
	} {
		got, ok := n.Field(tc.name)
		if !ok || got != tc.want {
			t.Errorf("%s = %v, want %d", tc.name, got, tc.want)
		}
	}
}

// ENCODEDU32 single byte: input 3a -> 58.
func TestReadEncodedU32SingleByte(t *testing.T) {
	d := newDecoder(bitio.NewSource([]byte{0x3a}), options{})
	got, err := d.readEncodedU32()
	if err != nil {
		t.Fatal(err)
	}
	if got != 58 {
		t.Errorf("readEncodedU32() = %d, want 58", got)
	}
}

// ENCODEDU32 three bytes: input 8c ac 29 -> 677388.
func TestReadEncodedU32ThreeBytes(t *testing.T) {
	d := newDecoder(bitio.NewSource([]byte{0x8c, 0xac, 0x29}), options{})
	got, err := d.readEncodedU32()
	if err != nil {
		t.Fatal(err)
	}
	if got != 677388 {
		t.Errorf("readEncodedU32() = %d, want 677388", got)
	}
}

// Malformed tag: an unknown type code (63) is accepted in lenient mode
// and produces an UnknownTag whose name embeds the code.
func TestUnknownTagTypeLenient(t *testing.T) {
	unknown := swftest.Tag(63, []byte{0x01, 0x02, 0x03})
	data := swftest.Uncompressed(6, swftest.Body(0x0100, 1, unknown))

	tree, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Tags) != 1 {
		t.Fatalf("got %d tags, want 1", len(tree.Tags))
	}
	tag := tree.Tags[0]
	if tag.Kind != KindUnknownTag {
		t.Errorf("Kind = %v, want KindUnknownTag", tag.Kind)
	}
	if tag.Code != 63 {
		t.Errorf("Code = %d, want 63", tag.Code)
	}
	if tag.Name == "" {
		t.Error("Name is empty, want it to embed the type code")
	}
}

// Strict mode turns the same unrecognized type code into a decode error.
func TestUnknownTagTypeStrict(t *testing.T) {
	unknown := swftest.Tag(63, []byte{0x01, 0x02, 0x03})
	data := swftest.Uncompressed(6, swftest.Body(0x0100, 1, unknown))

	_, err := Decode(data, WithUnknownAlert())
	if err == nil {
		t.Fatal("Decode succeeded, want UnknownName error")
	}
	var derr *DecodeError
	if !asDecodeError(err, &derr) {
		t.Fatalf("error %v is not a *DecodeError", err)
	}
}

func TestDecodeMinimalMovie(t *testing.T) {
	tree, err := Decode(swftest.MinimalMovie())
	if err != nil {
		t.Fatal(err)
	}
	if sig, _ := tree.Header.Field("Signature"); sig != "FWS" {
		t.Errorf("Signature = %v, want FWS", sig)
	}
	wantNames := []string{"SetBackgroundColor", "ShowFrame"}
	if len(tree.Tags) != len(wantNames) {
		t.Fatalf("got %d tags, want %d", len(tree.Tags), len(wantNames))
	}
	for i, want := range wantNames {
		if tree.Tags[i].Name != want {
			t.Errorf("tag %d = %s, want %s", i, tree.Tags[i].Name, want)
		}
	}
}

func TestDecodeMinimalMovieCompressed(t *testing.T) {
	tree, err := Decode(swftest.MinimalMovieCompressed())
	if err != nil {
		t.Fatal(err)
	}
	if sig, _ := tree.Header.Field("Signature"); sig != "CWS" {
		t.Errorf("Signature = %v, want CWS", sig)
	}
	if len(tree.Tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tree.Tags))
	}
}

// The bounded-read guard recovers from a tag whose declared length
// undershoots the handler's actual consumption: the tag becomes a
// FailingTag carrying only the declared-length raw payload, and the
// parse continues rather than aborting.
func TestDecodeTruncatedTagRecovers(t *testing.T) {
	tree, err := Decode(swftest.TruncatedTagMovie())
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Tags) == 0 {
		t.Fatal("got 0 tags, want at least the FailingTag envelope")
	}
	first := tree.Tags[0]
	if first.Kind != KindFailingTag {
		t.Fatalf("Kind = %v, want KindFailingTag", first.Kind)
	}
	if first.Name != "SetBackgroundColor" {
		t.Errorf("Name = %s, want SetBackgroundColor", first.Name)
	}
	if len(first.Raw) != 1 {
		t.Errorf("len(Raw) = %d, want 1 (the declared length)", len(first.Raw))
	}
}

// asDecodeError is a small local shim that matches only an unwrapped
// *DecodeError: the strict-mode tag dispatcher returns its UnknownName
// error for a top-level tag without wrapping it, so a direct type
// assertion is enough here.
func asDecodeError(err error, target **DecodeError) bool {
	if de, ok := err.(*DecodeError); ok {
		*target = de
		return true
	}
	return false
}
