// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitio

import "testing"

func TestReadUnsignedZeroIsNoop(t *testing.T) {
	for n := uint(0); n <= 32; n++ {
		src := NewSource([]byte{0x7b, 0xf8, 0xff, 0xff, 0xff})
		br := NewBitReader(src)
		want := br.ReadUnsigned(n)
		before := src.Tell()
		if got := br.ReadUnsigned(0); got != 0 {
			t.Errorf("n=%d: ReadUnsigned(0) = %d, want 0", n, got)
		}
		if src.Tell() != before {
			t.Errorf("n=%d: ReadUnsigned(0) advanced the byte source", n)
		}
		_ = want
	}
}

func TestReadSignedRoundTrip(t *testing.T) {
	for n := uint(2); n <= 32; n++ {
		lo := -(int64(1) << (n - 1))
		hi := (int64(1) << (n - 1)) - 1
		for _, m := range []int64{lo, lo + 1, -1, 0, 1, hi - 1, hi} {
			if m < lo || m > hi {
				continue
			}
			raw := uint64(m) & ((uint64(1) << n) - 1)
			var buf []byte
			// pack raw as the top n bits of a byte-aligned buffer.
			total := ((n + 7) / 8) * 8
			shifted := raw << (total - n)
			for i := total; i > 0; i -= 8 {
				buf = append(buf, byte(shifted>>(i-8)))
			}
			src := NewSource(buf)
			br := NewBitReader(src)
			if got := br.ReadSigned(n); int64(got) != m {
				t.Errorf("n=%d m=%d: got %d", n, m, got)
			}
		}
	}
}

// Scenario from spec section 8: over buffer 7b f8, successive calls
// get_signed(0)=0, get_signed(4)=7, get_signed(10)=-258.
func TestSignedBitReadsScenario(t *testing.T) {
	src := NewSource([]byte{0x7b, 0xf8})
	br := NewBitReader(src)
	if got := br.ReadSigned(0); got != 0 {
		t.Errorf("ReadSigned(0) = %d, want 0", got)
	}
	if got := br.ReadSigned(4); got != 7 {
		t.Errorf("ReadSigned(4) = %d, want 7", got)
	}
	if got := br.ReadSigned(10); got != -258 {
		t.Errorf("ReadSigned(10) = %d, want -258", got)
	}
}

func TestReadFixed8(t *testing.T) {
	// Scenario from spec section 8: 80 07 -> 7.5
	src := NewSource([]byte{0x80, 0x07})
	got, err := ReadFixed8(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != 7.5 {
		t.Errorf("ReadFixed8 = %v, want 7.5", got)
	}
}

func TestFloat16FromBits(t *testing.T) {
	for _, tc := range []struct {
		raw  uint16
		want float64
	}{
		{0x0000, 0},
		{0x8000, 0},
	} {
		if got := Float16FromBits(tc.raw); got != tc.want {
			t.Errorf("Float16FromBits(%#04x) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSourceSeekTell(t *testing.T) {
	src := NewSource([]byte{1, 2, 3, 4, 5})
	if _, err := src.Read(2); err != nil {
		t.Fatal(err)
	}
	if got, want := src.Tell(), 2; got != want {
		t.Errorf("Tell() = %d, want %d", got, want)
	}
	if err := src.Seek(0, SeekStart); err != nil {
		t.Fatal(err)
	}
	if got, want := src.Tell(), 0; got != want {
		t.Errorf("Tell() = %d, want %d", got, want)
	}
	if _, err := src.Read(6); err == nil {
		t.Error("Read past end of buffer should fail")
	}
}
