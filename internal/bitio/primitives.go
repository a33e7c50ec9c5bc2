// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitio

import (
	"encoding/binary"
	"math"
)

// ReadUI8 reads an unsigned 8-bit integer.
func ReadUI8(s *Source) (uint8, error) {
	b, err := s.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadSI8 reads a signed 8-bit integer.
func ReadSI8(s *Source) (int8, error) {
	v, err := ReadUI8(s)
	return int8(v), err
}

// ReadUI16 reads a little-endian unsigned 16-bit integer.
func ReadUI16(s *Source) (uint16, error) {
	b, err := s.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadSI16 reads a little-endian signed 16-bit integer.
func ReadSI16(s *Source) (int16, error) {
	v, err := ReadUI16(s)
	return int16(v), err
}

// ReadUI32 reads a little-endian unsigned 32-bit integer.
func ReadUI32(s *Source) (uint32, error) {
	b, err := s.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadSI32 reads a little-endian signed 32-bit integer.
func ReadSI32(s *Source) (int32, error) {
	v, err := ReadUI32(s)
	return int32(v), err
}

// ReadFixed8 reads an 8.8 fixed-point value stored as (frac byte, int
// byte), value = int + frac/256.
func ReadFixed8(s *Source) (float64, error) {
	b, err := s.Read(2)
	if err != nil {
		return 0, err
	}
	frac, intPart := b[0], b[1]
	return float64(intPart) + float64(frac)/256.0, nil
}

// ReadFixed16 reads a 16.16 fixed-point value stored as (frac uint16, int
// uint16), value = int + frac/65536.
func ReadFixed16(s *Source) (float64, error) {
	frac, err := ReadUI16(s)
	if err != nil {
		return 0, err
	}
	intPart, err := ReadUI16(s)
	if err != nil {
		return 0, err
	}
	return float64(intPart) + float64(frac)/65536.0, nil
}

// ReadFloat32 reads an IEEE 754 binary32 little-endian value.
func ReadFloat32(s *Source) (float32, error) {
	v, err := ReadUI32(s)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE 754 binary64 little-endian value.
func ReadFloat64(s *Source) (float64, error) {
	b, err := s.Read(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadFloat16 reads a 16-bit half-float: 1 sign bit, 5 exponent bits
// (bias 16), 10 mantissa bits, bit-packed MSB-first. The decoded value is
// (-1)^sign * (mantissa/2^10) * 10^(exponent-16).
func ReadFloat16(s *Source) (float64, error) {
	bc := NewBitReader(s)
	raw := uint16(bc.ReadUnsigned(16))
	if err := bc.Err(); err != nil {
		return 0, err
	}
	return Float16FromBits(raw), nil
}

// Float16FromBits decodes a raw 16-bit half-float word per the SWF format's
// non-IEEE formula.
func Float16FromBits(raw uint16) float64 {
	sign := (raw >> 15) & 0x1
	exponent := (raw >> 10) & 0x1F
	mantissa := raw & 0x3FF
	v := (float64(mantissa) / 1024.0) * math.Pow(10, float64(exponent)-16)
	if sign == 1 {
		v = -v
	}
	return v
}
