// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readRect reads a RECT: a 5-bit nbits field followed by 4 successive
// nbits-wide unsigned fields (xmin, xmax, ymin, ymax).
func (d *decoder) readRect() (*Node, error) {
	bc := d.bits()
	nbits := uint(bc.ReadUnsigned(5))
	n := NewNode(KindRecord, "Rect")
	n.Set("XMin", int64(bc.ReadUnsigned(nbits)))
	n.Set("XMax", int64(bc.ReadUnsigned(nbits)))
	n.Set("YMin", int64(bc.ReadUnsigned(nbits)))
	n.Set("YMax", int64(bc.ReadUnsigned(nbits)))
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: Rect: %w", err)
	}
	return n, nil
}

// readRGB reads an RGB: 3 unsigned bytes.
func (d *decoder) readRGB() (*Node, error) {
	n := NewNode(KindRecord, "RGB")
	for _, name := range []string{"Red", "Green", "Blue"} {
		v, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: RGB.%s: %w", name, err)
		}
		n.Set(name, v)
	}
	return n, nil
}

// readRGBA reads an RGBA: 4 unsigned bytes.
func (d *decoder) readRGBA() (*Node, error) {
	n := NewNode(KindRecord, "RGBA")
	for _, name := range []string{"Red", "Green", "Blue", "Alpha"} {
		v, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: RGBA.%s: %w", name, err)
		}
		n.Set(name, v)
	}
	return n, nil
}

// readMatrix reads a MATRIX record. Scale, rotate and translate components
// are all plain unsigned bit fields, matching the original parser.
func (d *decoder) readMatrix() (*Node, error) {
	bc := d.bits()
	n := NewNode(KindRecord, "Matrix")

	hasScale := bc.ReadUnsigned(1) != 0
	n.Set("HasScale", hasScale)
	if hasScale {
		nScale := uint(bc.ReadUnsigned(5))
		n.Set("NScaleBits", nScale)
		n.Set("ScaleX", bc.ReadUnsigned(nScale))
		n.Set("ScaleY", bc.ReadUnsigned(nScale))
	}

	hasRotate := bc.ReadUnsigned(1) != 0
	n.Set("HasRotate", hasRotate)
	if hasRotate {
		nRotate := uint(bc.ReadUnsigned(5))
		n.Set("NRotateBits", nRotate)
		n.Set("RotateSkew0", bc.ReadUnsigned(nRotate))
		n.Set("RotateSkew1", bc.ReadUnsigned(nRotate))
	}

	nTranslate := uint(bc.ReadUnsigned(5))
	n.Set("NTranslateBits", nTranslate)
	n.Set("TranslateX", bc.ReadUnsigned(nTranslate))
	n.Set("TranslateY", bc.ReadUnsigned(nTranslate))

	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: Matrix: %w", err)
	}
	return n, nil
}

// readCXFormWithAlpha reads a CXFORMWITHALPHA record.
func (d *decoder) readCXFormWithAlpha() (*Node, error) {
	bc := d.bits()
	n := NewNode(KindRecord, "CXformWithAlpha")

	hasAdd := bc.ReadUnsigned(1) != 0
	hasMult := bc.ReadUnsigned(1) != 0
	nbits := uint(bc.ReadUnsigned(4))
	n.Set("HasAddTerms", hasAdd)
	n.Set("HasMultTerms", hasMult)
	n.Set("NBits", nbits)

	if hasMult {
		n.Set("RedMultTerm", bc.ReadUnsigned(nbits))
		n.Set("GreenMultTerm", bc.ReadUnsigned(nbits))
		n.Set("BlueMultTerm", bc.ReadUnsigned(nbits))
		n.Set("AlphaMultTerm", bc.ReadUnsigned(nbits))
	}
	if hasAdd {
		n.Set("RedAddTerm", bc.ReadUnsigned(nbits))
		n.Set("GreenAddTerm", bc.ReadUnsigned(nbits))
		n.Set("BlueAddTerm", bc.ReadUnsigned(nbits))
		n.Set("AlphaAddTerm", bc.ReadUnsigned(nbits))
	}
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: CXformWithAlpha: %w", err)
	}
	return n, nil
}

// readString reads a STRING: bytes up to and excluding a zero terminator,
// decoded as UTF-8.
func (d *decoder) readString() (string, error) {
	var buf []byte
	for {
		b, err := d.src.Read(1)
		if err != nil {
			return "", fmt.Errorf("swf: String: %w", err)
		}
		if b[0] == 0 {
			break
		}
		buf = append(buf, b[0])
	}
	return string(buf), nil
}

var langCodes = map[uint8]string{
	1: "Latin",
	2: "Japanese",
	3: "Korean",
	4: "SimplifiedChinese",
	5: "TraditionalChinese",
}

// readLangCode reads a LANGCODE byte and maps it to its name.
func (d *decoder) readLangCode() (string, error) {
	v, err := bitio.ReadUI8(d.src)
	if err != nil {
		return "", fmt.Errorf("swf: LangCode: %w", err)
	}
	if name, ok := langCodes[v]; ok {
		return name, nil
	}
	return fmt.Sprintf("Unknown(%d)", v), nil
}

// readEncodedU32 reads an ENCODEDU32: each byte contributes its low 7
// bits, LSB-first; a byte with its MSB clear (byte < 128) terminates.
// Maximum five bytes.
func (d *decoder) readEncodedU32() (uint32, error) {
	var result uint32
	for i := 0; i < 5; i++ {
		b, err := d.src.Read(1)
		if err != nil {
			return 0, fmt.Errorf("swf: EncodedU32: %w", err)
		}
		byt := b[0]
		result |= uint32(byt&0x7f) << (7 * uint(i))
		if byt < 128 {
			break
		}
	}
	return result, nil
}

// readKerningRecord reads a KERNINGRECORD; code field width is 8 or 16
// bits depending on the enclosing font's wide-codes flag.
func (d *decoder) readKerningRecord(wideCodes bool) (*Node, error) {
	n := NewNode(KindRecord, "KerningRecord")
	readCode := func(name string) error {
		if wideCodes {
			v, err := bitio.ReadUI16(d.src)
			if err != nil {
				return err
			}
			n.Set(name, v)
			return nil
		}
		v, err := bitio.ReadUI8(d.src)
		if err != nil {
			return err
		}
		n.Set(name, v)
		return nil
	}
	if err := readCode("FontKerningCode1"); err != nil {
		return nil, fmt.Errorf("swf: KerningRecord: %w", err)
	}
	if err := readCode("FontKerningCode2"); err != nil {
		return nil, fmt.Errorf("swf: KerningRecord: %w", err)
	}
	adj, err := bitio.ReadSI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: KerningRecord.FontKerningAdjustment: %w", err)
	}
	n.Set("FontKerningAdjustment", adj)
	return n, nil
}

// readClipActions reads the CLIPACTIONS record: a reserved zero word, an
// AllEventFlags field (2 or 4 bytes per file version), then zero-terminated
// ClipActionRecords.
func (d *decoder) readClipActions() (*Node, error) {
	n := NewNode(KindRecord, "ClipActions")

	reserved, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: ClipActions.reserved: %w", err)
	}
	if reserved != 0 {
		return nil, newError(ProtocolAssertionFailure, "ClipActions", d.src.Tell(), fmt.Errorf("reserved word = %d, want 0", reserved))
	}

	flagWidth := 2
	if d.version >= 6 {
		flagWidth = 4
	}
	allEvents, err := d.src.Read(flagWidth)
	if err != nil {
		return nil, fmt.Errorf("swf: ClipActions.AllEventFlags: %w", err)
	}
	n.Set("AllEventFlags", append([]byte(nil), allEvents...))

	var records []*Node
	for {
		eventFlags, err := d.src.Read(flagWidth)
		if err != nil {
			return nil, fmt.Errorf("swf: ClipActionRecord.EventFlags: %w", err)
		}
		if allZero(eventFlags) {
			break
		}
		rec := NewNode(KindRecord, "ClipActionRecord")
		rec.Set("EventFlags", append([]byte(nil), eventFlags...))
		size, err := bitio.ReadUI32(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: ClipActionRecord.ActionRecordSize: %w", err)
		}
		rec.Set("ActionRecordSize", size)
		payload, err := d.src.Read(int(size))
		if err != nil {
			return nil, fmt.Errorf("swf: ClipActionRecord payload: %w", err)
		}
		rec.Set("Actions", append([]byte(nil), payload...))
		records = append(records, rec)
	}
	n.Set("ClipActionRecords", records)
	return n, nil
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
