// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readDefineFont reads the shared body of DefineFont2 and DefineFont3: an
// 8-bit flag set, a language code, a Pascal-style name, an offset table
// gated by the wide-offsets flag, the glyph shape table, the code table,
// and, when the layout flag is set, ascent/descent/leading/advance/bounds
// and a kerning table. The glyph count is cached on the decoder so a
// following DefineFontAlignZones tag can size its zone table.
func (d *decoder) readDefineFont(tagName string) (*Node, error) {
	n := NewNode(KindKnownTag, tagName)

	fontID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.FontID: %w", tagName, err)
	}
	n.Set("FontID", fontID)

	bc := d.bits()
	hasLayout := bc.ReadUnsigned(1) != 0
	shiftJIS := bc.ReadUnsigned(1) != 0
	smallText := bc.ReadUnsigned(1) != 0
	ansi := bc.ReadUnsigned(1) != 0
	wideOffsets := bc.ReadUnsigned(1) != 0
	wideCodes := bc.ReadUnsigned(1) != 0
	italic := bc.ReadUnsigned(1) != 0
	bold := bc.ReadUnsigned(1) != 0
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: %s flags: %w", tagName, err)
	}
	n.Set("FontFlagsHasLayout", hasLayout)
	n.Set("FontFlagsShiftJIS", shiftJIS)
	n.Set("FontFlagsSmallText", smallText)
	n.Set("FontFlagsANSI", ansi)
	n.Set("FontFlagsWideOffsets", wideOffsets)
	n.Set("FontFlagsWideCodes", wideCodes)
	n.Set("FontFlagsItalic", italic)
	n.Set("FontFlagsBold", bold)

	lang, err := d.readLangCode()
	if err != nil {
		return nil, fmt.Errorf("swf: %s: %w", tagName, err)
	}
	n.Set("LanguageCode", lang)

	nameLen, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.FontNameLen: %w", tagName, err)
	}
	n.Set("FontNameLen", nameLen)
	nameBytes, err := d.src.Read(int(nameLen))
	if err != nil {
		return nil, fmt.Errorf("swf: %s.FontName: %w", tagName, err)
	}
	name := string(nameBytes)
	if len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}
	n.Set("FontName", name)

	numGlyphs, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.NumGlyphs: %w", tagName, err)
	}
	n.Set("NumGlyphs", numGlyphs)
	d.lastGlyphCount = int(numGlyphs)

	readOffset := func() (uint32, error) {
		if wideOffsets {
			return bitio.ReadUI32(d.src)
		}
		v, err := bitio.ReadUI16(d.src)
		return uint32(v), err
	}

	offsets := make([]uint32, 0, numGlyphs)
	for i := 0; i < int(numGlyphs); i++ {
		off, err := readOffset()
		if err != nil {
			return nil, fmt.Errorf("swf: %s.OffsetTable: %w", tagName, err)
		}
		offsets = append(offsets, off)
	}
	n.Set("OffsetTable", offsets)

	codeTableOffset, err := readOffset()
	if err != nil {
		return nil, fmt.Errorf("swf: %s.CodeTableOffset: %w", tagName, err)
	}
	n.Set("CodeTableOffset", codeTableOffset)

	shapes := make([]*Node, 0, numGlyphs)
	for i := 0; i < int(numGlyphs); i++ {
		shape, err := d.readShape(3)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.GlyphShapeTable: %w", tagName, err)
		}
		shapes = append(shapes, shape)
	}
	n.Set("GlyphShapeTable", shapes)

	codes := make([]uint16, 0, numGlyphs)
	for i := 0; i < int(numGlyphs); i++ {
		code, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.CodeTable: %w", tagName, err)
		}
		codes = append(codes, code)
	}
	n.Set("CodeTable", codes)

	if hasLayout {
		ascent, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.FontAscent: %w", tagName, err)
		}
		n.Set("FontAscent", ascent)
		descent, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.FontDescent: %w", tagName, err)
		}
		n.Set("FontDescent", descent)
		leading, err := bitio.ReadSI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.FontLeading: %w", tagName, err)
		}
		n.Set("FontLeading", leading)

		advances := make([]int16, 0, numGlyphs)
		for i := 0; i < int(numGlyphs); i++ {
			adv, err := bitio.ReadSI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: %s.FontAdvanceTable: %w", tagName, err)
			}
			advances = append(advances, adv)
		}
		n.Set("FontAdvanceTable", advances)

		bounds := make([]*Node, 0, numGlyphs)
		for i := 0; i < int(numGlyphs); i++ {
			r, err := d.readRect()
			if err != nil {
				return nil, fmt.Errorf("swf: %s.FontBoundsTable: %w", tagName, err)
			}
			bounds = append(bounds, r)
		}
		n.Set("FontBoundsTable", bounds)

		kerningCount, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s.KerningCount: %w", tagName, err)
		}
		n.Set("KerningCount", kerningCount)

		kerning := make([]*Node, 0, kerningCount)
		for i := 0; i < int(kerningCount); i++ {
			rec, err := d.readKerningRecord(wideCodes)
			if err != nil {
				return nil, fmt.Errorf("swf: %s.FontKerningTable: %w", tagName, err)
			}
			kerning = append(kerning, rec)
		}
		n.Set("FontKerningTable", kerning)
	}

	return n, nil
}

func (d *decoder) readDefineFontAlignZones() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineFontAlignZones")
	fontID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineFontAlignZones.FontId: %w", err)
	}
	n.Set("FontId", fontID)

	bc := d.bits()
	hint := bc.ReadUnsigned(2)
	reserved := bc.ReadUnsigned(6)
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: DefineFontAlignZones flags: %w", err)
	}
	n.Set("CSMTableHint", hint)
	n.Set("Reserved", reserved)

	glyphCount := d.lastGlyphCount
	d.lastGlyphCount = 0

	zones := make([]*Node, 0, glyphCount)
	for i := 0; i < glyphCount; i++ {
		zone := NewNode(KindRecord, "ZoneRecord")
		numData, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: ZoneRecord.NumZoneData: %w", err)
		}
		zone.Set("NumZoneData", numData)

		data := make([]*Node, 0, numData)
		for j := 0; j < int(numData); j++ {
			datum := NewNode(KindRecord, "ZoneData")
			coord, err := bitio.ReadFloat16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: ZoneData.AlignmentCoordinate: %w", err)
			}
			datum.Set("AlignmentCoordinate", coord)
			rng, err := bitio.ReadFloat16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: ZoneData.Range: %w", err)
			}
			datum.Set("Range", rng)
			data = append(data, datum)
		}
		zone.Set("ZoneData", data)

		zbc := d.bits()
		zReserved := zbc.ReadUnsigned(6)
		maskY := zbc.ReadUnsigned(1)
		maskX := zbc.ReadUnsigned(1)
		if err := zbc.Err(); err != nil {
			return nil, fmt.Errorf("swf: ZoneRecord flags: %w", err)
		}
		zone.Set("Reserved", zReserved)
		zone.Set("ZoneMaskY", maskY)
		zone.Set("ZoneMaskX", maskX)

		zones = append(zones, zone)
	}
	n.Set("ZoneTable", zones)
	return n, nil
}

func (d *decoder) readDefineFontName() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineFontName")
	fontID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineFontName.FontId: %w", err)
	}
	n.Set("FontId", fontID)
	name, err := d.readString()
	if err != nil {
		return nil, fmt.Errorf("swf: DefineFontName.FontName: %w", err)
	}
	n.Set("FontName", name)
	copyright, err := d.readString()
	if err != nil {
		return nil, fmt.Errorf("swf: DefineFontName.FontCopyright: %w", err)
	}
	n.Set("FontCopyright", copyright)
	return n, nil
}
