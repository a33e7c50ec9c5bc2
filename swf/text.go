// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readDefineTextRecords reads the shared body of DefineText and DefineText2:
// character ID, bounds, matrix, glyph/advance bit widths, then a sequence of
// TextRecords terminated by a zero byte. Each TextRecord is detected by
// peeking one byte; a nonzero byte means more record follows and the cursor
// is rewound before bit-level reads resume.
func (d *decoder) readDefineTextRecords(tagName string, shapeVersion int) (*Node, error) {
	n := NewNode(KindKnownTag, tagName)

	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.CharacterID: %w", tagName, err)
	}
	n.Set("CharacterID", charID)

	bounds, err := d.readRect()
	if err != nil {
		return nil, fmt.Errorf("swf: %s.TextBounds: %w", tagName, err)
	}
	n.Set("TextBounds", bounds)

	matrix, err := d.readMatrix()
	if err != nil {
		return nil, fmt.Errorf("swf: %s.TextMatrix: %w", tagName, err)
	}
	n.Set("TextMatrix", matrix)

	glyphBits, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.GlyphBits: %w", tagName, err)
	}
	n.Set("GlyphBits", glyphBits)

	advanceBits, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: %s.AdvanceBits: %w", tagName, err)
	}
	n.Set("AdvanceBits", advanceBits)

	var records []*Node
	for {
		peek, err := d.src.Read(1)
		if err != nil {
			return nil, fmt.Errorf("swf: %s TextRecord peek: %w", tagName, err)
		}
		if peek[0] == 0 {
			break
		}
		if err := d.src.Seek(-1, bitio.SeekCurrent); err != nil {
			return nil, fmt.Errorf("swf: %s TextRecord rewind: %w", tagName, err)
		}

		rec := NewNode(KindRecord, "TextRecord")
		bc := d.bits()
		recType := bc.ReadUnsigned(1)
		styleReserved := bc.ReadUnsigned(3)
		hasFont := bc.ReadUnsigned(1) != 0
		hasColor := bc.ReadUnsigned(1) != 0
		hasYOffset := bc.ReadUnsigned(1) != 0
		hasXOffset := bc.ReadUnsigned(1) != 0
		if err := bc.Err(); err != nil {
			return nil, fmt.Errorf("swf: %s TextRecord flags: %w", tagName, err)
		}
		rec.Set("TextRecordType", recType)
		rec.Set("StyleFlagsReserved", styleReserved)
		rec.Set("StyleFlagsHasFont", hasFont)
		rec.Set("StyleFlagsHasColor", hasColor)
		rec.Set("StyleFlagsHasYOffset", hasYOffset)
		rec.Set("StyleFlagsHasXOffset", hasXOffset)

		if hasFont {
			fontID, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: TextRecord.FontID: %w", err)
			}
			rec.Set("FontID", fontID)
		}
		if hasColor {
			var color *Node
			if shapeVersion <= 1 {
				color, err = d.readRGB()
			} else {
				color, err = d.readRGBA()
			}
			if err != nil {
				return nil, fmt.Errorf("swf: TextRecord.TextColor: %w", err)
			}
			rec.Set("TextColor", color)
		}
		if hasXOffset {
			xoff, err := bitio.ReadSI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: TextRecord.XOffset: %w", err)
			}
			rec.Set("XOffset", xoff)
		}
		if hasYOffset {
			yoff, err := bitio.ReadSI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: TextRecord.YOffset: %w", err)
			}
			rec.Set("YOffset", yoff)
		}
		if hasFont {
			height, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: TextRecord.TextHeight: %w", err)
			}
			rec.Set("TextHeight", height)
		}

		glyphCount, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: TextRecord.GlyphCount: %w", err)
		}
		rec.Set("GlyphCount", glyphCount)

		gbc := d.bits()
		glyphs := make([]*Node, 0, glyphCount)
		for i := 0; i < int(glyphCount); i++ {
			glyph := NewNode(KindRecord, "GlyphEntry")
			glyph.Set("GlyphIndex", gbc.ReadUnsigned(uint(glyphBits)))
			glyph.Set("GlyphAdvance", gbc.ReadUnsigned(uint(advanceBits)))
			glyphs = append(glyphs, glyph)
		}
		if err := gbc.Err(); err != nil {
			return nil, fmt.Errorf("swf: TextRecord.GlyphEntries: %w", err)
		}
		rec.Set("GlyphEntries", glyphs)

		records = append(records, rec)
	}
	n.Set("TextRecords", records)
	return n, nil
}

func (d *decoder) readDefineText() (*Node, error) {
	return d.readDefineTextRecords("DefineText", 1)
}

func (d *decoder) readDefineText2() (*Node, error) {
	return d.readDefineTextRecords("DefineText2", 2)
}

// readDefineEditText reads the DefineEditText tag: ID, bounds, 16 ordered
// flag bits, then fields gated by those flags in declaration order.
func (d *decoder) readDefineEditText() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineEditText")

	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, fmt.Errorf("swf: DefineEditText.CharacterID: %w", err)
	}
	n.Set("CharacterID", charID)

	bounds, err := d.readRect()
	if err != nil {
		return nil, fmt.Errorf("swf: DefineEditText.Bounds: %w", err)
	}
	n.Set("Bounds", bounds)

	bc := d.bits()
	hasText := bc.ReadUnsigned(1) != 0
	wordWrap := bc.ReadUnsigned(1) != 0
	multiline := bc.ReadUnsigned(1) != 0
	password := bc.ReadUnsigned(1) != 0
	readOnly := bc.ReadUnsigned(1) != 0
	hasTextColor := bc.ReadUnsigned(1) != 0
	hasMaxLength := bc.ReadUnsigned(1) != 0
	hasFont := bc.ReadUnsigned(1) != 0
	hasFontClass := bc.ReadUnsigned(1) != 0
	autoSize := bc.ReadUnsigned(1) != 0
	hasLayout := bc.ReadUnsigned(1) != 0
	noSelect := bc.ReadUnsigned(1) != 0
	border := bc.ReadUnsigned(1) != 0
	wasStatic := bc.ReadUnsigned(1) != 0
	html := bc.ReadUnsigned(1) != 0
	useOutlines := bc.ReadUnsigned(1) != 0
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: DefineEditText flags: %w", err)
	}
	n.Set("HasText", hasText)
	n.Set("WordWrap", wordWrap)
	n.Set("Multiline", multiline)
	n.Set("Password", password)
	n.Set("ReadOnly", readOnly)
	n.Set("HasTextColor", hasTextColor)
	n.Set("HasMaxLength", hasMaxLength)
	n.Set("HasFont", hasFont)
	n.Set("HasFontClass", hasFontClass)
	n.Set("AutoSize", autoSize)
	n.Set("HasLayout", hasLayout)
	n.Set("NoSelect", noSelect)
	n.Set("Border", border)
	n.Set("WasStatic", wasStatic)
	n.Set("HTML", html)
	n.Set("UseOutlines", useOutlines)

	if hasFont {
		fontID, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.FontID: %w", err)
		}
		n.Set("FontID", fontID)
	}
	if hasFontClass {
		class, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.FontClass: %w", err)
		}
		n.Set("FontClass", class)
	}
	if hasFont {
		height, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.FontHeight: %w", err)
		}
		n.Set("FontHeight", height)
	}
	if hasTextColor {
		color, err := d.readRGBA()
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.TextColor: %w", err)
		}
		n.Set("TextColor", color)
	}
	if hasMaxLength {
		maxLen, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.MaxLength: %w", err)
		}
		n.Set("MaxLength", maxLen)
	}
	if hasLayout {
		align, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.Align: %w", err)
		}
		n.Set("Align", align)
		for _, name := range []string{"LeftMargin", "RightMargin", "Indent", "Leading"} {
			v, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: DefineEditText.%s: %w", name, err)
			}
			n.Set(name, v)
		}
	}

	varName, err := d.readString()
	if err != nil {
		return nil, fmt.Errorf("swf: DefineEditText.VariableName: %w", err)
	}
	n.Set("VariableName", varName)

	if hasText {
		text, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("swf: DefineEditText.InitialText: %w", err)
		}
		n.Set("InitialText", text)
	}

	return n, nil
}
