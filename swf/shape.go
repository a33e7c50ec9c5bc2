// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// readShape reads a SHAPE: a 4-bit numFillBits, a 4-bit numLineBits, then
// the shape-record sequence, all at bit level.
func (d *decoder) readShape(shapeVersion int) (*Node, error) {
	bc := d.bits()
	numFillBits := uint(bc.ReadUnsigned(4))
	numLineBits := uint(bc.ReadUnsigned(4))
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: Shape: %w", err)
	}
	n := NewNode(KindRecord, "Shape")
	n.Set("NumFillBits", numFillBits)
	n.Set("NumLineBits", numLineBits)
	records, err := d.readShapeRecords(bc, numFillBits, numLineBits, 0)
	if err != nil {
		return nil, fmt.Errorf("swf: Shape: %w", err)
	}
	n.Set("ShapeRecords", records)
	return n, nil
}

// readShapeWithStyle reads a SHAPEWITHSTYLE: a FILLSTYLEARRAY, a
// LINESTYLEARRAY, then a 4-bit NumFillBits and a 4-bit NumLineBits, then
// the shape-record sequence read with those widths.
func (d *decoder) readShapeWithStyle(shapeNumber int) (*Node, error) {
	n := NewNode(KindRecord, "ShapeWithStyle")

	fillStyles, err := d.readFillStyleArray(shapeNumber)
	if err != nil {
		return nil, fmt.Errorf("swf: ShapeWithStyle: %w", err)
	}
	n.Set("FillStyles", fillStyles)

	lineStyles, err := d.readLineStyleArray(shapeNumber)
	if err != nil {
		return nil, fmt.Errorf("swf: ShapeWithStyle: %w", err)
	}
	n.Set("LineStyles", lineStyles)

	bc := d.bits()
	numFillBits := uint(bc.ReadUnsigned(4))
	numLineBits := uint(bc.ReadUnsigned(4))
	if err := bc.Err(); err != nil {
		return nil, fmt.Errorf("swf: ShapeWithStyle: %w", err)
	}
	n.Set("NumFillBits", numFillBits)
	n.Set("NumLineBits", numLineBits)

	records, err := d.readShapeRecords(bc, numFillBits, numLineBits, shapeNumber)
	if err != nil {
		return nil, fmt.Errorf("swf: ShapeWithStyle: %w", err)
	}
	n.Set("ShapeRecords", records)
	return n, nil
}

// readShapeRecords consumes the bit-level shape-record sequence until an
// end-of-shape marker (five zero style-change flags) is seen. bc is the
// live bit consumer for the sequence; readShapeRecords may replace it with
// a fresh one after a NewStyles style-change record performs byte-aligned
// reads.
func (d *decoder) readShapeRecords(bc *bitio.BitReader, numFillBits, numLineBits uint, shapeNumber int) ([]*Node, error) {
	var records []*Node
	for {
		typeFlag := bc.ReadUnsigned(1)
		if err := bc.Err(); err != nil {
			return nil, err
		}
		if typeFlag != 0 {
			straight := bc.ReadUnsigned(1) != 0
			numBits := uint(bc.ReadUnsigned(4))
			if straight {
				rec := NewNode(KindRecord, "StraightEdgeRecord")
				rec.Set("TypeFlag", 1)
				rec.Set("StraightFlag", 1)
				rec.Set("NumBits", numBits)
				general := bc.ReadUnsigned(1) != 0
				rec.Set("GeneralLineFlag", general)
				if general {
					rec.Set("DeltaX", bc.ReadSigned(numBits+2))
					rec.Set("DeltaY", bc.ReadSigned(numBits+2))
				} else {
					vert := bc.ReadUnsigned(1) != 0
					rec.Set("VertLineFlag", vert)
					if vert {
						rec.Set("DeltaY", bc.ReadSigned(numBits+2))
					} else {
						rec.Set("DeltaX", bc.ReadSigned(numBits+2))
					}
				}
				records = append(records, rec)
			} else {
				rec := NewNode(KindRecord, "CurvedEdgeRecord")
				rec.Set("TypeFlag", 1)
				rec.Set("StraightFlag", 0)
				rec.Set("NumBits", numBits)
				rec.Set("ControlDeltaX", bc.ReadSigned(numBits+2))
				rec.Set("ControlDeltaY", bc.ReadSigned(numBits+2))
				rec.Set("AnchorDeltaX", bc.ReadSigned(numBits+2))
				rec.Set("AnchorDeltaY", bc.ReadSigned(numBits+2))
				records = append(records, rec)
			}
			if err := bc.Err(); err != nil {
				return nil, err
			}
			continue
		}

		// Style-change record.
		newStyles := bc.ReadUnsigned(1) != 0
		lineStyle := bc.ReadUnsigned(1) != 0
		fillStyle1 := bc.ReadUnsigned(1) != 0
		fillStyle0 := bc.ReadUnsigned(1) != 0
		moveTo := bc.ReadUnsigned(1) != 0
		if err := bc.Err(); err != nil {
			return nil, err
		}
		if !newStyles && !lineStyle && !fillStyle1 && !fillStyle0 && !moveTo {
			// End-of-shape marker.
			break
		}

		rec := NewNode(KindRecord, "StyleChangeRecord")
		rec.Set("TypeFlag", 0)
		rec.Set("StateNewStyles", newStyles)
		rec.Set("StateLineStyle", lineStyle)
		rec.Set("StateFillStyle1", fillStyle1)
		rec.Set("StateFillStyle0", fillStyle0)
		rec.Set("StateMoveTo", moveTo)

		if moveTo {
			moveBits := uint(bc.ReadUnsigned(5))
			rec.Set("MoveBits", moveBits)
			rec.Set("MoveDeltaX", bc.ReadSigned(moveBits))
			rec.Set("MoveDeltaY", bc.ReadSigned(moveBits))
		}
		if fillStyle0 {
			rec.Set("FillStyle0", bc.ReadUnsigned(numFillBits))
		}
		if fillStyle1 {
			rec.Set("FillStyle1", bc.ReadUnsigned(numFillBits))
		}
		if lineStyle {
			rec.Set("LineStyle", bc.ReadUnsigned(numLineBits))
		}
		if err := bc.Err(); err != nil {
			return nil, err
		}

		if newStyles {
			fillStyles, err := d.readFillStyleArray(shapeNumber)
			if err != nil {
				return nil, err
			}
			rec.Set("FillStyles", fillStyles)
			lineStyles, err := d.readLineStyleArray(shapeNumber)
			if err != nil {
				return nil, err
			}
			rec.Set("LineStyles", lineStyles)

			// The new fill/line bit widths only propagate to the
			// remaining records when shapeNumber > 2; this mirrors a
			// deviation present in the original parser rather than an
			// unambiguous spec rule (see DESIGN.md).
			freshBC := d.bits()
			newNumFillBits := uint(freshBC.ReadUnsigned(4))
			newNumLineBits := uint(freshBC.ReadUnsigned(4))
			rec.Set("NumFillBits", newNumFillBits)
			rec.Set("NumLineBits", newNumLineBits)
			if shapeNumber > 2 {
				numFillBits = newNumFillBits
				numLineBits = newNumLineBits
			}
			bc = freshBC
		}

		records = append(records, rec)
	}
	return records, nil
}
