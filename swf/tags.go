// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// tagNames maps a tag type code to its spec name. Codes absent from this
// table, and codes present but lacking a registered handler, are both
// preserved as raw envelopes (KindUnknownTag) unless the decoder is running
// in strict mode.
var tagNames = map[int]string{
	0:  "End",
	1:  "ShowFrame",
	2:  "DefineShape",
	4:  "PlaceObject",
	5:  "RemoveObject",
	6:  "DefineBits",
	7:  "DefineButton",
	8:  "JPEGTables",
	9:  "SetBackgroundColor",
	10: "DefineFont",
	11: "DefineText",
	12: "DoAction",
	13: "DefineFontInfo",
	14: "DefineSound",
	15: "StartSound",
	17: "DefineButtonSound",
	18: "SoundStreamHead",
	19: "SoundStreamBlock",
	20: "DefineBitsLossless",
	21: "DefineBitsJPEG2",
	22: "DefineShape2",
	23: "DefineButtonCxform",
	24: "Protect",
	26: "PlaceObject2",
	28: "RemoveObject2",
	32: "DefineShape3",
	33: "DefineText2",
	34: "DefineButton2",
	35: "DefineBitsJPEG3",
	36: "DefineBitsLossless2",
	37: "DefineEditText",
	39: "DefineSprite",
	43: "FrameLabel",
	45: "SoundStreamHead2",
	46: "DefineMorphShape",
	48: "DefineFont2",
	56: "ExportAssets",
	57: "ImportAssets",
	58: "EnableDebugger",
	59: "DoInitAction",
	60: "DefineVideoStream",
	61: "VideoFrame",
	62: "DefineFontInfo2",
	64: "EnableDebugger2",
	65: "ScriptLimits",
	66: "SetTabIndex",
	69: "FileAttributes",
	70: "PlaceObject3",
	71: "ImportAssets2",
	73: "DefineFontAlignZones",
	74: "CSMTextSettings",
	75: "DefineFont3",
	76: "SymbolClass",
	77: "Metadata",
	78: "DefineScalingGrid",
	82: "DoABC",
	83: "DefineShape4",
	84: "DefineMorphShape2",
	86: "DefineSceneAndFrameLabelData",
	87: "DefineBinaryData",
	88: "DefineFontName",
	89: "StartSound2",
	90: "DefineBitsJPEG4",
	91: "DefineFont4",
}

// tagHandlers maps a tag name to its reader. Only tags whose structural
// layout this decoder implements appear here; everything else falls
// through to the raw-envelope path.
var tagHandlers map[string]func(d *decoder) (*Node, error)

func init() {
	tagHandlers = map[string]func(d *decoder) (*Node, error){
		"ShowFrame":                    (*decoder).readShowFrame,
		"DefineShape":                  func(d *decoder) (*Node, error) { return d.readDefineShapeN("DefineShape", 1) },
		"RemoveObject":                 (*decoder).readRemoveObject,
		"DefineBits":                   (*decoder).readDefineBits,
		"JPEGTables":                   (*decoder).readJPEGTables,
		"SetBackgroundColor":           (*decoder).readSetBackgroundColor,
		"DefineText":                   (*decoder).readDefineText,
		"DoAction":                     (*decoder).readDoAction,
		"DefineShape2":                 func(d *decoder) (*Node, error) { return d.readDefineShapeN("DefineShape2", 2) },
		"PlaceObject2":                 (*decoder).readPlaceObject2,
		"RemoveObject2":                (*decoder).readRemoveObject2,
		"DefineShape3":                 func(d *decoder) (*Node, error) { return d.readDefineShapeN("DefineShape3", 3) },
		"DefineText2":                  (*decoder).readDefineText2,
		"DefineButton2":                (*decoder).readDefineButton2,
		"DefineBitsJPEG2":              (*decoder).readDefineBitsJPEG2,
		"DefineEditText":               (*decoder).readDefineEditText,
		"DefineSprite":                 (*decoder).readDefineSprite,
		"FrameLabel":                   (*decoder).readFrameLabel,
		"DefineFont2":                  func(d *decoder) (*Node, error) { return d.readDefineFont("DefineFont2") },
		"EnableDebugger2":              (*decoder).readEnableDebugger2,
		"ScriptLimits":                 (*decoder).readScriptLimits,
		"FileAttributes":               (*decoder).readFileAttributes,
		"PlaceObject3":                 (*decoder).readPlaceObject3,
		"DefineFontAlignZones":         (*decoder).readDefineFontAlignZones,
		"CSMTextSettings":              (*decoder).readCSMTextSettings,
		"DefineFont3":                  func(d *decoder) (*Node, error) { return d.readDefineFont("DefineFont3") },
		"Metadata":                     (*decoder).readMetadata,
		"DefineShape4":                 (*decoder).readDefineShape4,
		"DefineMorphShape2":            (*decoder).readDefineMorphShape2,
		"DefineSceneAndFrameLabelData": (*decoder).readDefineSceneAndFrameLabelData,
		"DefineFontName":               (*decoder).readDefineFontName,
	}
}

// readTagStream consumes tags until an End tag (type code 0) or the
// underlying source is exhausted, applying the bounded-read guard to every
// handler invocation: a handler that reads beyond its tag's declared
// length, or that leaves bytes unconsumed, produces a KindFailingTag
// envelope and the parse continues. An error returned by the handler
// itself aborts the parse.
func (d *decoder) readTagStream() ([]*Node, error) {
	var tags []*Node
	for {
		tagBF, err := bitio.ReadUI16(d.src)
		if err != nil {
			// A truncated trailing tag header ends the stream leniently.
			break
		}
		tagType := int(tagBF >> 6)
		if tagType == 0 {
			break
		}
		tagLen := int(tagBF & 0x3f)
		if tagLen == 0x3f {
			ext, err := bitio.ReadUI32(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: extended tag length: %w", err)
			}
			tagLen = int(ext)
		}

		name, known := tagNames[tagType]
		if !known {
			if d.strict() {
				return nil, newError(UnknownName, fmt.Sprintf("UnspecifiedTag(%d)", tagType), d.src.Tell(), nil)
			}
			payload, err := d.src.Read(tagLen)
			if err != nil {
				return nil, fmt.Errorf("swf: unknown tag payload (type %d): %w", tagType, err)
			}
			n := NewNode(KindUnknownTag, fmt.Sprintf("UnspecifiedTag(%d)", tagType))
			n.Code = tagType
			n.Raw = append([]byte(nil), payload...)
			tags = append(tags, n)
			continue
		}

		handler, hasHandler := tagHandlers[name]
		if !hasHandler {
			if d.strict() {
				return nil, newError(UnknownName, name, d.src.Tell(), nil)
			}
			payload, err := d.src.Read(tagLen)
			if err != nil {
				return nil, fmt.Errorf("swf: %s payload: %w", name, err)
			}
			n := NewNode(KindUnknownTag, name)
			n.Code = tagType
			n.Raw = append([]byte(nil), payload...)
			tags = append(tags, n)
			continue
		}

		start := d.src.Tell()
		tag, herr := handler(d)
		if herr != nil {
			return nil, fmt.Errorf("swf: %s: %w", name, herr)
		}
		consumed := d.src.Tell() - start
		if consumed != tagLen {
			if err := d.src.Seek(start, bitio.SeekStart); err != nil {
				return nil, fmt.Errorf("swf: %s recovery seek: %w", name, err)
			}
			payload, err := d.src.Read(tagLen)
			if err != nil {
				return nil, fmt.Errorf("swf: %s recovery payload: %w", name, err)
			}
			n := NewNode(KindFailingTag, name)
			n.Code = tagType
			n.Raw = append([]byte(nil), payload...)
			tags = append(tags, n)
			continue
		}

		tag.Code = tagType
		tags = append(tags, tag)
	}
	return tags, nil
}

func (d *decoder) readShowFrame() (*Node, error) {
	return NewNode(KindKnownTag, "ShowFrame"), nil
}

func (d *decoder) readRemoveObject() (*Node, error) {
	n := NewNode(KindKnownTag, "RemoveObject")
	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("CharacterId", charID)
	depth, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Depth", depth)
	return n, nil
}

func (d *decoder) readRemoveObject2() (*Node, error) {
	n := NewNode(KindKnownTag, "RemoveObject2")
	depth, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Depth", depth)
	return n, nil
}

func (d *decoder) readSetBackgroundColor() (*Node, error) {
	n := NewNode(KindKnownTag, "SetBackgroundColor")
	color, err := d.readRGB()
	if err != nil {
		return nil, err
	}
	n.Set("BackgroundColor", color)
	return n, nil
}

func (d *decoder) readFrameLabel() (*Node, error) {
	n := NewNode(KindKnownTag, "FrameLabel")
	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("Name", name)
	return n, nil
}

func (d *decoder) readMetadata() (*Node, error) {
	n := NewNode(KindKnownTag, "Metadata")
	meta, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("Metadata", meta)
	return n, nil
}

func (d *decoder) readEnableDebugger2() (*Node, error) {
	n := NewNode(KindKnownTag, "EnableDebugger2")
	reserved, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Reserved", reserved)
	pw, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("Password", pw)
	return n, nil
}

func (d *decoder) readScriptLimits() (*Node, error) {
	n := NewNode(KindKnownTag, "ScriptLimits")
	depth, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("MaxRecursionDepth", depth)
	timeout, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("ScriptTimeoutSeconds", timeout)
	return n, nil
}

func (d *decoder) readCSMTextSettings() (*Node, error) {
	n := NewNode(KindKnownTag, "CSMTextSettings")
	textID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("TextId", textID)
	bc := d.bits()
	useFlashType := bc.ReadUnsigned(2)
	gridFit := bc.ReadUnsigned(3)
	reserved1 := bc.ReadUnsigned(3)
	if err := bc.Err(); err != nil {
		return nil, err
	}
	n.Set("UseFlashType", useFlashType)
	n.Set("GridFit", gridFit)
	n.Set("Reserved1", reserved1)
	thickness, err := bitio.ReadFloat32(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Thickness", thickness)
	sharpness, err := bitio.ReadFloat32(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Sharpness", sharpness)
	reserved2, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Reserved2", reserved2)
	return n, nil
}

func (d *decoder) readFileAttributes() (*Node, error) {
	n := NewNode(KindKnownTag, "FileAttributes")
	bc := d.bits()
	n.Set("Reserved0", bc.ReadUnsigned(1))
	n.Set("UseDirectBlit", bc.ReadUnsigned(1))
	n.Set("UseGPU", bc.ReadUnsigned(1))
	n.Set("HasMetadata", bc.ReadUnsigned(1))
	n.Set("ActionScript3", bc.ReadUnsigned(1))
	n.Set("Reserved1", bc.ReadUnsigned(2))
	n.Set("UseNetwork", bc.ReadUnsigned(1))
	n.Set("Reserved2", bc.ReadUnsigned(24))
	return n, bc.Err()
}

// readJPEGSOIStream reads a byte run bounded by a leading FF D8 SOI marker
// and a trailing FF D9 EOI marker, returning the bytes between them (the
// markers themselves are not included in the returned payload).
func (d *decoder) readJPEGSOIStream(name string) ([]byte, error) {
	soi, err := d.src.Read(2)
	if err != nil {
		return nil, fmt.Errorf("%s SOI: %w", name, err)
	}
	if soi[0] != 0xFF || soi[1] != 0xD8 {
		return nil, newError(ProtocolAssertionFailure, name, d.src.Tell(), fmt.Errorf("missing SOI marker"))
	}
	var buf []byte
	var prev, cur byte
	for !(prev == 0xFF && cur == 0xD9) {
		b, err := d.src.Read(1)
		if err != nil {
			return nil, fmt.Errorf("%s data: %w", name, err)
		}
		buf = append(buf, b[0])
		prev, cur = cur, b[0]
	}
	return buf[:len(buf)-2], nil
}

func (d *decoder) readDefineBits() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineBits")
	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("CharacterID", charID)
	data, err := d.readJPEGSOIStream("DefineBits")
	if err != nil {
		return nil, err
	}
	n.Set("JPEGData", data)
	return n, nil
}

func (d *decoder) readDefineBitsJPEG2() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineBitsJPEG2")
	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("CharacterID", charID)
	data, err := d.readJPEGSOIStream("DefineBitsJPEG2")
	if err != nil {
		return nil, err
	}
	n.Set("ImageData", data)
	return n, nil
}

func (d *decoder) readJPEGTables() (*Node, error) {
	n := NewNode(KindKnownTag, "JPEGTables")
	data, err := d.readJPEGSOIStream("JPEGTables")
	if err != nil {
		return nil, err
	}
	// Unlike DefineBits, JPEGTables' payload includes the SOI marker.
	n.Set("JPEGData", append([]byte{0xFF, 0xD8}, data...))
	return n, nil
}

func (d *decoder) readDefineShapeN(tagName string, shapeVersion int) (*Node, error) {
	n := NewNode(KindKnownTag, tagName)
	shapeID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("ShapeId", shapeID)
	bounds, err := d.readRect()
	if err != nil {
		return nil, err
	}
	n.Set("ShapeBounds", bounds)
	shapes, err := d.readShapeWithStyle(shapeVersion)
	if err != nil {
		return nil, err
	}
	n.Set("Shapes", shapes)
	return n, nil
}

func (d *decoder) readDefineShape4() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineShape4")
	shapeID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("ShapeId", shapeID)
	bounds, err := d.readRect()
	if err != nil {
		return nil, err
	}
	n.Set("ShapeBounds", bounds)
	edgeBounds, err := d.readRect()
	if err != nil {
		return nil, err
	}
	n.Set("EdgeBounds", edgeBounds)

	bc := d.bits()
	bc.ReadUnsigned(5)
	fillWinding := bc.ReadUnsigned(1)
	nonScaling := bc.ReadUnsigned(1)
	scaling := bc.ReadUnsigned(1)
	if err := bc.Err(); err != nil {
		return nil, err
	}
	n.Set("UsesFillWindingRule", fillWinding)
	n.Set("UsesNonScalingStrokes", nonScaling)
	n.Set("UsesScalingStrokes", scaling)

	shapes, err := d.readShapeWithStyle(4)
	if err != nil {
		return nil, err
	}
	n.Set("Shapes", shapes)
	return n, nil
}

// readDefineMorphShape2 preserves the original parser's gap: the Offset
// field's purpose (splitting start- and end-edge style tables) is not
// decoded; the bytes it spans are kept raw under SkippedOffsetBytes.
func (d *decoder) readDefineMorphShape2() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineMorphShape2")
	charID, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("CharacterId", charID)

	for _, name := range []string{"StartBounds", "EndBounds", "StartEdgeBounds", "EndEdgeBounds"} {
		r, err := d.readRect()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		n.Set(name, r)
	}

	bc := d.bits()
	bc.ReadUnsigned(6)
	nonScaling := bc.ReadUnsigned(1)
	scaling := bc.ReadUnsigned(1)
	if err := bc.Err(); err != nil {
		return nil, err
	}
	n.Set("UsesNonScalingStrokes", nonScaling)
	n.Set("UsesScalingStrokes", scaling)

	offset, err := bitio.ReadUI32(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Offset", offset)

	skipped, err := d.src.Read(int(offset))
	if err != nil {
		return nil, fmt.Errorf("DefineMorphShape2 skipped region: %w", err)
	}
	n.Set("SkippedOffsetBytes", append([]byte(nil), skipped...))

	endEdges, err := d.readShape(2)
	if err != nil {
		return nil, err
	}
	n.Set("EndEdges", endEdges)
	return n, nil
}

func (d *decoder) readDefineSceneAndFrameLabelData() (*Node, error) {
	n := NewNode(KindKnownTag, "DefineSceneAndFrameLabelData")

	sceneCount, err := d.readEncodedU32()
	if err != nil {
		return nil, err
	}
	n.Set("SceneCount", sceneCount)

	type sceneEntry struct {
		Offset uint32
		Name   string
	}
	scenes := make([]sceneEntry, 0, sceneCount)
	for i := uint32(0); i < sceneCount; i++ {
		off, err := d.readEncodedU32()
		if err != nil {
			return nil, err
		}
		name, err := d.readString()
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, sceneEntry{off, name})
	}
	sceneNodes := make([]*Node, 0, len(scenes))
	for _, s := range scenes {
		sn := NewNode(KindRecord, "Scene")
		sn.Set("Offset", s.Offset)
		sn.Set("Name", s.Name)
		sceneNodes = append(sceneNodes, sn)
	}
	n.Set("Scenes", sceneNodes)

	frameLabelCount, err := d.readEncodedU32()
	if err != nil {
		return nil, err
	}
	n.Set("FrameLabelCount", frameLabelCount)

	labels := make([]*Node, 0, frameLabelCount)
	for i := uint32(0); i < frameLabelCount; i++ {
		frameNum, err := d.readEncodedU32()
		if err != nil {
			return nil, err
		}
		label, err := d.readString()
		if err != nil {
			return nil, err
		}
		ln := NewNode(KindRecord, "FrameLabelEntry")
		ln.Set("FrameNum", frameNum)
		ln.Set("FrameLabel", label)
		labels = append(labels, ln)
	}
	n.Set("FrameLabels", labels)
	return n, nil
}

func (d *decoder) readDoAction() (*Node, error) {
	n := NewNode(KindKnownTag, "DoAction")
	actions, err := d.readActionStream()
	if err != nil {
		return nil, err
	}
	n.Set("Actions", actions)
	return n, nil
}
