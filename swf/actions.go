// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

import (
	"fmt"

	"github.com/cosnicolaou/swfdump/internal/bitio"
)

// actionNames maps an action code to its spec name. Codes below 0x80 carry
// no payload; codes at or above 0x80 are followed by a 2-byte length and,
// for the subset this decoder implements, a registered body reader.
var actionNames = map[int]string{
	0x04: "ActionNextFrame",
	0x05: "ActionPrevFrame",
	0x06: "ActionPlay",
	0x07: "ActionStop",
	0x08: "ActionToggleQualty",
	0x09: "ActionStopSounds",
	0x0A: "ActionAdd",
	0x0B: "ActionSubtract",
	0x0C: "ActionMultiply",
	0x0D: "ActionDivide",
	0x0E: "ActionEquals",
	0x0F: "ActionLess",
	0x10: "ActionAnd",
	0x11: "ActionOr",
	0x12: "ActionNot",
	0x13: "ActionStringEquals",
	0x14: "ActionStringLength",
	0x15: "ActionStringExtract",
	0x17: "ActionPop",
	0x18: "ActionToInteger",
	0x1C: "ActionGetVariable",
	0x1D: "ActionSetVariable",
	0x20: "ActionSetTarget2",
	0x21: "ActionStringAdd",
	0x22: "ActionGetProperty",
	0x23: "ActionSetProperty",
	0x24: "ActionCloneSprite",
	0x25: "ActionRemoveSprite",
	0x26: "ActionTrace",
	0x27: "ActionStartDrag",
	0x28: "ActionEndDrag",
	0x29: "ActionStringLess",
	0x2A: "ActionThrow",
	0x2B: "ActionCastOp",
	0x2C: "ActionImplementsOp",
	0x30: "ActionRandomNumber",
	0x31: "ActionMBStringLength",
	0x32: "ActionCharToAscii",
	0x33: "ActionAsciiToChar",
	0x34: "ActionGetTime",
	0x35: "ActionMBStringExtract",
	0x36: "ActionMBCharToAscii",
	0x37: "ActionMBAsciiToChar",
	0x3A: "ActionDelete",
	0x3B: "ActionDelete2",
	0x3C: "ActionDefineLocal",
	0x3D: "ActionCallFunction",
	0x3E: "ActionReturn",
	0x3F: "ActionModulo",
	0x40: "ActionNewObject",
	0x41: "ActionDefineLocal2",
	0x42: "ActionInitArray",
	0x43: "ActionInitObject",
	0x44: "ActionTypeOf",
	0x45: "ActionTargetPath",
	0x46: "ActionEnumerate",
	0x47: "ActionAdd2",
	0x48: "ActionLess2",
	0x49: "ActionEquals2",
	0x4A: "ActionToNumber",
	0x4B: "ActionToString",
	0x4C: "ActionPushDuplicate",
	0x4D: "ActionStackSwap",
	0x4E: "ActionGetMember",
	0x4F: "ActionSetMember",
	0x50: "ActionIncrement",
	0x51: "ActionDecrement",
	0x52: "ActionCallMethod",
	0x53: "ActionNewMethod",
	0x54: "ActionInstanceOf",
	0x55: "ActionEnumerate2",
	0x60: "ActionBitAnd",
	0x61: "ActionBitOr",
	0x62: "ActionBitXor",
	0x63: "ActionBitLShift",
	0x64: "ActionBitRShift",
	0x65: "ActionBitURShift",
	0x66: "ActionStrictEquals",
	0x67: "ActionGreater",
	0x68: "ActionStringGreater",
	0x69: "ActionExtends",
	0x81: "ActionGotoFrame",
	0x83: "ActionGetURL",
	0x87: "ActionStoreRegister",
	0x88: "ActionConstantPool",
	0x8A: "ActionWaitForFrame",
	0x8B: "ActionSetTarget",
	0x8C: "ActionGoToLabel",
	0x8D: "ActionWaitForFrame2",
	0x8E: "ActionDefineFunction2",
	0x8F: "ActionTry",
	0x94: "ActionWith",
	0x96: "ActionPush",
	0x99: "ActionJump",
	0x9A: "ActionGetURL2",
	0x9B: "ActionDefineFunction",
	0x9D: "ActionIf",
	0x9E: "ActionCall",
	0x9F: "ActionGotoFrame2",
}

// actionHandlers maps an action name (for codes >= 0x80, which all carry a
// length-prefixed payload) to its body reader.
var actionHandlers map[string]func(d *decoder, length int) (*Node, error)

func init() {
	actionHandlers = map[string]func(d *decoder, length int) (*Node, error){
		"ActionConstantPool":    (*decoder).readActionConstantPool,
		"ActionGetURL":          (*decoder).readActionGetURL,
		"ActionDefineFunction":  (*decoder).readActionDefineFunction,
		"ActionIf":              (*decoder).readActionIf,
		"ActionDefineFunction2": (*decoder).readActionDefineFunction2,
	}
}

// readActionStream consumes a zero-terminated action sequence: each action
// is a 1-byte code, and codes at or above 0x80 additionally carry a 2-byte
// length and a body. Actions whose code or name is unrecognized, and
// ActionPush bodies (which may yield several ActionPush records from a
// single length-bounded payload), are all folded into the flat result
// slice in stream order.
func (d *decoder) readActionStream() ([]*Node, error) {
	var actions []*Node
	for {
		code, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: action code: %w", err)
		}
		if code == 0 {
			break
		}

		name, known := actionNames[int(code)]
		if !known {
			if d.strict() {
				return nil, newError(UnknownName, fmt.Sprintf("Action(%#x)", code), d.src.Tell(), nil)
			}
			// Unrecognized low codes carry no length and no payload, so
			// they are recorded as bare envelopes and the loop moves on.
			if code < 0x80 {
				n := NewNode(KindUnknownAction, fmt.Sprintf("Action(%#x)", code))
				n.Code = int(code)
				actions = append(actions, n)
				continue
			}
			length, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, fmt.Errorf("swf: action length: %w", err)
			}
			payload, err := d.src.Read(int(length))
			if err != nil {
				return nil, fmt.Errorf("swf: action payload: %w", err)
			}
			n := NewNode(KindUnknownAction, fmt.Sprintf("Action(%#x)", code))
			n.Code = int(code)
			n.Raw = append([]byte(nil), payload...)
			actions = append(actions, n)
			continue
		}

		if code < 0x80 {
			n := NewNode(KindKnownAction, name)
			n.Code = int(code)
			actions = append(actions, n)
			continue
		}

		length, err := bitio.ReadUI16(d.src)
		if err != nil {
			return nil, fmt.Errorf("swf: %s length: %w", name, err)
		}

		if name == "ActionPush" {
			pushes, err := d.readActionPush(int(length))
			if err != nil {
				return nil, fmt.Errorf("swf: ActionPush: %w", err)
			}
			actions = append(actions, pushes...)
			continue
		}

		handler, hasHandler := actionHandlers[name]
		if !hasHandler {
			if d.strict() {
				return nil, newError(UnknownName, name, d.src.Tell(), nil)
			}
			payload, err := d.src.Read(int(length))
			if err != nil {
				return nil, fmt.Errorf("swf: %s payload: %w", name, err)
			}
			n := NewNode(KindUnknownAction, name)
			n.Code = int(code)
			n.Raw = append([]byte(nil), payload...)
			actions = append(actions, n)
			continue
		}

		start := d.src.Tell()
		action, herr := handler(d, int(length))
		if herr != nil {
			return nil, fmt.Errorf("swf: %s: %w", name, herr)
		}
		consumed := d.src.Tell() - start
		if consumed != int(length) {
			if err := d.src.Seek(start, bitio.SeekStart); err != nil {
				return nil, fmt.Errorf("swf: %s recovery seek: %w", name, err)
			}
			payload, err := d.src.Read(int(length))
			if err != nil {
				return nil, fmt.Errorf("swf: %s recovery payload: %w", name, err)
			}
			n := NewNode(KindUnknownAction, name)
			n.Code = int(code)
			n.Raw = append([]byte(nil), payload...)
			actions = append(actions, n)
			continue
		}
		action.Code = int(code)
		actions = append(actions, action)
	}
	return actions, nil
}

func (d *decoder) readActionConstantPool(length int) (*Node, error) {
	n := NewNode(KindKnownAction, "ActionConstantPool")
	count, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("Count", count)
	pool := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		pool = append(pool, s)
	}
	n.Set("ConstantPool", pool)
	return n, nil
}

func (d *decoder) readActionGetURL(length int) (*Node, error) {
	n := NewNode(KindKnownAction, "ActionGetURL")
	url, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("UrlString", url)
	target, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("TargetString", target)
	return n, nil
}

// readActionPush reads a length-bounded run of ActionPush values, each
// tagged with its own value-type byte, returning one Node per value.
func (d *decoder) readActionPush(length int) ([]*Node, error) {
	start := d.src.Tell()
	var out []*Node
	for d.src.Tell() < start+length {
		n := NewNode(KindKnownAction, "ActionPush")
		typ, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, err
		}
		n.Set("Type", typ)
		switch typ {
		case 0:
			v, err := d.readString()
			if err != nil {
				return nil, err
			}
			n.Set("String", v)
		case 1:
			v, err := bitio.ReadFloat32(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("Float", v)
		case 2:
			n.Set("Null", nil)
		case 4:
			v, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("RegisterNumber", v)
		case 5:
			v, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("Boolean", v)
		case 6:
			v, err := bitio.ReadFloat64(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("Double", v)
		case 7:
			v, err := bitio.ReadUI32(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("Integer", v)
		case 8:
			v, err := bitio.ReadUI8(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("Constant8", v)
		case 9:
			v, err := bitio.ReadUI16(d.src)
			if err != nil {
				return nil, err
			}
			n.Set("Constant16", v)
		default:
			return nil, newError(ProtocolAssertionFailure, "ActionPush", d.src.Tell(), fmt.Errorf("unknown push type %d", typ))
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *decoder) readActionDefineFunction(length int) (*Node, error) {
	n := NewNode(KindKnownAction, "ActionDefineFunction")
	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("FunctionName", name)
	numParams, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("NumParams", numParams)
	params := make([]string, 0, numParams)
	for i := 0; i < int(numParams); i++ {
		p, err := d.readString()
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	n.Set("Params", params)
	codeSize, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("CodeSize", codeSize)
	return n, nil
}

func (d *decoder) readActionIf(length int) (*Node, error) {
	n := NewNode(KindKnownAction, "ActionIf")
	offset, err := bitio.ReadSI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("BranchOffset", offset)
	return n, nil
}

// readActionDefineFunction2 reads an ActionDefineFunction2 body. Flag order
// follows the original parser literally: PreloadParent, PreloadRoot,
// SuppressSuper, PreloadSuper, SuppressArguments, PreloadArguments,
// SuppressThis, PreloadThis, then 7 reserved bits, then PreloadGlobal.
func (d *decoder) readActionDefineFunction2(length int) (*Node, error) {
	n := NewNode(KindKnownAction, "ActionDefineFunction2")
	name, err := d.readString()
	if err != nil {
		return nil, err
	}
	n.Set("FunctionName", name)
	numParams, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("NumParams", numParams)
	regCount, err := bitio.ReadUI8(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("RegisterCount", regCount)

	bc := d.bits()
	n.Set("PreloadParentFlag", bc.ReadUnsigned(1))
	n.Set("PreloadRootFlag", bc.ReadUnsigned(1))
	n.Set("SuppressSuperFlag", bc.ReadUnsigned(1))
	n.Set("PreloadSuperFlag", bc.ReadUnsigned(1))
	n.Set("SuppressArgumentsFlag", bc.ReadUnsigned(1))
	n.Set("PreloadArgumentsFlag", bc.ReadUnsigned(1))
	n.Set("SuppressThisFlag", bc.ReadUnsigned(1))
	n.Set("PreloadThisFlag", bc.ReadUnsigned(1))
	n.Set("Reserved", bc.ReadUnsigned(7))
	n.Set("PreloadGlobalFlag", bc.ReadUnsigned(1))
	if err := bc.Err(); err != nil {
		return nil, err
	}

	params := make([]*Node, 0, numParams)
	for i := 0; i < int(numParams); i++ {
		p := NewNode(KindRecord, "Parameter")
		reg, err := bitio.ReadUI8(d.src)
		if err != nil {
			return nil, err
		}
		p.Set("Register", reg)
		paramName, err := d.readString()
		if err != nil {
			return nil, err
		}
		p.Set("ParamName", paramName)
		params = append(params, p)
	}
	n.Set("Parameters", params)

	codeSize, err := bitio.ReadUI16(d.src)
	if err != nil {
		return nil, err
	}
	n.Set("CodeSize", codeSize)
	return n, nil
}
