// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package swf

// Kind discriminates the variants of Node. The tree node type is
// deliberately uniform: every parsed record, whether a tag, an action, or
// a nested structural record, is represented by the same Node type so that
// consumers can walk the tree generically.
type Kind int

const (
	// KindRecord is a nested structural record: Matrix, Rect, Shape,
	// FillStyleArray, and so on.
	KindRecord Kind = iota
	// KindHeader is the SWF file header.
	KindHeader
	// KindKnownTag is a tag whose handler ran to completion.
	KindKnownTag
	// KindUnknownTag is a tag whose type code, or whose name, had no
	// registered handler; its payload is preserved raw.
	KindUnknownTag
	// KindFailingTag is a tag whose handler raised LengthMismatch; its
	// payload is preserved raw and the parse continues.
	KindFailingTag
	// KindKnownAction is an action whose handler ran to completion.
	KindKnownAction
	// KindUnknownAction is an action with no registered handler, or whose
	// handler consumed a byte count other than its declared length; its
	// payload is preserved raw.
	KindUnknownAction
)

func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "Record"
	case KindHeader:
		return "Header"
	case KindKnownTag:
		return "Tag"
	case KindUnknownTag:
		return "UnknownTag"
	case KindFailingTag:
		return "FailingTag"
	case KindKnownAction:
		return "Action"
	case KindUnknownAction:
		return "UnknownAction"
	default:
		return "?"
	}
}

// Field is one named, typed value in a Node's ordered field list. Value
// may itself be a *Node (for nested records), a slice of *Node, or a
// primitive Go value (a string, a bool, a sized integer or float such as
// uint16, int64 or float32, a []byte, or a slice of such values).
type Field struct {
	Name  string
	Value interface{}
}

// Node is the uniform tagged-variant tree element produced by the decoder.
// A Node carries a stable Name matching the spec's vocabulary, an ordered
// sequence of named fields, and — for Unknown/Failing envelopes — a raw
// byte buffer in place of decoded fields.
type Node struct {
	Kind   Kind
	Name   string
	Code   int
	Fields []Field
	Raw    []byte
}

// NewNode returns an empty Node of the given kind and name.
func NewNode(kind Kind, name string) *Node {
	return &Node{Kind: kind, Name: name}
}

// Set appends a named field and returns the node, so calls can be chained
// in field-declaration order.
func (n *Node) Set(name string, value interface{}) *Node {
	n.Fields = append(n.Fields, Field{Name: name, Value: value})
	return n
}

// Field returns the value of the first field with the given name.
func (n *Node) Field(name string) (interface{}, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Tree is the top-level result of Decode: the file header and the ordered
// sequence of top-level tag nodes.
type Tree struct {
	Header *Node
	Tags   []*Node
}
