// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cosnicolaou/swfdump/swf"
)

// printNode renders a Node tree as indented, nested field lists. Raw
// byte payloads on Unknown/Failing envelopes are elided unless raw is set.
func printNode(w io.Writer, n *swf.Node, depth int, raw bool) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s %s\n", indent, n.Kind, n.Name)

	if len(n.Raw) > 0 {
		if raw {
			fmt.Fprintf(w, "%s  raw: % x\n", indent, n.Raw)
		} else {
			fmt.Fprintf(w, "%s  raw: %d bytes\n", indent, len(n.Raw))
		}
	}

	for _, f := range n.Fields {
		printField(w, f, depth+1, raw)
	}
}

func printField(w io.Writer, f swf.Field, depth int, raw bool) {
	indent := strings.Repeat("  ", depth)
	switch v := f.Value.(type) {
	case *swf.Node:
		fmt.Fprintf(w, "%s%s:\n", indent, f.Name)
		printNode(w, v, depth+1, raw)
	case []*swf.Node:
		fmt.Fprintf(w, "%s%s: [%d]\n", indent, f.Name, len(v))
		for _, child := range v {
			printNode(w, child, depth+1, raw)
		}
	default:
		fmt.Fprintf(w, "%s%s: %v\n", indent, f.Name, v)
	}
}
