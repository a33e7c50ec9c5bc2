// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"cloudeng.io/cmdutil"
	"cloudeng.io/errors"
	"github.com/cosnicolaou/swfdump/swf"
)

// scanFile decodes name and prints one line per top-level tag: its type
// code, its name, and either its field count (known tags) or its raw byte
// count (unknown/failing tags). It does not print nested records, so it's
// cheap to run over large files just to see their tag composition.
func scanFile(ctx context.Context, name string, strict bool) error {
	data, err := readAll(ctx, name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	var opts []swf.Option
	if strict {
		opts = append(opts, swf.WithUnknownAlert())
	}
	tree, err := swf.Decode(data, opts...)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	for _, tag := range tree.Tags {
		switch tag.Kind {
		case swf.KindUnknownTag, swf.KindFailingTag:
			fmt.Printf("%s: % 4d %-12s %-28s % 6d raw bytes\n",
				name, tag.Code, tag.Kind, tag.Name, len(tag.Raw))
		default:
			fmt.Printf("%s: % 4d %-12s %-28s % 6d fields\n",
				name, tag.Code, tag.Kind, tag.Name, len(tag.Fields))
		}
	}
	return nil
}

func scan(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*scanFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(scanFile(ctx, arg, cl.Strict))
	}
	return errs.Err()
}
