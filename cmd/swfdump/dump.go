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

func dumpFile(ctx context.Context, name string, strict, raw bool) error {
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

	fmt.Printf("=== %s ===\n", name)
	printNode(os.Stdout, tree.Header, 0, raw)
	for _, tag := range tree.Tags {
		printNode(os.Stdout, tag, 0, raw)
	}
	return nil
}

func dump(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*dumpFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	errs := &errors.M{}
	for _, arg := range args {
		errs.Append(dumpFile(ctx, arg, cl.Strict, cl.Raw))
	}
	return errs.Err()
}
