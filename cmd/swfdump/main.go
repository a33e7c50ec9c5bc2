// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command swfdump parses and inspects binary SWF movie files. Files may be
// local, on S3 or a URL.
package main

import (
	"context"
	"io"
	"net/http"
	"strings"

	"cloudeng.io/cmdutil/subcmd"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
)

type CommonFlags struct {
	Strict bool `subcmd:"strict,false,'treat unrecognized tags and actions as fatal errors'"`
}

type dumpFlags struct {
	CommonFlags
	Raw bool `subcmd:"raw,false,'print raw bytes for unknown/failing tag envelopes'"`
}

type scanFlags struct {
	CommonFlags
}

type batchFlags struct {
	CommonFlags
	Concurrency int  `subcmd:"concurrency,4,'concurrency for decoding multiple files'"`
	ProgressBar bool `subcmd:"progress,true,'display a progress bar'"`
}

var cmdSet *subcmd.CommandSet

func init() {
	dumpCmd := subcmd.NewCommand("dump",
		subcmd.MustRegisterFlagStruct(&dumpFlags{}, nil, nil),
		dump, subcmd.AtLeastNArguments(1))
	dumpCmd.Document(`decode SWF files and print their full tag/action tree.`)

	scanCmd := subcmd.NewCommand("scan",
		subcmd.MustRegisterFlagStruct(&scanFlags{}, nil, nil),
		scan, subcmd.AtLeastNArguments(1))
	scanCmd.Document(`decode SWF files and list each top-level tag's code, kind, name and field or raw byte count; tag offsets are not reported.`)

	batchCmd := subcmd.NewCommand("batch",
		subcmd.MustRegisterFlagStruct(&batchFlags{}, nil, nil),
		batch, subcmd.AtLeastNArguments(1))
	batchCmd.Document(`decode many SWF files concurrently, printing a one-line summary per file in argument order.`)

	cmdSet = subcmd.NewCommandSet(dumpCmd, scanCmd, batchCmd)
	cmdSet.Document(`decode and inspect SWF files. Files may be local, on S3 or a URL.`)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		resp, err := http.Get(name)
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body,
			resp.ContentLength,
			func(context.Context) error {
				return resp.Body.Close()
			},
			nil
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	f, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return f.Reader(ctx), info.Size(), f.Close, nil
}

func readAll(ctx context.Context, name string) ([]byte, error) {
	rd, _, cleanup, err := openFileOrURL(ctx, name)
	if err != nil {
		return nil, err
	}
	defer cleanup(ctx)
	return io.ReadAll(rd)
}
