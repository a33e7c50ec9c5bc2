// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"container/heap"
	"context"
	"fmt"
	"os"
	"sync"

	"cloudeng.io/cmdutil"
	"github.com/cosnicolaou/swfdump/swf"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

// fileResult is the outcome of decoding one input file. Each result is
// self-contained — unlike a bzip2 block, an SWF file owns its own byte
// source end to end, so there's no partial-block merging to do, only
// ordering the finished results back into argument order.
type fileResult struct {
	order int
	name  string
	tree  *swf.Tree
	err   error
}

type fileResultHeap []*fileResult

func (h fileResultHeap) Len() int            { return len(h) }
func (h fileResultHeap) Less(i, j int) bool  { return h[i].order < h[j].order }
func (h fileResultHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *fileResultHeap) Push(x interface{}) { *h = append(*h, x.(*fileResult)) }
func (h *fileResultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

func decodeFile(ctx context.Context, order int, name string, strict bool) *fileResult {
	data, err := readAll(ctx, name)
	if err != nil {
		return &fileResult{order: order, name: name, err: fmt.Errorf("%s: %w", name, err)}
	}
	var opts []swf.Option
	if strict {
		opts = append(opts, swf.WithUnknownAlert())
	}
	tree, err := swf.Decode(data, opts...)
	if err != nil {
		return &fileResult{order: order, name: name, err: fmt.Errorf("%s: %w", name, err)}
	}
	return &fileResult{order: order, name: name, tree: tree}
}

// worker pulls argument indexes off in, decodes the named files, and sends
// the result to out.
func worker(ctx context.Context, cl *batchFlags, in <-chan int, names []string, out chan<- *fileResult) {
	for {
		select {
		case order, ok := <-in:
			if !ok {
				return
			}
			out <- decodeFile(ctx, order, names[order], cl.Strict)
		case <-ctx.Done():
			return
		}
	}
}

// assemble drains out, reordering results by argument order via a heap, and
// prints each one-line summary as soon as its turn arrives.
func assemble(ctx context.Context, out <-chan *fileResult, total int, bar *progressbar.ProgressBar) []error {
	h := &fileResultHeap{}
	heap.Init(h)
	var errs []error
	expected := 0
	received := 0
	for received < total {
		select {
		case r := <-out:
			received++
			heap.Push(h, r)
			for h.Len() > 0 && (*h)[0].order == expected {
				next := heap.Pop(h).(*fileResult)
				if next.err != nil {
					errs = append(errs, next.err)
				} else {
					fmt.Printf("%s: %d tags\n", next.name, len(next.tree.Tags))
				}
				if bar != nil {
					bar.Add(1)
				}
				expected++
			}
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return errs
		}
	}
	return errs
}

func batch(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*batchFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	concurrency := cl.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	var bar *progressbar.ProgressBar
	if cl.ProgressBar && terminal.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.NewOptions(len(args), progressbar.OptionSetWriter(os.Stderr))
	}

	in := make(chan int, len(args))
	out := make(chan *fileResult, concurrency)
	for i := range args {
		in <- i
	}
	close(in)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, cl, in, args, out)
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	errs := assemble(ctx, out, len(args), bar)
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("batch: %d of %d files failed: %v", len(errs), len(args), msgs)
}
