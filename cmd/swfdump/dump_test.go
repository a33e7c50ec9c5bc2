// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cosnicolaou/swfdump/internal/swftest"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever was written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	saved := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = saved }()

	fn()

	w.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.swf")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDumpFile(t *testing.T) {
	path := writeFixture(t, swftest.MinimalMovie())
	ctx := context.Background()

	var err error
	out := captureStdout(t, func() {
		err = dumpFile(ctx, path, false, false)
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Header", "SetBackgroundColor", "ShowFrame"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestScanFile(t *testing.T) {
	path := writeFixture(t, swftest.MinimalMovie())
	ctx := context.Background()

	var err error
	out := captureStdout(t, func() {
		err = scanFile(ctx, path, false)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "SetBackgroundColor") {
		t.Errorf("output missing tag name:\n%s", out)
	}
}

// A length-mismatched tag recovers as a FailingTag rather than aborting
// the scan; strict mode only affects unrecognized tags and actions, not
// the bounded-read guard, so this holds under both flag values.
func TestScanFileRecoversFromTruncatedTag(t *testing.T) {
	path := writeFixture(t, swftest.TruncatedTagMovie())
	ctx := context.Background()

	var err error
	out := captureStdout(t, func() {
		err = scanFile(ctx, path, true)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "FailingTag") {
		t.Errorf("output missing FailingTag envelope:\n%s", out)
	}
}
