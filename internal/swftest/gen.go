//go:build ignore

// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// gen writes the synthetic fixtures this package builds to disk, so they
// can be inspected with cmd/swfdump or diffed against a real SWF tool.
// Run with: go run internal/swftest/gen.go
package main

import (
	"log"
	"os"

	"github.com/cosnicolaou/swfdump/internal/swftest"
)

func main() {
	fixtures := map[string][]byte{
		"minimal.swf":            swftest.MinimalMovie(),
		"minimal_compressed.swf": swftest.MinimalMovieCompressed(),
		"truncated_tag.swf":      swftest.TruncatedTagMovie(),
	}
	for name, data := range fixtures {
		if err := os.WriteFile(name, data, 0644); err != nil {
			log.Fatalf("write %s: %v", name, err)
		}
	}
}
