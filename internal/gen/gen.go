// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package gen generates synthetic line-delimited token inputs for
// testing and benchmarking the shuffle/reduce pipeline. It is not
// part of the core pipeline (spec §1 places synthetic input
// generation outside the core's interface); it exists purely as a
// test and CLI-debugging collaborator.
package gen

import (
	"bufio"
	"io"
	"math/rand"
)

// Seed for the pseudorandom generator, shared across a single call so
// that repeated calls with the same seed are reproducible.
const defaultSeed = 0x1234

// Options controls the shape of a generated input.
type Options struct {
	// Lines is the total number of lines to emit.
	Lines int
	// UniqueFirst, if true, places a single, provably unique token on
	// the first line, matching the "zzz at line 742" shape of spec
	// §8's sixth end-to-end scenario.
	UniqueFirst bool
	// DuplicatePoolSize is the number of distinct repeated tokens used
	// to fill the remaining lines. Each line draws one of them
	// uniformly at random, so a pool token is not guaranteed to occur
	// more than once.
	DuplicatePoolSize int
	// TrailingComma, if true, appends a trailing comma to every line,
	// exercising the trim-on-read path of spec §3.
	TrailingComma bool
	// Seed seeds the random token generator. Zero selects a fixed,
	// reproducible default.
	Seed int64
}

// Write generates a synthetic input stream per opts and writes it to
// w, one token per line.
func Write(w io.Writer, opts Options) error {
	seed := opts.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewSource(seed))

	pool := opts.DuplicatePoolSize
	if pool < 1 {
		pool = 1
	}
	duplicates := make([]string, pool)
	for i := range duplicates {
		duplicates[i] = randomToken(rng, 10)
	}

	bw := bufio.NewWriter(w)
	lines := opts.Lines
	start := 0
	if opts.UniqueFirst && lines > 0 {
		if err := writeLine(bw, randomToken(rng, 12), opts.TrailingComma); err != nil {
			return err
		}
		start = 1
	}
	for i := start; i < lines; i++ {
		tok := duplicates[rng.Intn(len(duplicates))]
		if err := writeLine(bw, tok, opts.TrailingComma); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, tok string, trailingComma bool) error {
	if _, err := w.WriteString(tok); err != nil {
		return err
	}
	if trailingComma {
		if err := w.WriteByte(','); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomToken returns a random alphanumeric string of the given
// length, matching original_source's csv_generator.rs random_string.
func randomToken(rng *rand.Rand, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = alphanumeric[rng.Intn(len(alphanumeric))]
	}
	return string(out)
}
