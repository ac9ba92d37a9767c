// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Reduce folds each of the group's partition files into a key->Record
// aggregate, extracts each partition's local first-unique entry, and
// returns the key of the globally first-unique entry: the local
// candidate with the smallest line index across all partitions. It
// returns ("", false) if no line's key is globally unique.
//
// Partitions are reduced independently; results are order-independent
// by construction (the global step is a commutative, associative
// min-by-index), so Reduce is free to reduce partitions out of order
// and in parallel, bounded by g.WorkerCount.
//
// traverse.Do recovers a panicking op only to re-panic, annotated, at
// the call site (it does not turn a panic into a returned error), so
// Reduce recovers here itself and reports it as a WorkerPanic-kind
// error like every other reduce failure.
func Reduce(ctx context.Context, g *Group, cfg Config) (key string, found bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.E(errors.Other, "firstunique: reduce worker panic", fmt.Errorf("%v", r))
		}
	}()

	candidates := make([]*Entry, g.PartitionCount)

	derr := traverse.Parallel(g.PartitionCount).Limit(g.WorkerCount).Do(func(i int) error {
		path := cfg.partitionPath(i)
		entry, err := reduceLocalUnique(ctx, path)
		if err != nil {
			return err
		}
		candidates[i] = entry
		return nil
	})
	if derr != nil {
		return "", false, errors.E(errors.Integrity, "firstunique: reduce", derr)
	}

	return firstGlobalUnique(candidates)
}

// reduceLocalUnique implements spec §4.4 steps 1-4 for a single
// partition file: read its entire contents, parse its Blocks, fold
// them into a key->Record map via Record.Merge, and return the entry
// with count == 1 and the smallest index, or nil if none exists.
func reduceLocalUnique(ctx context.Context, path string) (*Entry, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(errors.NotExist, "firstunique: open partition", path, err)
	}
	defer f.Close(ctx)

	buf, err := ioutil.ReadAll(f.Reader(ctx))
	if err != nil {
		return nil, errors.E(errors.Unavailable, "firstunique: read partition", path, err)
	}

	entries, err := ParseEntries(buf)
	if err != nil {
		return nil, errors.E(errors.Integrity, "firstunique: parse partition", path, err)
	}

	merged := make(map[string]Record, len(entries))
	for _, e := range entries {
		if old, ok := merged[e.Key]; ok {
			merged[e.Key] = old.Merge(e.Record)
		} else {
			merged[e.Key] = e.Record
		}
	}

	var best *Entry
	for key, rec := range merged {
		if rec.Count != 1 {
			continue
		}
		if best == nil || rec.Index < best.Record.Index {
			best = &Entry{Key: key, Record: rec}
		}
	}
	return best, nil
}

// firstGlobalUnique implements spec §4.4's global step: the
// minimum-by-index entry across all non-nil local candidates.
func firstGlobalUnique(candidates []*Entry) (string, bool, error) {
	var best *Entry
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if best == nil || c.Record.Index < best.Record.Index {
			best = c
		}
	}
	if best == nil {
		log.Info.Printf("firstunique: no globally unique token found")
		return "", false, nil
	}
	return trimTrailingComma(best.Key), true, nil
}
