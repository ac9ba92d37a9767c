// Copyright 2021 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Run is the single entry point described in spec §4.5 and §6: it
// opens path, shuffles its lines into cfg.PartitionCount partitions,
// reduces them to a candidate first-unique key, and unconditionally
// attempts to clean up the partition files it created, whether or not
// the run succeeded.
//
// Run returns ("", false, nil) if the input contains no globally
// unique token. Shuffle or reduce I/O failures are returned as a
// single chained error; cleanup failures are logged and swallowed,
// never affecting the returned result (spec §7, kind Cleanup).
func Run(ctx context.Context, path string, opts ...Option) (string, bool, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return "", false, err
	}
	log.SetLevel(cfg.LogLevel)

	in, err := file.Open(ctx, path)
	if err != nil {
		return "", false, errors.E(errors.NotExist, "firstunique: open input", path, err)
	}
	defer in.Close(ctx)

	log.Info.Printf("firstunique: shuffling %s into %d partitions across %d workers",
		path, cfg.PartitionCount, cfg.WorkerCount)

	group, shuffleErr := Shuffle(ctx, in.Reader(ctx), cfg)
	defer func() {
		if cerr := group.Cleanup(ctx); cerr != nil {
			log.Error.Printf("firstunique: cleanup: %v", cerr)
		}
	}()
	if shuffleErr != nil {
		return "", false, errors.E(errors.Unavailable, "firstunique: shuffle", shuffleErr)
	}

	log.Info.Printf("firstunique: reducing %d partitions", group.PartitionCount)
	key, found, err := Reduce(ctx, group, cfg)
	if err != nil {
		return "", false, errors.E(errors.Integrity, "firstunique: reduce", err)
	}
	if found {
		log.Info.Printf("firstunique: first unique token %q", key)
	} else {
		log.Info.Printf("firstunique: no unique token found")
	}
	return key, found, nil
}
