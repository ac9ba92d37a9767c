// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import (
	"context"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Group is the handle returned by Shuffle. It owns the lifecycle of
// the partition_count temp files created for a run: they are deleted
// by Cleanup, whether the run succeeded or failed.
type Group struct {
	PartitionCount int
	WorkerCount    int

	paths []string

	mu      sync.Mutex
	cleaned bool
}

// Cleanup removes all of the Group's partition files on a best-effort
// basis. It is safe to call more than once: invoking Cleanup on an
// already-cleaned Group is a no-op, not an error.
func (g *Group) Cleanup(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cleaned {
		return nil
	}
	g.cleaned = true
	var firstErr error
	for _, p := range g.paths {
		err := file.Remove(ctx, p)
		if err == nil || errors.Is(errors.NotExist, err) {
			continue
		}
		log.Error.Printf("firstunique: cleanup: remove %s: %v", p, err)
		if firstErr == nil {
			firstErr = errors.E(errors.Unavailable, "firstunique: temp file cleanup", p, err)
		}
	}
	return firstErr
}
