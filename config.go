// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package firstunique

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Config holds the tunable parameters of a run: the number of
// on-disk partitions, the number of writer/reducer worker goroutines,
// where temp files are created, and the operational log level.
type Config struct {
	PartitionCount int
	WorkerCount    int
	TempDir        string
	TempPrefix     string
	LogLevel       log.Level
	ProgressCh     chan<- Progress
}

// Option configures a Config.
type Option func(*Config)

// PartitionCount sets P, the number of on-disk partitions. Default 32.
func PartitionCount(p int) Option {
	return func(c *Config) { c.PartitionCount = p }
}

// WorkerCount sets T, the number of writer/reducer worker goroutines.
// T must divide P. Default 8.
func WorkerCount(t int) Option {
	return func(c *Config) { c.WorkerCount = t }
}

// TempDir sets the directory in which partition files are created.
// Defaults to os.TempDir().
func TempDir(dir string) Option {
	return func(c *Config) { c.TempDir = dir }
}

// TempPrefix sets the file name prefix used for partition files.
func TempPrefix(prefix string) Option {
	return func(c *Config) { c.TempPrefix = prefix }
}

// LogLevel sets the operational diagnostics level. Default log.Info.
func LogLevel(l log.Level) Option {
	return func(c *Config) { c.LogLevel = l }
}

// SendUpdates sets a channel on which Shuffle reports its line-reading
// progress. The channel is never closed by this package; the update
// sent when line reading ends has Done set to true, mirroring the
// sentinel convention the caller should watch for before giving up on
// ch. A run that fails before it starts reading lines sends nothing on
// ch (see Progress).
func SendUpdates(ch chan<- Progress) Option {
	return func(c *Config) { c.ProgressCh = ch }
}

// defaultConfig returns the Config described in spec §6: 32
// partitions, 8 workers, a temp prefix under the system temp
// directory, info-level logging.
func defaultConfig() Config {
	return Config{
		PartitionCount: 32,
		WorkerCount:    8,
		TempDir:        os.TempDir(),
		TempPrefix:     "firstunique-partition-",
		LogLevel:       log.Info,
	}
}

// newConfig builds a Config from the default values overridden by
// opts, and validates it.
func newConfig(opts ...Option) (Config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration satisfies the shuffle
// stage's ownership invariant: T >= 1, P >= 1, and P mod T == 0.
// Rather than falling back to a remainder-handling partition->worker
// map for P mod T != 0 (spec §9, open question), this implementation
// rejects such configurations up front.
func (c Config) Validate() error {
	if c.PartitionCount < 1 {
		return errors.E(errors.Invalid, "firstunique: partition_count must be >= 1")
	}
	if c.WorkerCount < 1 {
		return errors.E(errors.Invalid, "firstunique: worker_count must be >= 1")
	}
	if c.PartitionCount%c.WorkerCount != 0 {
		return errors.E(errors.Invalid,
			"firstunique: worker_count must evenly divide partition_count")
	}
	return nil
}

// partitionPath returns the path of the temp file owned by partition
// index i.
func (c Config) partitionPath(i int) string {
	return filepath.Join(c.TempDir, c.TempPrefix+strconv.Itoa(i))
}
