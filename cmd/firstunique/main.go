// Copyright 2020 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	firstunique "github.com/cosnicolaou/firstunique"
	"github.com/cosnicolaou/firstunique/internal/gen"
	"github.com/grailbio/base/log"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/term"
)

type findFlags struct {
	PartitionCount int    `subcmd:"partitions,32,'number of on-disk partitions (P)'"`
	WorkerCount    int    `subcmd:"workers,,'number of writer/reducer worker goroutines (T), must divide partitions'"`
	TempDir        string `subcmd:"tempdir,,'directory for partition temp files, defaults to the system temp dir'"`
	TempPrefix     string `subcmd:"tempprefix,firstunique-partition-,'file name prefix for partition temp files'"`
	LogLevel       string `subcmd:"log,info,'log level: off, error, info or debug'"`
	ProgressBar    bool   `subcmd:"progress,true,'display a progress bar while stderr is attached to a terminal'"`
}

type genFlags struct {
	Lines             int    `subcmd:"lines,1000,'number of lines to generate'"`
	UniqueFirst       bool   `subcmd:"unique-first,true,'place a single provably unique token on the first line'"`
	DuplicatePoolSize int    `subcmd:"duplicates,50,'number of distinct tokens repeated to fill the remaining lines'"`
	TrailingComma     bool   `subcmd:"trailing-comma,false,'append a trailing comma to every line'"`
	Seed              int64  `subcmd:"seed,0,'seed for the pseudorandom generator, 0 selects a fixed default'"`
	OutputFile        string `subcmd:"output,,'output file, omit for stdout'"`
}

var cmdSet *subcmd.CommandSet

func init() {
	findCmd := subcmd.NewCommand("find",
		subcmd.MustRegisterFlagStruct(&findFlags{}, nil, nil),
		find, subcmd.ExactlyNumArguments(1))
	findCmd.Document(`find the first token that occurs exactly once in a line-delimited input file, via an out-of-core partitioned shuffle/reduce pipeline.`)

	genCmd := subcmd.NewCommand("gen",
		subcmd.MustRegisterFlagStruct(&genFlags{}, nil, nil),
		generate, subcmd.ExactlyNumArguments(0))
	genCmd.Document(`generate a synthetic line-delimited token file for testing and benchmarking.`)

	cmdSet = subcmd.NewCommandSet(findCmd, genCmd)
	cmdSet.Document(`find the first unique token in a large line-delimited file, or generate synthetic test input for it.`)
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func logLevelFromFlag(s string) (log.Level, error) {
	switch s {
	case "off":
		return log.Off, nil
	case "error":
		return log.Error, nil
	case "info":
		return log.Info, nil
	case "debug":
		return log.Debug, nil
	}
	return log.Info, fmt.Errorf("invalid log level %q", s)
}

// renderProgress displays a line-count progress bar driven by ch,
// matching the teacher's progressBar loop: it watches for the
// sentinel Done update before returning.
func renderProgress(ctx context.Context, w io.Writer, ch chan firstunique.Progress) {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetPredictTime(false))
	bar.RenderBlank()
	for {
		select {
		case p := <-ch:
			bar.Set(int(p.Lines))
			if p.Done {
				fmt.Fprintln(w)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func find(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*findFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	level, err := logLevelFromFlag(cl.LogLevel)
	if err != nil {
		return err
	}

	opts := []firstunique.Option{
		firstunique.PartitionCount(cl.PartitionCount),
		firstunique.LogLevel(level),
		firstunique.TempPrefix(cl.TempPrefix),
	}
	if cl.WorkerCount > 0 {
		opts = append(opts, firstunique.WorkerCount(cl.WorkerCount))
	}
	if len(cl.TempDir) > 0 {
		opts = append(opts, firstunique.TempDir(cl.TempDir))
	}

	var progressWg sync.WaitGroup
	if cl.ProgressBar && term.IsTerminal(int(os.Stderr.Fd())) {
		ch := make(chan firstunique.Progress, 1)
		opts = append(opts, firstunique.SendUpdates(ch))
		progressWg.Add(1)
		go func() {
			defer progressWg.Done()
			renderProgress(ctx, os.Stderr, ch)
		}()
	}

	key, found, err := firstunique.Run(ctx, args[0], opts...)
	progressWg.Wait()
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(os.Stderr, "no unique token found")
		return nil
	}
	fmt.Println(key)
	return nil
}

func generate(ctx context.Context, values interface{}, args []string) error {
	cl := values.(*genFlags)

	w := os.Stdout
	var closeFn func() error
	if len(cl.OutputFile) > 0 {
		f, err := os.Create(cl.OutputFile)
		if err != nil {
			return err
		}
		w = f
		closeFn = f.Close
	}

	errs := &errors.M{}
	errs.Append(gen.Write(w, gen.Options{
		Lines:             cl.Lines,
		UniqueFirst:       cl.UniqueFirst,
		DuplicatePoolSize: cl.DuplicatePoolSize,
		TrailingComma:     cl.TrailingComma,
		Seed:              cl.Seed,
	}))
	if closeFn != nil {
		errs.Append(closeFn())
	}
	return errs.Err()
}
