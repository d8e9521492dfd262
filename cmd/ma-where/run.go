// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/config"
	"github.com/matrixorigin/maskedarray/pkg/logutil"
	"github.com/matrixorigin/maskedarray/pkg/logutil/logutil2"
	"github.com/matrixorigin/maskedarray/pkg/ma"
	"github.com/matrixorigin/maskedarray/pkg/maio"
)

type caseResult struct {
	name string
	sel  *ma.Selection
	err  error
}

// run evaluates the case files on a worker pool and writes the results in
// file order. It returns the number of failed cases.
func run(ctx context.Context, cfg *config.Config, files []string, w io.Writer) int {
	results := make([]caseResult, len(files))
	pool, err := ants.NewPool(cfg.Output.Workers)
	if err != nil {
		logutil.Error("failed to create worker pool", zap.Error(err))
		return len(files)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, file := range files {
		i, file := i, file
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i] = evaluate(ctx, cfg, file)
		}); err != nil {
			wg.Done()
			results[i] = caseResult{name: file, err: err}
		}
	}
	wg.Wait()

	failed := 0
	for _, rs := range results {
		if rs.err == nil {
			rs.err = writeResult(ctx, cfg, w, rs)
		}
		if rs.err != nil {
			failed++
			logutil2.Error(logutil.WithCase(ctx, rs.name), "case failed", errorField(rs.err))
		}
	}
	return failed
}

// errorField logs err with the case file it was raised for.
func errorField(err error) zap.Field {
	if me, ok := err.(*moerr.Error); ok {
		return zap.String("error", me.Display())
	}
	return zap.Error(err)
}

// evaluate loads one case file and runs where on it.
func evaluate(ctx context.Context, cfg *config.Config, file string) (rs caseResult) {
	rs.name = file
	ctx = moerr.WithDetail(ctx, file)
	defer func() {
		if e := recover(); e != nil {
			rs.err = moerr.ConvertPanicError(ctx, e)
		}
	}()

	c, err := maio.LoadCase(ctx, file)
	if err != nil {
		rs.err = err
		return
	}
	rs.name = c.Name
	ctx = logutil.WithCase(ctx, c.Name)

	cond, x, y, err := c.Operands(ctx)
	if err != nil {
		rs.err = err
		return
	}
	shrink := cfg.Where.ShrinkMask
	if c.ShrinkMask != nil {
		shrink = *c.ShrinkMask
	}
	rs.sel, rs.err = ma.Where(ctx, cond, x, y,
		ma.WithShrink(shrink),
		ma.WithMaxElements(cfg.Where.MaxElements))
	if rs.err == nil {
		logutil2.Info(ctx, "case evaluated")
	}
	return
}

func writeResult(ctx context.Context, cfg *config.Config, w io.Writer, rs caseResult) error {
	switch cfg.Output.Format {
	case config.OutputJson:
		return maio.WriteJSON(w, rs.name, rs.sel)
	case config.OutputBinary:
		return writeBinaryFile(ctx, cfg, rs)
	}
	return maio.WriteText(w, rs.name, rs.sel)
}

// writeBinaryFile writes the selection to <dir>/<case name>.ma. The case name
// must be a plain file name so that the result stays inside dir.
func writeBinaryFile(ctx context.Context, cfg *config.Config, rs caseResult) error {
	if rs.name == "" || rs.name == "." || rs.name == ".." || strings.ContainsAny(rs.name, `/\`) {
		return moerr.NewInvalidInput(ctx, "case name %q is not a valid file name", rs.name)
	}
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(cfg.Output.Dir, rs.name+".ma"))
	if err != nil {
		return err
	}
	if err = maio.WriteBinary(f, rs.sel, cfg.Output.Compress); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
