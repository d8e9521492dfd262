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
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lni/goutils/leaktest"
	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/config"
	"github.com/matrixorigin/maskedarray/pkg/logutil"
	"github.com/matrixorigin/maskedarray/pkg/ma"
	"github.com/matrixorigin/maskedarray/pkg/maio"
)

const checkerCase = `
[condition]
type = "bool"
shape = [3, 3]
data = [true, false, true, false, true, false, true, false, true]

[x]
type = "int64"
shape = [3, 3]
data = [0, 1, 2, 3, 4, 5, 6, 7, 8]

[y]
type = "float64"
scalar = true
data = [-3.1416]
`

const nonzeroCase = `
[condition]
type = "int32"
shape = [2, 2]
data = [0, 1, 1, 0]
mask = [false, false, true, false]
`

const badCase = `
[condition]
data = [true]

[x]
data = [1]
`

func writeCases(t *testing.T, dir string, cases map[string]string) []string {
	var files []string
	for _, name := range []string{"checker", "nonzero", "bad"} {
		body, ok := cases[name]
		if !ok {
			continue
		}
		file := filepath.Join(dir, name+".toml")
		require.NoError(t, os.WriteFile(file, []byte(body), 0644))
		files = append(files, file)
	}
	return files
}

func TestRunText(t *testing.T) {
	defer leaktest.AfterTest(t)()
	dir := t.TempDir()
	files := writeCases(t, dir, map[string]string{
		"checker": checkerCase,
		"nonzero": nonzeroCase,
	})

	cfg := config.NewConfig()
	cfg.Output.Workers = 2
	var buf bytes.Buffer
	require.Equal(t, 0, run(context.Background(), cfg, files, &buf))
	require.Equal(t,
		"checker: [[0 -3.1416 2] [-3.1416 4 -3.1416] [6 -3.1416 8]]\n"+
			"nonzero: [[0] [1]]\n",
		buf.String())
}

func TestRunJSONAndFailures(t *testing.T) {
	defer leaktest.AfterTest(t)()
	dir := t.TempDir()
	files := writeCases(t, dir, map[string]string{
		"nonzero": nonzeroCase,
		"bad":     badCase,
	})
	files = append(files, filepath.Join(dir, "missing.toml"))

	cfg := config.NewConfig()
	cfg.Output.Format = config.OutputJson
	var buf bytes.Buffer
	require.Equal(t, 2, run(context.Background(), cfg, files, &buf))
	require.JSONEq(t, `{"name":"nonzero","indices":[[0],[1]]}`, strings.TrimSpace(buf.String()))
}

func TestRunBinary(t *testing.T) {
	defer leaktest.AfterTest(t)()
	dir := t.TempDir()
	files := writeCases(t, dir, map[string]string{"checker": checkerCase})

	cfg := config.NewConfig()
	cfg.Output.Format = config.OutputBinary
	cfg.Output.Dir = filepath.Join(dir, "out")
	var buf bytes.Buffer
	require.Equal(t, 0, run(context.Background(), cfg, files, &buf))
	require.Empty(t, buf.String())

	f, err := os.Open(filepath.Join(cfg.Output.Dir, "checker.ma"))
	require.NoError(t, err)
	defer f.Close()
	sel, err := maio.ReadBinary(context.Background(), f)
	require.NoError(t, err)
	require.Equal(t, "[[0 -3.1416 2] [-3.1416 4 -3.1416] [6 -3.1416 8]]", sel.Array.String())
	require.False(t, sel.Array.HasMask())
}

func TestRunBinaryCaseName(t *testing.T) {
	defer leaktest.AfterTest(t)()
	dir := t.TempDir()
	file := filepath.Join(dir, "escape.toml")
	require.NoError(t, os.WriteFile(file, []byte("name = \"../escaped\"\n"+checkerCase), 0644))

	cfg := config.NewConfig()
	cfg.Output.Format = config.OutputBinary
	cfg.Output.Dir = filepath.Join(dir, "out")
	var buf bytes.Buffer
	require.Equal(t, 1, run(context.Background(), cfg, []string{file}, &buf))
	_, err := os.Stat(filepath.Join(dir, "escaped.ma"))
	require.True(t, os.IsNotExist(err))

	sel := &ma.Selection{Indices: [][]int64{{0}}}
	for _, name := range []string{"", ".", "..", "../x", "a/b", `a\b`} {
		err := writeBinaryFile(context.Background(), cfg, caseResult{name: name, sel: sel})
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput), name)
	}
	require.NoError(t, writeBinaryFile(context.Background(), cfg, caseResult{name: "plain", sel: sel}))
	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "plain.ma"))
	require.NoError(t, err)
}

func TestFailureLog(t *testing.T) {
	dir := t.TempDir()
	files := writeCases(t, dir, map[string]string{"bad": badCase})

	cfg := config.NewConfig()
	cfg.Log = logutil.LogConfig{Level: "info", Format: "json", Filename: filepath.Join(dir, "ma-where.log")}
	logutil.SetupMOLogger(&cfg.Log)
	defer logutil.SetupMOLogger(&logutil.LogConfig{Level: "info", Format: "console"})

	var buf bytes.Buffer
	require.Equal(t, 1, run(context.Background(), cfg, files, &buf))
	require.NoError(t, logutil.Sync())

	data, err := os.ReadFile(cfg.Log.Filename)
	require.NoError(t, err)
	var failed map[string]interface{}
	for _, text := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(text), &line))
		if line["msg"] == "case failed" {
			failed = line
		}
	}
	require.NotNil(t, failed)
	require.Equal(t, "bad", failed["case"])
	require.True(t, strings.HasSuffix(failed["error"].(string), ": "+files[0]), failed["error"])
}

func TestShrinkOverride(t *testing.T) {
	dir := t.TempDir()
	files := writeCases(t, dir, map[string]string{
		"checker": "shrink-mask = false\n" + checkerCase,
	})

	cfg := config.NewConfig()
	rs := evaluate(context.Background(), cfg, files[0])
	require.NoError(t, rs.err)
	require.Equal(t, "checker", rs.name)
	require.True(t, rs.sel.Array.HasMask())

	cfg.Where.MaxElements = 4
	rs = evaluate(context.Background(), cfg, files[0])
	require.Error(t, rs.err)
}

func TestMainExitCode(t *testing.T) {
	dir := t.TempDir()
	files := writeCases(t, dir, map[string]string{"bad": badCase})

	var code int
	stubs := gostub.Stub(&osExit, func(c int) { code = c })
	defer stubs.Reset()
	stubs.Stub(&os.Args, append([]string{"ma-where", "-format", "json"}, files...))

	flag.CommandLine = flag.NewFlagSet("ma-where", flag.ContinueOnError)
	configFile = flag.String("config", "", "")
	format = flag.String("format", "", "")
	outputDir = flag.String("o", "", "")

	main()
	require.Equal(t, 1, code)
}

func TestLoadConfig(t *testing.T) {
	stubs := gostub.Stub(format, "binary")
	defer stubs.Reset()
	stubs.Stub(outputDir, "/tmp/ma")
	stubs.Stub(configFile, "")

	cfg, err := loadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, config.OutputBinary, cfg.Output.Format)
	require.Equal(t, "/tmp/ma", cfg.Output.Dir)
	require.True(t, cfg.Where.ShrinkMask)

	stubs.Stub(format, "xml")
	_, err = loadConfig(context.Background())
	require.Error(t, err)
}
