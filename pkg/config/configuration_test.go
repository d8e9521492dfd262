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

package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/ma"
)

func writeConfig(t *testing.T, content string) string {
	name := filepath.Join(t.TempDir(), "ma.toml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0644))
	return name
}

func TestLoadConfigFromFile(t *testing.T) {
	ctx := context.Background()
	name := writeConfig(t, `
[log]
level = "debug"
format = "json"

[where]
shrink-mask = false

[output]
format = "binary"
compress = false
workers = 3
`)
	cfg, err := LoadConfigFromFile(ctx, name)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.False(t, cfg.Where.ShrinkMask)
	require.Equal(t, ma.DefaultMaxElements, cfg.Where.MaxElements)
	require.Equal(t, OutputBinary, cfg.Output.Format)
	require.False(t, cfg.Output.Compress)
	require.Equal(t, 3, cfg.Output.Workers)
	require.Equal(t, ".", cfg.Output.Dir)
}

func TestLoadConfigFromFile_defaults(t *testing.T) {
	cfg, err := LoadConfigFromFile(context.Background(), writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, NewConfig(), cfg)
	require.True(t, cfg.Where.ShrinkMask)
	require.Equal(t, runtime.NumCPU(), cfg.Output.Workers)
}

func TestLoadConfigFromFile_errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadConfigFromFile(ctx, filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrFileNotFound))

	_, err = LoadConfigFromFile(ctx, writeConfig(t, "[where\n"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	_, err = LoadConfigFromFile(ctx, writeConfig(t, "[output]\nformat = \"xml\"\n"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	_, err = LoadConfigFromFile(ctx, writeConfig(t, "[where]\nmax-elements = -1\n"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))

	_, err = LoadConfigFromFile(ctx, writeConfig(t, "[output]\nworkers = -2\n"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	cfg := NewConfig()
	require.NoError(t, cfg.Encode(&buf))
	require.Contains(t, buf.String(), "shrink-mask = true")

	loaded, err := LoadConfigFromFile(context.Background(), writeConfig(t, buf.String()))
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidate_maxElements(t *testing.T) {
	ctx := context.Background()
	cfg := NewConfig()
	cfg.Where.MaxElements = ma.DefaultMaxElements + 1
	require.True(t, moerr.IsMoErrCode(cfg.Validate(ctx), moerr.ErrBadConfig))

	cfg.Where.MaxElements = 0
	require.NoError(t, cfg.Validate(ctx))
	require.Equal(t, ma.DefaultMaxElements, cfg.Where.MaxElements)
}
