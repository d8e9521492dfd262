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

package logutil2

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrixorigin/maskedarray/pkg/logutil"
)

func TestCaseField(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "ma-where.log")
	logutil.SetupMOLogger(&logutil.LogConfig{Level: "info", Format: "json", Filename: filename})
	defer logutil.SetupMOLogger(&logutil.LogConfig{Level: "info", Format: "console"})

	ctx := logutil.WithCase(context.Background(), "checker")
	Debug(ctx, "dropped")
	Info(ctx, "case evaluated")
	Error(context.Background(), "case failed", zap.String("file", "bad.toml"))
	require.NoError(t, logutil.Sync())

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	var lines []map[string]interface{}
	for _, text := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		line := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(text), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	require.Equal(t, "case evaluated", lines[0]["msg"])
	require.Equal(t, "checker", lines[0]["case"])
	require.Contains(t, lines[0]["caller"], "logutil2/api_test.go")
	require.Equal(t, "ERROR", lines[1]["level"])
	require.Equal(t, "-", lines[1]["case"])
	require.Equal(t, "bad.toml", lines[1]["file"])
}
