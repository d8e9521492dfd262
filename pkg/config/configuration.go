// Copyright 2021 Matrix Origin
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
	"context"
	"io"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/logutil"
	"github.com/matrixorigin/maskedarray/pkg/ma"
)

const (
	OutputText   = "text"
	OutputJson   = "json"
	OutputBinary = "binary"
)

// Config is the configuration of the ma-where tool.
type Config struct {
	Log logutil.LogConfig `toml:"log"`

	Where WhereParameters `toml:"where"`

	Output OutputParameters `toml:"output"`
}

// WhereParameters of the selection
type WhereParameters struct {
	// ShrinkMask collapses an all-false result mask to nomask. default: true
	ShrinkMask bool `toml:"shrink-mask"`

	// MaxElements limits the number of elements of a broadcast result.
	MaxElements int64 `toml:"max-elements"`
}

// OutputParameters of the result writer
type OutputParameters struct {
	//text, json or binary. default: text
	Format string `toml:"format"`

	//lz4-compress binary results. default: true
	Compress bool `toml:"compress"`

	//directory of binary results. default: current directory
	Dir string `toml:"dir"`

	//number of case files evaluated concurrently. default: runtime.NumCPU()
	Workers int `toml:"workers"`
}

// NewConfig returns a Config filled with default values.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Where.ShrinkMask = true
	cfg.Where.MaxElements = ma.DefaultMaxElements
	cfg.Output.Format = OutputText
	cfg.Output.Compress = true
	cfg.Output.Dir = "."
	cfg.Output.Workers = runtime.NumCPU()
	return cfg
}

// LoadConfigFromFile decodes the toml file over the defaults and validates it.
func LoadConfigFromFile(ctx context.Context, filename string) (*Config, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return nil, moerr.NewFileNotFound(ctx, filename)
		}
		return nil, moerr.ConvertGoError(ctx, err)
	}
	cfg := NewConfig()
	if _, err := toml.DecodeFile(filename, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode %s: %v", filename, err)
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values and fills in the zero ones.
func (c *Config) Validate(ctx context.Context) error {
	switch c.Output.Format {
	case "":
		c.Output.Format = OutputText
	case OutputText, OutputJson, OutputBinary:
	default:
		return moerr.NewBadConfig(ctx, "unknown output format %q", c.Output.Format)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return moerr.NewBadConfig(ctx, "unknown log format %q", c.Log.Format)
	}
	if c.Where.MaxElements < 0 || c.Where.MaxElements > ma.DefaultMaxElements {
		return moerr.NewBadConfig(ctx, "max-elements %d out of range [0, %d]", c.Where.MaxElements, ma.DefaultMaxElements)
	}
	if c.Where.MaxElements == 0 {
		c.Where.MaxElements = ma.DefaultMaxElements
	}
	if c.Output.Workers < 0 {
		return moerr.NewBadConfig(ctx, "workers %d is negative", c.Output.Workers)
	}
	if c.Output.Workers == 0 {
		c.Output.Workers = runtime.NumCPU()
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	return nil
}

// Encode writes c as toml.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
