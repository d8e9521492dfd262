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
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/matrixorigin/maskedarray/pkg/config"
	"github.com/matrixorigin/maskedarray/pkg/logutil"
)

var (
	configFile = flag.String("config", "", "toml configuration used by ma-where")
	format     = flag.String("format", "", "result format: text, json or binary")
	outputDir  = flag.String("o", "", "directory of binary results")
)

var osExit = os.Exit

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: ma-where [-config file] [-format text|json|binary] [-o dir] case.toml...\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	ctx := context.Background()

	if flag.NArg() == 0 {
		usage()
		osExit(2)
		return
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		osExit(2)
		return
	}
	logutil.SetupMOLogger(&cfg.Log)
	defer func() { _ = logutil.Sync() }()
	logutil.Info("ma-where started",
		zap.Int("cases", flag.NArg()),
		zap.String("format", cfg.Output.Format))

	failed := run(ctx, cfg, flag.Args(), os.Stdout)
	if failed > 0 {
		logutil.Errorf("%d of %d cases failed", failed, flag.NArg())
		_ = logutil.Sync()
		osExit(1)
	}
}

// loadConfig reads the config file if one is given and applies the flags.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg := config.NewConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadConfigFromFile(ctx, *configFile); err != nil {
			return nil, err
		}
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}
