// Copyright 2026 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/group12/iotserver/pkg/client"
)

const (
	defaultAddress  = "http://192.168.4.1"
	defaultInterval = time.Second
	defaultOutput   = "log.csv"
)

func main() {
	var address string
	var output string
	var interval time.Duration
	var levelFlag string

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVarP(&address, "address", "a", defaultAddress, "Base URL of the iotserver")
	pflag.StringVarP(&output, "output", "o", defaultOutput, "Path of the CSV file to write")
	pflag.DurationVarP(&interval, "interval", "i", defaultInterval, "Time between two samples")
	pflag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(levelFlag); err == nil {
		logger = logger.Level(level)
	}

	// Create a fresh file
	f, err := os.Create(output)
	if err != nil {
		Exitf("Failed to create %s: %v\n", output, err)
	}
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	l := NewLogger(client.New(address), f, logger)
	logger.Info().
		Str("address", address).
		Str("output", output).
		Dur("interval", interval).
		Msg("Start logging")
	samples := l.Run(ctx, interval)
	logger.Info().
		Str("samples", humanize.Comma(int64(samples))).
		Str("size", humanize.Bytes(uint64(l.Written()))).
		Msg("Done logging")
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
