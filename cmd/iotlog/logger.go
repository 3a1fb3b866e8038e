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
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	csvHeader = []string{"timestamp", "temperature", "Button1", "Button2"}
	buttons   = []string{"Button1", "Button2"}
)

// Device is the part of the iotserver client used for logging.
type Device interface {
	Temperature(ctx context.Context) (float64, error)
	Pin(ctx context.Context, name string) (bool, error)
}

// Logger polls a device and writes one CSV row per sample.
type Logger struct {
	device  Device
	out     *csv.Writer
	counter *countingWriter
	log     zerolog.Logger
	now     func() time.Time
}

type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}

// NewLogger creates a logger writing CSV rows to the given writer.
func NewLogger(device Device, w io.Writer, log zerolog.Logger) *Logger {
	counter := &countingWriter{w: w}
	return &Logger{
		device:  device,
		out:     csv.NewWriter(counter),
		counter: counter,
		log:     log,
		now:     time.Now,
	}
}

// Written returns the number of bytes written so far.
func (l *Logger) Written() int {
	return l.counter.n
}

// Run samples the device every interval until the given context is canceled.
// It returns the number of samples written.
func (l *Logger) Run(ctx context.Context, interval time.Duration) int {
	if err := l.write(csvHeader); err != nil {
		l.log.Error().Err(err).Msg("Failed to write header")
		return 0
	}
	samples := 0
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := l.Sample(ctx); err != nil {
			if ctx.Err() != nil {
				return samples
			}
			l.log.Warn().Err(err).Msg("Sample failed")
		} else {
			samples++
		}
		select {
		case <-ctx.Done():
			return samples
		case <-ticker.C:
			// Continue
		}
	}
}

// Sample reads the temperature and buttons once and writes a row.
// Buttons are logged as their raw value, which is 0 while pressed.
func (l *Logger) Sample(ctx context.Context) error {
	temp, err := l.device.Temperature(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read temperature")
	}
	row := []string{
		l.now().Format(time.ANSIC),
		strconv.FormatFloat(temp, 'f', -1, 64),
	}
	for _, name := range buttons {
		v, err := l.device.Pin(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", name)
		}
		if v {
			row = append(row, "1")
		} else {
			row = append(row, "0")
		}
	}
	l.log.Debug().Strs("row", row).Msg("Sample")
	return l.write(row)
}

func (l *Logger) write(row []string) error {
	if err := l.out.Write(row); err != nil {
		return errors.Wrap(err, "failed to write row")
	}
	l.out.Flush()
	return errors.Wrap(l.out.Error(), "failed to flush")
}
