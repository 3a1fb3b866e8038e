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
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type fakeDevice struct {
	temp    float64
	pressed map[string]bool
	fail    bool
}

func (d *fakeDevice) Temperature(ctx context.Context) (float64, error) {
	if d.fail {
		return 0, errors.New("connection refused")
	}
	return d.temp, nil
}

func (d *fakeDevice) Pin(ctx context.Context, name string) (bool, error) {
	// Pressed buttons read 0
	return !d.pressed[name], nil
}

func TestSample(t *testing.T) {
	var buf bytes.Buffer
	d := &fakeDevice{temp: 21.25, pressed: map[string]bool{"Button2": true}}
	l := NewLogger(d, &buf, zerolog.Nop())
	l.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }
	if err := l.Sample(context.Background()); err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got, want := buf.String(), "Fri Mar  1 12:30:00 2024,21.25,1,0\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if l.Written() != buf.Len() {
		t.Errorf("Written: got %d, want %d", l.Written(), buf.Len())
	}
	d.fail = true
	if err := l.Sample(context.Background()); err == nil {
		t.Error("expected error")
	}
}

func TestRunWritesHeaderAndStops(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&fakeDevice{temp: 20}, &buf, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	samples := l.Run(ctx, 10*time.Millisecond)
	if samples < 1 {
		t.Errorf("expected at least one sample, got %d", samples)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("timestamp,temperature,Button1,Button2\n")) {
		t.Errorf("missing header: %q", buf.String())
	}
	if lines := bytes.Count(buf.Bytes(), []byte("\n")); lines != samples+1 {
		t.Errorf("got %d lines for %d samples", lines, samples)
	}
}
