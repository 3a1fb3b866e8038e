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

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	w := NewMultiWriter(&a)
	w.Add(&b)
	log := zerolog.New(w)
	log.Info().Msg("hello")
	if a.String() != b.String() || a.Len() == 0 {
		t.Errorf("outputs differ: %q vs %q", a.String(), b.String())
	}
}

func TestOpenLogFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iotserver.log")
	for _, line := range []string{"one\n", "two\n"} {
		f, err := OpenLogFile(path)
		if err != nil {
			t.Fatalf("OpenLogFile failed: %v", err)
		}
		f.WriteString(line)
		f.Close()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(content) != "one\ntwo\n" {
		t.Errorf("unexpected content %q", content)
	}
}

func TestParseLevel(t *testing.T) {
	if level, err := ParseLevel("debug"); err != nil || level != zerolog.DebugLevel {
		t.Errorf("got %v, %v", level, err)
	}
	if level, err := ParseLevel("loud"); err == nil || level != zerolog.InfoLevel {
		t.Errorf("expected error and info level, got %v, %v", level, err)
	}
}
