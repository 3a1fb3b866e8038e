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

package request

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestReadStopsAtBlankLine(t *testing.T) {
	input := "GET /pins HTTP/1.1\r\nHost: 192.168.4.1\r\n\r\nleftover"
	r := bufio.NewReader(strings.NewReader(input))
	raw, err := Read(r)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if want := "GET /pins HTTP/1.1\r\nHost: 192.168.4.1\r\n\r\n"; string(raw) != want {
		t.Errorf("got %q, want %q", raw, want)
	}
	rest, _ := io.ReadAll(r)
	if string(rest) != "leftover" {
		t.Errorf("bytes after the header block must remain unread, got %q", rest)
	}
}

func TestReadEmptyStream(t *testing.T) {
	raw, err := Read(bufio.NewReader(strings.NewReader("")))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(raw) != 0 {
		t.Errorf("expected empty request, got %q", raw)
	}
}

func TestReadStreamClosedBeforeBlankLine(t *testing.T) {
	input := "GET /sensors HTTP/1.1\r\nHost: x\r\nPartial"
	raw, err := Read(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(raw) != input {
		t.Errorf("got %q, want %q", raw, input)
	}
}

func TestReadBareNewlineIsNotEndOfHeaders(t *testing.T) {
	input := "GET / HTTP/1.1\n\n"
	raw, err := Read(bufio.NewReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(raw) != input {
		t.Errorf("got %q, want %q", raw, input)
	}
}

type failingReader struct {
	data string
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, errors.New("connection reset by peer")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestReadTransportInterrupted(t *testing.T) {
	raw, err := Read(bufio.NewReader(&failingReader{data: "GET / HTTP/1.1\r\n"}))
	if !IsTransportInterrupted(err) {
		t.Fatalf("expected transport interrupted error, got %v", err)
	}
	if string(raw) != "GET / HTTP/1.1\r\n" {
		t.Errorf("bytes read so far must be returned, got %q", raw)
	}
}
