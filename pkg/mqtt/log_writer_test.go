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

package mqtt

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func logMessages(t *testing.T, msgs []published) []string {
	var result []string
	for _, m := range msgs {
		payload, ok := m.Payload.([]byte)
		if !ok {
			t.Fatalf("unexpected payload type %T", m.Payload)
		}
		var msg logMsg
		if err := json.Unmarshal(payload, &msg); err != nil {
			t.Fatalf("invalid log payload %q: %v", payload, err)
		}
		result = append(result, msg.Message)
	}
	return result
}

func TestLogTopic(t *testing.T) {
	tests := []struct {
		Prefix   string
		Expected string
	}{
		{"iotserver", "iotserver/log"},
		{"home/esp32/", "home/esp32/log"},
		{"", "log"},
	}
	for _, test := range tests {
		if got := LogTopic(test.Prefix); got != test.Expected {
			t.Errorf("prefix %q: got %q, want %q", test.Prefix, got, test.Expected)
		}
	}
}

func TestLogWriterPublishesQueuedLines(t *testing.T) {
	l := NewLogWriter()
	buf := []byte("first line\n")
	l.Write(buf)
	// Callers reuse their buffer after Write returns.
	copy(buf, "xxxxx")
	l.Write([]byte("second line\n"))

	c := &fakeClient{token: &fakeToken{completed: true}}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.run(ctx, c, LogTopic("iotserver"))
	}()
	deadline := time.Now().Add(2 * time.Second)
	for len(c.sent()) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	msgs := c.sent()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	for _, m := range msgs {
		if m.Topic != "iotserver/log" || m.Retained {
			t.Errorf("unexpected topic %q (retained %v)", m.Topic, m.Retained)
		}
	}
	lines := logMessages(t, msgs)
	if lines[0] != "first line" || lines[1] != "second line" {
		t.Errorf("got %q", lines)
	}
}

func TestLogWriterDropsOldestWhenFull(t *testing.T) {
	l := newLogWriter(2)
	for _, line := range []string{"a", "b", "c"} {
		if n, err := l.Write([]byte(line)); err != nil || n != 1 {
			t.Fatalf("write %q: n=%d err=%v", line, n, err)
		}
	}
	if n, _ := l.Write(nil); n != 0 {
		t.Errorf("empty write returned %d", n)
	}
	if len(l.queue) != 2 {
		t.Fatalf("queue holds %d lines, want 2", len(l.queue))
	}
	if got := string(<-l.queue); got != "b" {
		t.Errorf("oldest queued line is %q, want %q", got, "b")
	}
	if got := string(<-l.queue); got != "c" {
		t.Errorf("newest queued line is %q, want %q", got, "c")
	}
}

func TestPublishLogFailures(t *testing.T) {
	timeout := &fakeClient{token: &fakeToken{}}
	if err := publishLog(timeout, "iotserver/log", []byte("x")); err == nil {
		t.Error("expected timeout error")
	}
}

type fakeSink struct {
	added []io.Writer
}

func (s *fakeSink) Add(w io.Writer) {
	s.added = append(s.added, w)
}

func TestShipLogsNeedsBroker(t *testing.T) {
	p := NewPublisher(Config{TopicPrefix: "iotserver"}, zerolog.Nop(), nil)
	sink := &fakeSink{}
	p.ShipLogs(sink)
	if p.logs == nil {
		t.Fatal("expected a log writer")
	}
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(sink.added) != 0 {
		t.Errorf("log writer added without a broker connection")
	}
}
