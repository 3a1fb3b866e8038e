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

package server

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/response"
)

type countingHandler struct {
	mutex    sync.Mutex
	requests []string
}

func (h *countingHandler) Handle(ctx context.Context, raw []byte) response.Response {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.requests = append(h.requests, string(raw))
	return response.OK(response.ContentTypeHTML, []byte("request "+string(rune('0'+len(h.requests)))))
}

func startServer(t *testing.T, h Handler) (string, context.CancelFunc, chan error) {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Config{}, zerolog.Nop(), h)
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, lis)
	}()
	return lis.Addr().String(), cancel, done
}

func roundTrip(t *testing.T, addr, req string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := io.WriteString(conn, req); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if tcp, ok := conn.(*net.TCPConn); ok && req == "" {
		tcp.CloseWrite()
	}
	resp, err := io.ReadAll(conn)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	return string(resp)
}

func TestSequentialRequests(t *testing.T) {
	h := &countingHandler{}
	addr, cancel, done := startServer(t, h)
	defer cancel()

	first := roundTrip(t, addr, "GET / HTTP/1.1\r\nHost: x\r\n\r\n")
	second := roundTrip(t, addr, "GET /pins HTTP/1.1\r\n\r\n")
	if want := "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\nrequest 1\r\n"; first != want {
		t.Errorf("got %q, want %q", first, want)
	}
	if !strings.HasSuffix(second, "request 2\r\n") {
		t.Errorf("unexpected second response %q", second)
	}

	h.mutex.Lock()
	requests := append([]string(nil), h.requests...)
	h.mutex.Unlock()
	if len(requests) != 2 || requests[1] != "GET /pins HTTP/1.1\r\n\r\n" {
		t.Errorf("unexpected requests %q", requests)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop after cancel")
	}
}

func TestEmptyRequestIsHandled(t *testing.T) {
	h := &countingHandler{}
	addr, cancel, _ := startServer(t, h)
	defer cancel()

	resp := roundTrip(t, addr, "")
	if !strings.HasPrefix(resp, "HTTP/1.1 200 OK\r\n") {
		t.Errorf("unexpected response %q", resp)
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.requests) != 1 || h.requests[0] != "" {
		t.Errorf("unexpected requests %q", h.requests)
	}
}

func TestCancelWhileReading(t *testing.T) {
	h := &countingHandler{}
	addr, cancel, done := startServer(t, h)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	// Send a partial header block and stop the server while it waits for more.
	io.WriteString(conn, "GET / HTTP/1.1\r\n")
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not stop while reading")
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if len(h.requests) != 0 {
		t.Errorf("partial request must not be handled, got %q", h.requests)
	}
}
