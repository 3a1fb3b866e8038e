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

package response

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/registry"
)

type testPin struct {
	value bool
}

func (p *testPin) Read() (bool, error) { return p.value, nil }

type testWriter struct{}

func (testWriter) Write(bool) error { return nil }

type testSensor float64

func (s testSensor) ReadTemperature(ctx context.Context) (float64, error) { return float64(s), nil }

func newTestRegistry(t *testing.T) *registry.Registry {
	reg := registry.New()
	must := func(err error) {
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	must(reg.AddInput("Button1", &testPin{value: true}))
	must(reg.AddInput("Button2", &testPin{}))
	must(reg.AddSensor("temperature", testSensor(21.25)))
	must(reg.AddLED("red", registry.NewShadowOutput(testWriter{}, true)))
	must(reg.AddLED("green", registry.NewShadowOutput(testWriter{}, false)))
	return reg
}

func TestWireFormat(t *testing.T) {
	tests := []struct {
		Response Response
		Expected string
	}{
		{OK(ContentTypeHTML, []byte("OK")), "HTTP/1.1 200 OK\r\nContent-Type: text/html\r\n\r\nOK\r\n"},
		{OK(ContentTypeJSON, []byte(`{"pins":[]}`)), "HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n{\"pins\":[]}\r\n"},
		{BadRequest(), "HTTP/1.1 400 BAD REQUEST\r\n\r\n\r\n"},
		{NotFound(), "HTTP/1.1 404 NOT FOUND\r\n\r\n\r\n"},
		{InternalServerError(), "HTTP/1.1 500 INTERNAL SERVER ERROR\r\n\r\n\r\n"},
	}
	for _, test := range tests {
		if got := string(test.Response.Bytes()); got != test.Expected {
			t.Errorf("got %q, want %q", got, test.Expected)
		}
	}
}

func TestRowsOrder(t *testing.T) {
	rows, err := Rows(context.Background(), newTestRegistry(t))
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	expected := []string{
		`<tr><td>Button1</td><td bgcolor="green">1</td></tr>`,
		`<tr><td>Button2</td><td bgcolor="red">0</td></tr>`,
		`<tr><td>red</td><td bgcolor="green">1</td></tr>`,
		`<tr><td>green</td><td bgcolor="red">0</td></tr>`,
		`<tr><td>temperature</td><td bgcolor="yellow">21.25</td></tr>`,
	}
	if len(rows) != len(expected) {
		t.Fatalf("got %d rows, want %d: %v", len(rows), len(expected), rows)
	}
	for i, row := range rows {
		if row != expected[i] {
			t.Errorf("row %d: got %q, want %q", i, row, expected[i])
		}
	}
}

func TestSiteUsesEmbeddedTemplate(t *testing.T) {
	b := NewBuilder(zerolog.Nop(), "")
	resp, err := b.Site(context.Background(), newTestRegistry(t))
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if resp.Status != StatusOK || resp.ContentType != ContentTypeHTML {
		t.Errorf("unexpected status/content type: %d %s", resp.Status, resp.ContentType)
	}
	body := string(resp.Body)
	if strings.Contains(body, rowsPlaceholder) {
		t.Error("placeholder not substituted")
	}
	if n := strings.Count(body, "<tr><td>"); n != 5 {
		t.Errorf("got %d rows, want 5", n)
	}
}

func TestSiteTemplateIsLoadedOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("<table>\n%s\n</table>"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	b := NewBuilder(zerolog.Nop(), path)
	reg := newTestRegistry(t)
	first, err := b.Site(context.Background(), reg)
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if !strings.HasPrefix(string(first.Body), "<table>\n<tr><td>Button1</td>") {
		t.Errorf("unexpected body: %q", first.Body)
	}
	// Changing the file afterwards must not change the output
	if err := os.WriteFile(path, []byte("changed %s"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	second, err := b.Site(context.Background(), reg)
	if err != nil {
		t.Fatalf("Site failed: %v", err)
	}
	if string(first.Body) != string(second.Body) {
		t.Errorf("template reloaded: %q", second.Body)
	}
}

func TestSiteMissingTemplate(t *testing.T) {
	b := NewBuilder(zerolog.Nop(), filepath.Join(t.TempDir(), "missing.html"))
	if _, err := b.Site(context.Background(), newTestRegistry(t)); err == nil {
		t.Error("expected error for missing template")
	}
}

func TestJSON(t *testing.T) {
	b := NewBuilder(zerolog.Nop(), "")
	resp, err := b.JSON(map[string]interface{}{"sensor": "temperature", "data": 21.25})
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}
	if resp.ContentType != ContentTypeJSON {
		t.Errorf("got content type %s", resp.ContentType)
	}
	var decoded struct {
		Sensor string  `json:"sensor"`
		Data   float64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Sensor != "temperature" || decoded.Data != 21.25 {
		t.Errorf("unexpected content: %+v", decoded)
	}
}
