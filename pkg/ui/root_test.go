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

package ui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

var testColors = []string{"red", "green", "yellow"}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		Line     string
		Expected Command
	}{
		{"red", Command{Action: ActionLED, Color: "red"}},
		{"  Green ON ", Command{Action: ActionLED, Color: "green", State: "on"}},
		{"yellow off", Command{Action: ActionLED, Color: "yellow", State: "off"}},
		{"all on", Command{Action: ActionLED, State: "on"}},
		{"off", Command{Action: ActionLED, State: "off"}},
		{"refresh", Command{Action: ActionRefresh}},
		{"b1", Command{Action: ActionRefresh}},
		{"r", Command{Action: ActionLED, Color: "red"}},
		{"g=off", Command{Action: ActionLED, Color: "green", State: "off"}},
		{"s=on", Command{Action: ActionLED, State: "on"}},
		{"quit", Command{Action: ActionQuit}},
		{"?", Command{Action: ActionHelp}},
	}
	for _, test := range tests {
		cmd, err := ParseCommand(test.Line, testColors)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", test.Line, err)
		} else if cmd != test.Expected {
			t.Errorf("%q: got %+v, want %+v", test.Line, cmd, test.Expected)
		}
	}
	for _, line := range []string{"", "blue", "red maybe", "all", "all toggle", "on now", "red on now", "x=on"} {
		if _, err := ParseCommand(line, testColors); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

type fakeDevice struct {
	leds []string
}

func (d *fakeDevice) Pins(ctx context.Context) ([]string, error) {
	return []string{"Button1", "Button2"}, nil
}
func (d *fakeDevice) Sensors(ctx context.Context) ([]string, error) {
	return []string{"temperature"}, nil
}
func (d *fakeDevice) Pin(ctx context.Context, name string) (bool, error) {
	return name == "Button2", nil
}
func (d *fakeDevice) Temperature(ctx context.Context) (float64, error) { return 21.5, nil }
func (d *fakeDevice) LED(ctx context.Context, color, state string) error {
	d.leds = append(d.leds, color+"/"+state)
	return nil
}

func TestReadSnapshot(t *testing.T) {
	s, err := readSnapshot(context.Background(), &fakeDevice{})
	if err != nil {
		t.Fatalf("readSnapshot failed: %v", err)
	}
	if s.PinValues["Button1"] || !s.PinValues["Button2"] || s.Temperature != 21.5 {
		t.Errorf("unexpected snapshot %+v", s)
	}
}

func TestEnterSendsLEDCommand(t *testing.T) {
	d := &fakeDevice{}
	r := NewRoot(d, "192.168.4.1", testColors)
	r.input.SetValue("green on")
	model, cmd := r.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg := cmd()
	done, ok := msg.(commandDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("unexpected message %#v", msg)
	}
	if len(d.leds) != 1 || d.leds[0] != "green/on" {
		t.Errorf("unexpected LED calls %v", d.leds)
	}
	model, _ = model.Update(done)
	if view := model.View(); !strings.Contains(view, "sent green on") {
		t.Errorf("view misses last command: %s", view)
	}
}
