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
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	refreshInterval = time.Second * 2
	requestTimeout  = time.Second * 5
)

// Device is the remote iotserver as seen by the console.
type Device interface {
	Pins(ctx context.Context) ([]string, error)
	Sensors(ctx context.Context) ([]string, error)
	Pin(ctx context.Context, name string) (bool, error)
	Temperature(ctx context.Context) (float64, error)
	LED(ctx context.Context, color, state string) error
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	nameStyle  = lipgloss.NewStyle().Width(14)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
)

// Snapshot holds the values read in one refresh.
type Snapshot struct {
	Pins        []string
	PinValues   map[string]bool
	Sensors     []string
	Temperature float64
	ReadAt      time.Time
}

type snapshotMsg struct {
	snapshot Snapshot
	err      error
}

type commandDoneMsg struct {
	command string
	err     error
}

type tickMsg time.Time

// Root is the console model.
type Root struct {
	device  Device
	address string
	colors  []string

	input    textinput.Model
	snapshot Snapshot
	lastErr  error
	lastCmd  string
	showHelp bool
	width    int
}

var _ tea.Model = Root{}

// NewRoot creates the console model for the device at the given address.
func NewRoot(device Device, address string, colors []string) Root {
	input := textinput.New()
	input.Placeholder = "? for help"
	input.Prompt = "> "
	input.Focus()
	return Root{
		device:  device,
		address: address,
		colors:  colors,
		input:   input,
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (r Root) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, doRefresh(r.device))
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (r Root) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
	case snapshotMsg:
		if msg.err != nil {
			r.lastErr = msg.err
		} else {
			r.snapshot = msg.snapshot
		}
		return r, doTick()
	case tickMsg:
		return r, doRefresh(r.device)
	case commandDoneMsg:
		r.lastCmd = msg.command
		r.lastErr = msg.err
		return r, doRefresh(r.device)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return r, tea.Quit
		case tea.KeyEnter:
			line := r.input.Value()
			r.input.SetValue("")
			cmd, err := ParseCommand(line, r.colors)
			r.showHelp = false
			if err != nil {
				r.lastErr = err
				return r, nil
			}
			switch cmd.Action {
			case ActionQuit:
				return r, tea.Quit
			case ActionHelp:
				r.showHelp = true
				return r, nil
			case ActionRefresh:
				return r, doRefresh(r.device)
			default:
				return r, doLED(r.device, cmd)
			}
		}
	}

	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (r Root) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("iotserver at %s", r.address)))
	b.WriteString("\n\n")
	for _, name := range r.snapshot.Pins {
		b.WriteString(nameStyle.Render(name))
		b.WriteString(renderBool(r.snapshot.PinValues[name]))
		b.WriteString("\n")
	}
	if len(r.snapshot.Sensors) > 0 {
		b.WriteString(nameStyle.Render("temperature"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f °C", r.snapshot.Temperature)))
		b.WriteString("\n")
	}
	if !r.snapshot.ReadAt.IsZero() {
		b.WriteString(helpStyle.Render("updated " + humanize.Time(r.snapshot.ReadAt)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if r.showHelp {
		b.WriteString(helpStyle.Render(HelpText))
		b.WriteString("\n")
	}
	if r.lastErr != nil {
		b.WriteString(errorStyle.Render(r.lastErr.Error()))
		b.WriteString("\n")
	} else if r.lastCmd != "" {
		b.WriteString(helpStyle.Render("sent " + r.lastCmd))
		b.WriteString("\n")
	}
	b.WriteString(r.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("esc/ctrl+c to quit"))
	return b.String()
}

func renderBool(v bool) string {
	if v {
		return onStyle.Render("1")
	}
	return offStyle.Render("0")
}

func doTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// doRefresh reads all values from the device.
func doRefresh(device Device) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snapshot, err := readSnapshot(ctx, device)
		return snapshotMsg{snapshot: snapshot, err: err}
	}
}

func readSnapshot(ctx context.Context, device Device) (Snapshot, error) {
	pins, err := device.Pins(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	sensors, err := device.Sensors(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{
		Pins:      pins,
		PinValues: make(map[string]bool),
		Sensors:   sensors,
	}
	for _, name := range pins {
		v, err := device.Pin(ctx, name)
		if err != nil {
			return Snapshot{}, err
		}
		s.PinValues[name] = v
	}
	if len(sensors) > 0 {
		if s.Temperature, err = device.Temperature(ctx); err != nil {
			return Snapshot{}, err
		}
	}
	s.ReadAt = time.Now()
	return s, nil
}

// doLED sends an LED command to the device.
func doLED(device Device, cmd Command) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := device.LED(ctx, cmd.Color, cmd.State)
		return commandDoneMsg{command: describe(cmd), err: err}
	}
}

func describe(cmd Command) string {
	color := cmd.Color
	if color == "" {
		color = "all"
	}
	state := cmd.State
	if state == "" {
		state = "toggle"
	}
	return color + " " + state
}
