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
	"fmt"
	"strings"
)

// Action of a console command.
type Action int

const (
	// ActionLED sends an LED command to the device.
	ActionLED Action = iota
	// ActionRefresh reloads all values.
	ActionRefresh
	// ActionQuit ends the console.
	ActionQuit
	// ActionHelp shows the list of commands.
	ActionHelp
)

// HelpText describes the accepted commands.
const HelpText = `r/g/y            toggle red, green or yellow
r=on, green off  set one LED
s=on, all off    set all LEDs
t, b1, b2        refresh values
? or help        this text
q                quit`

// Command is a parsed console line.
type Command struct {
	Action Action
	// Color of the LED (empty means all LEDs)
	Color string
	// State of the LED: "on", "off" or empty for toggle
	State string
}

// ParseCommand parses a console line.
// Accepted forms:
//
//	<color>            toggle one LED
//	<color> on|off     set one LED
//	all on|off         set all LEDs
//	on|off             set all LEDs
//	refresh | t | b1 | b2
//	quit | q | exit
//	? | help
//
// A color may be abbreviated to its first letter, "s" stands for all LEDs
// and "<color>=<state>" is the same as "<color> <state>".
func ParseCommand(line string, colors []string) (Command, error) {
	fields := strings.Fields(strings.ReplaceAll(strings.ToLower(line), "=", " "))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	fields[0] = expandColor(fields[0], colors)
	switch fields[0] {
	case "quit", "q", "exit":
		return Command{Action: ActionQuit}, nil
	case "?", "help":
		return Command{Action: ActionHelp}, nil
	case "refresh", "t", "b1", "b2":
		return Command{Action: ActionRefresh}, nil
	case "on", "off":
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("unexpected arguments after '%s'", fields[0])
		}
		return Command{Action: ActionLED, State: fields[0]}, nil
	case "all", "s":
		if len(fields) != 2 || !isState(fields[1]) {
			return Command{}, fmt.Errorf("usage: all on|off")
		}
		return Command{Action: ActionLED, State: fields[1]}, nil
	}
	if !contains(colors, fields[0]) {
		return Command{}, fmt.Errorf("unknown color '%s' (expected one of %s)", fields[0], strings.Join(colors, ", "))
	}
	switch len(fields) {
	case 1:
		return Command{Action: ActionLED, Color: fields[0]}, nil
	case 2:
		if !isState(fields[1]) {
			return Command{}, fmt.Errorf("invalid state '%s' (expected on or off)", fields[1])
		}
		return Command{Action: ActionLED, Color: fields[0], State: fields[1]}, nil
	default:
		return Command{}, fmt.Errorf("usage: <color> [on|off]")
	}
}

// expandColor replaces a single letter abbreviation by the color it uniquely identifies.
func expandColor(word string, colors []string) string {
	if len(word) != 1 {
		return word
	}
	result := word
	matches := 0
	for _, c := range colors {
		if strings.HasPrefix(c, word) {
			result = c
			matches++
		}
	}
	if matches != 1 {
		return word
	}
	return result
}

func isState(s string) bool {
	return s == "on" || s == "off"
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
