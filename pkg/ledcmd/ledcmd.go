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

package ledcmd

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// MalformedCommandError is returned when an LED query fails validation.
	MalformedCommandError = errors.New("malformed LED command")
	IsMalformedCommand    = isErrorFunc(MalformedCommandError)
)

const (
	stateOn  = "on"
	stateOff = "off"
)

// Command is a validated LED command.
// At least one of Color and State is set.
type Command struct {
	// Color of the LED to change. Nil means all LEDs.
	Color *string
	// Requested state. Nil means toggle.
	State *bool
}

// Registry is the part of the peripheral registry that LED commands operate on.
type Registry interface {
	IsColor(name string) bool
	SetLED(color string, on bool) error
	ToggleLED(color string) error
	SetAllLEDs(on bool) error
}

// Parse the query string of an /led request (including the leading '?').
//
// Tokens are separated by '&' and split into key and value on the first '='.
// A key containing "state" must have the value "on" or "off". A key
// containing "color" must have a known color as value. A key containing
// both must satisfy both checks. The first invalid token rejects the whole
// command. Other tokens are ignored. When a field appears more than once,
// the last one wins.
func Parse(query string, reg Registry) (Command, error) {
	var cmd Command
	query = strings.TrimPrefix(query, "?")
	for _, token := range strings.Split(query, "&") {
		key, value, _ := strings.Cut(token, "=")
		if strings.Contains(key, "state") {
			switch value {
			case stateOn:
				on := true
				cmd.State = &on
			case stateOff:
				off := false
				cmd.State = &off
			default:
				return Command{}, errors.Wrapf(MalformedCommandError, "invalid state '%s'", value)
			}
		}
		if strings.Contains(key, "color") {
			if !reg.IsColor(value) {
				return Command{}, errors.Wrapf(MalformedCommandError, "invalid color '%s'", value)
			}
			color := value
			cmd.Color = &color
		}
	}
	if cmd.Color == nil && cmd.State == nil {
		return Command{}, errors.Wrap(MalformedCommandError, "no color or state given")
	}
	return cmd, nil
}

// Apply the command to the given registry.
//   - state only: set all LEDs
//   - color only: toggle that LED
//   - color and state: set that LED
func (c Command) Apply(reg Registry) error {
	switch {
	case c.Color != nil && c.State != nil:
		return reg.SetLED(*c.Color, *c.State)
	case c.Color != nil:
		return reg.ToggleLED(*c.Color)
	case c.State != nil:
		return reg.SetAllLEDs(*c.State)
	default:
		return errors.Wrap(MalformedCommandError, "no color or state given")
	}
}

// String returns a human readable form of the command, used for logging.
func (c Command) String() string {
	color := "all"
	if c.Color != nil {
		color = *c.Color
	}
	state := "toggle"
	if c.State != nil {
		state = stateOff
		if *c.State {
			state = stateOn
		}
	}
	return color + "=" + state
}

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
