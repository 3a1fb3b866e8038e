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

package devices

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/bridge"
	"github.com/group12/iotserver/pkg/registry"
)

// PinConfig binds a name to a GPIO line.
type PinConfig struct {
	Name      string
	Pin       int
	ActiveLow bool
}

// SensorConfig binds a name to an MCP9808 on the I2C bus.
type SensorConfig struct {
	Name       string
	Address    uint8
	Resolution MCP9808Resolution
}

// Board is the fixed set of peripherals of the device.
type Board struct {
	Inputs  []PinConfig
	LEDs    []PinConfig
	Sensors []SensorConfig
}

// DefaultBoard is the wiring of the control board.
// Buttons pull their line low when pressed. They are deliberately not
// configured ActiveLow: the raw level is reported, so a pressed button
// reads 0, which is what the logging clients expect.
var DefaultBoard = Board{
	Inputs: []PinConfig{
		{Name: "Button1", Pin: 17},
		{Name: "Button2", Pin: 27},
	},
	Sensors: []SensorConfig{
		{Name: "temperature", Address: MCP9808DefaultAddress, Resolution: MCP9808ResolutionQuarter},
	},
	LEDs: []PinConfig{
		{Name: "red", Pin: 22},
		{Name: "green", Pin: 23},
		{Name: "yellow", Pin: 24},
	},
}

// BuildRegistry opens all peripherals of the board on the given bridge,
// configures them and registers them in a new registry.
// Registration order is inputs, sensors, LEDs.
func (b Board) BuildRegistry(ctx context.Context, api bridge.API, log zerolog.Logger) (*registry.Registry, error) {
	log = log.With().Str("component", "board").Logger()
	reg := registry.New()

	for _, c := range b.Inputs {
		pin, err := api.Input(c.Pin, c.ActiveLow)
		if err != nil {
			return nil, errors.Wrapf(err, "Input[%s] failed", c.Name)
		}
		if err := reg.AddInput(c.Name, pin); err != nil {
			return nil, maskAny(err)
		}
		log.Debug().Str("name", c.Name).Int("pin", c.Pin).Msg("Configured input")
	}

	if len(b.Sensors) > 0 {
		bus, err := api.I2CBus()
		if err != nil {
			return nil, errors.Wrap(err, "I2CBus failed")
		}
		for _, c := range b.Sensors {
			sensor := NewMCP9808(bus, c.Address, c.Resolution)
			if err := sensor.Configure(ctx); err != nil {
				return nil, errors.Wrapf(err, "Configure[%s] failed", c.Name)
			}
			if err := reg.AddSensor(c.Name, sensor); err != nil {
				return nil, maskAny(err)
			}
			log.Debug().Str("name", c.Name).Uint8("address", c.Address).Msg("Configured sensor")
		}
	}

	const initialValue = false
	for _, c := range b.LEDs {
		pin, err := api.Output(c.Pin, c.ActiveLow, initialValue)
		if err != nil {
			return nil, errors.Wrapf(err, "Output[%s] failed", c.Name)
		}
		if err := reg.AddLED(c.Name, registry.NewShadowOutput(pin, initialValue)); err != nil {
			return nil, maskAny(err)
		}
		log.Debug().Str("name", c.Name).Int("pin", c.Pin).Msg("Configured LED")
	}
	return reg, nil
}
