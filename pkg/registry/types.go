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

package registry

import (
	"context"
)

// Kind of a registered peripheral.
type Kind uint8

const (
	// KindInput is a digital input pin.
	KindInput Kind = iota
	// KindOutput is a digital output pin driving an LED.
	KindOutput
	// KindSensor is a temperature sensor.
	KindSensor
)

// String returns a human readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	case KindSensor:
		return "sensor"
	default:
		return "unknown"
	}
}

// InputPin is a digital line that can only be read.
type InputPin interface {
	// Read the current logical value of the pin.
	Read() (bool, error)
}

// OutputPin is a digital line that can be read and written.
type OutputPin interface {
	InputPin
	// Write sets the logical value of the pin.
	Write(value bool) error
}

// Sensor is a temperature sensor.
type Sensor interface {
	// ReadTemperature performs a fresh measurement and returns degrees Celsius.
	ReadTemperature(ctx context.Context) (float64, error)
}

// Entry is a single named peripheral.
// Exactly one of Input, Output or Sensor is set, depending on Kind.
type Entry struct {
	Name   string
	Kind   Kind
	Input  InputPin
	Output OutputPin
	Sensor Sensor
}

// Read the boolean value of a pin entry.
func (e Entry) ReadPin() (bool, error) {
	switch e.Kind {
	case KindInput:
		return e.Input.Read()
	case KindOutput:
		return e.Output.Read()
	default:
		return false, maskAny(UnknownPeripheralError)
	}
}
