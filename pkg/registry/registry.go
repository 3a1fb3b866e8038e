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

	"github.com/pkg/errors"

	"github.com/group12/iotserver/pkg/metrics"
)

const (
	subSystem = "registry"
)

var (
	// Current value of every LED (0=OFF, 1=ON)
	ledStateGauge = metrics.MustRegisterGaugeVec(subSystem,
		"led_state",
		"Current value of LED (0=OFF, 1=ON)",
		"color")
	// Total number of LED writes
	ledWritesTotal = metrics.MustRegisterCounterVec(subSystem,
		"led_writes_total",
		"Total number of LED writes",
		"color")
)

// Publisher receives LED changes.
type Publisher interface {
	PublishLEDChanged(color string, on bool)
}

// Registry maps the fixed set of device names onto their peripherals.
// Names are unique over all kinds; iteration order is registration order.
//
// A Registry is not safe for concurrent mutation. The server handles a single
// connection at a time, which is the only place that mutates LED state.
type Registry struct {
	entries   []*Entry
	byName    map[string]*Entry
	publisher Publisher
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*Entry),
	}
}

// SetPublisher configures the receiver of LED changes (may be nil).
func (r *Registry) SetPublisher(p Publisher) {
	r.publisher = p
}

// AddInput registers a digital input pin.
func (r *Registry) AddInput(name string, pin InputPin) error {
	return r.add(&Entry{Name: name, Kind: KindInput, Input: pin})
}

// AddLED registers a digital output pin under the name of its color.
func (r *Registry) AddLED(color string, pin OutputPin) error {
	if err := r.add(&Entry{Name: color, Kind: KindOutput, Output: pin}); err != nil {
		return err
	}
	if on, err := pin.Read(); err == nil {
		ledStateGauge.WithLabelValues(color).Set(boolToFloat(on))
	}
	return nil
}

// AddSensor registers a temperature sensor.
func (r *Registry) AddSensor(name string, sensor Sensor) error {
	return r.add(&Entry{Name: name, Kind: KindSensor, Sensor: sensor})
}

func (r *Registry) add(e *Entry) error {
	if e.Name == "" {
		return errors.New("name cannot be empty")
	}
	if existing, found := r.byName[e.Name]; found {
		return errors.Wrapf(DuplicateNameError, "'%s' already registered as %s", e.Name, existing.Kind)
	}
	r.entries = append(r.entries, e)
	r.byName[e.Name] = e
	return nil
}

// Entries returns all entries in registration order.
func (r *Registry) Entries() []Entry {
	result := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, *e)
	}
	return result
}

// InputNames returns the names of all input pins.
func (r *Registry) InputNames() []string {
	return r.names(KindInput)
}

// SensorNames returns the names of all sensors.
func (r *Registry) SensorNames() []string {
	return r.names(KindSensor)
}

// ColorNames returns the colors of all LEDs.
func (r *Registry) ColorNames() []string {
	return r.names(KindOutput)
}

func (r *Registry) names(kind Kind) []string {
	result := []string{}
	for _, e := range r.entries {
		if e.Kind == kind {
			result = append(result, e.Name)
		}
	}
	return result
}

// IsColor returns true if the given name is the color of a registered LED.
func (r *Registry) IsColor(name string) bool {
	_, err := r.lookup(name, KindOutput)
	return err == nil
}

// ReadInput returns the current value of the input pin with given name.
func (r *Registry) ReadInput(name string) (bool, error) {
	e, err := r.lookup(name, KindInput)
	if err != nil {
		return false, err
	}
	value, err := e.Input.Read()
	if err != nil {
		return false, errors.Wrapf(err, "Read[%s] failed", name)
	}
	return value, nil
}

// ReadSensor performs a fresh read of the sensor with given name.
func (r *Registry) ReadSensor(ctx context.Context, name string) (float64, error) {
	e, err := r.lookup(name, KindSensor)
	if err != nil {
		return 0, err
	}
	value, err := e.Sensor.ReadTemperature(ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "ReadTemperature[%s] failed", name)
	}
	return value, nil
}

// ReadLED returns the current value of the LED with given color.
func (r *Registry) ReadLED(color string) (bool, error) {
	e, err := r.lookup(color, KindOutput)
	if err != nil {
		return false, err
	}
	return e.Output.Read()
}

// SetLED sets the LED with given color to the given value.
func (r *Registry) SetLED(color string, on bool) error {
	e, err := r.lookup(color, KindOutput)
	if err != nil {
		return err
	}
	return r.write(e, on)
}

// ToggleLED flips the value of the LED with given color.
func (r *Registry) ToggleLED(color string) error {
	e, err := r.lookup(color, KindOutput)
	if err != nil {
		return err
	}
	current, err := e.Output.Read()
	if err != nil {
		return errors.Wrapf(err, "Read[%s] failed", color)
	}
	return r.write(e, !current)
}

// SetAllLEDs sets every LED to the given value.
func (r *Registry) SetAllLEDs(on bool) error {
	for _, e := range r.entries {
		if e.Kind != KindOutput {
			continue
		}
		if err := r.write(e, on); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) write(e *Entry, on bool) error {
	if err := e.Output.Write(on); err != nil {
		return errors.Wrapf(err, "Write[%s] failed", e.Name)
	}
	ledWritesTotal.WithLabelValues(e.Name).Inc()
	ledStateGauge.WithLabelValues(e.Name).Set(boolToFloat(on))
	if p := r.publisher; p != nil {
		p.PublishLEDChanged(e.Name, on)
	}
	return nil
}

func (r *Registry) lookup(name string, kind Kind) (*Entry, error) {
	e, found := r.byName[name]
	if !found {
		return nil, errors.Wrapf(UnknownPeripheralError, "'%s' not found", name)
	}
	if e.Kind != kind {
		return nil, errors.Wrapf(UnknownPeripheralError, "'%s' is not a %s", name, kind)
	}
	return e, nil
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
