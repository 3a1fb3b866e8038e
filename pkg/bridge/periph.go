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

package bridge

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

type periphBridge struct {
	mutex   sync.Mutex
	busName string
	bus     *periphI2CBus
}

// NewPeriphBridge implements the bridge using the periph.io host drivers.
// busName selects the I2C bus; empty selects the first available bus.
func NewPeriphBridge(busName string) (API, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host.Init failed")
	}
	return &periphBridge{busName: busName}, nil
}

func (p *periphBridge) pin(pinNumber int) (gpio.PinIO, error) {
	name := fmt.Sprintf("GPIO%d", pinNumber)
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("Invalid pin %d", pinNumber)
	}
	return pin, nil
}

// Input initializes a GPIO input pin with the given pin number.
func (p *periphBridge) Input(pinNumber int, activeLow bool) (InputPin, error) {
	pin, err := p.pin(pinNumber)
	if err != nil {
		return nil, err
	}
	pull := gpio.PullDown
	if activeLow {
		pull = gpio.PullUp
	}
	if err := pin.In(pull, gpio.NoEdge); err != nil {
		return nil, errors.Wrapf(err, "In[%s] failed", pin.Name())
	}
	return &periphPin{pin: pin, activeLow: activeLow}, nil
}

// Output initializes a GPIO output pin with the given pin number
// and initial logical value.
func (p *periphBridge) Output(pinNumber int, activeLow bool, initialValue bool) (OutputPin, error) {
	pin, err := p.pin(pinNumber)
	if err != nil {
		return nil, err
	}
	result := &periphPin{pin: pin, activeLow: activeLow}
	if err := result.Write(initialValue); err != nil {
		return nil, err
	}
	return result, nil
}

// Open the I2C bus
func (p *periphBridge) I2CBus() (I2CBus, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus == nil {
		bus, err := i2creg.Open(p.busName)
		if err != nil {
			return nil, errors.Wrapf(err, "i2creg.Open(%q) failed", p.busName)
		}
		p.bus = &periphI2CBus{bus: bus}
	}
	return p.bus, nil
}

func (p *periphBridge) Close() error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bus != nil {
		bus := p.bus
		p.bus = nil
		if err := bus.Close(); err != nil {
			return errors.Wrap(err, "Close failed")
		}
	}
	return nil
}

type periphPin struct {
	pin       gpio.PinIO
	activeLow bool
}

// Read the logical value of the pin.
func (p *periphPin) Read() (bool, error) {
	level := p.pin.Read()
	return bool(level) != p.activeLow, nil
}

// Write the logical value of the pin.
func (p *periphPin) Write(value bool) error {
	level := gpio.Level(value != p.activeLow)
	if err := p.pin.Out(level); err != nil {
		return errors.Wrapf(err, "Out[%s] failed", p.pin.Name())
	}
	return nil
}

type periphI2CBus struct {
	mutex sync.Mutex
	bus   i2c.BusCloser
}

// Execute an option on the bus.
func (b *periphI2CBus) Execute(ctx context.Context, address uint8, op func(ctx context.Context, dev I2CDevice) error) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	addrLabel := strconv.Itoa(int(address))
	i2cExecuteCounters.WithLabelValues(addrLabel).Inc()
	if err := ctx.Err(); err != nil {
		return err
	}
	dev := &periphI2CDevice{dev: &i2c.Dev{Bus: b.bus, Addr: uint16(address)}}
	if err := op(ctx, dev); err != nil {
		i2cExecuteErrorCounters.WithLabelValues(addrLabel).Inc()
		return fmt.Errorf("execute operation in i2c bus failed: %w", err)
	}
	return nil
}

// Close the bus
func (b *periphI2CBus) Close() error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.bus.Close()
}

type periphI2CDevice struct {
	dev *i2c.Dev
}

func (d *periphI2CDevice) WriteByteReg(reg uint8, val uint8) error {
	if err := d.dev.Tx([]byte{reg, val}, nil); err != nil {
		return errors.Wrapf(err, "writeByteData[0x%0x](0x%0x, 0x%0x) failed", d.dev.Addr, reg, val)
	}
	return nil
}

func (d *periphI2CDevice) ReadI2CBlock(reg uint8, data []byte) error {
	if err := d.dev.Tx([]byte{reg}, data); err != nil {
		return errors.Wrapf(err, "readI2CBlock[0x%0x](0x%0x) failed", d.dev.Addr, reg)
	}
	return nil
}
