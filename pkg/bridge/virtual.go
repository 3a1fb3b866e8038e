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
	"math"
	"sync"
)

const (
	// Default address of the simulated MCP9808
	virtualMCP9808Address = 0x18
	// Temperature reported by the simulated MCP9808
	virtualDefaultTemperature = 21.5
)

// VirtualBridge implements the bridge in memory.
// It is used when running without hardware and in tests.
type VirtualBridge struct {
	mutex   sync.Mutex
	pins    map[int]*virtualPin
	devices map[uint8]*virtualI2CDevice
}

// NewVirtualBridge implements the bridge for a virtual device, with a simulated
// MCP9808 temperature sensor at its default address.
func NewVirtualBridge() *VirtualBridge {
	b := &VirtualBridge{
		pins:    make(map[int]*virtualPin),
		devices: make(map[uint8]*virtualI2CDevice),
	}
	b.AddMCP9808(virtualMCP9808Address, virtualDefaultTemperature)
	return b
}

func (b *VirtualBridge) getPin(pinNumber int) *virtualPin {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	p, found := b.pins[pinNumber]
	if !found {
		p = &virtualPin{}
		b.pins[pinNumber] = p
	}
	return p
}

// SetInput sets the electrical level of the pin with given number.
func (b *VirtualBridge) SetInput(pinNumber int, level bool) {
	p := b.getPin(pinNumber)
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.level = level
}

// Level returns the electrical level of the pin with given number.
func (b *VirtualBridge) Level(pinNumber int) bool {
	p := b.getPin(pinNumber)
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.level
}

// Input initializes a GPIO input pin with the given pin number.
func (b *VirtualBridge) Input(pinNumber int, activeLow bool) (InputPin, error) {
	if pinNumber < 0 {
		return nil, fmt.Errorf("Invalid pin %d", pinNumber)
	}
	return &virtualPinRef{pin: b.getPin(pinNumber), activeLow: activeLow}, nil
}

// Output initializes a GPIO output pin with the given pin number
// and initial logical value.
func (b *VirtualBridge) Output(pinNumber int, activeLow bool, initialValue bool) (OutputPin, error) {
	if pinNumber < 0 {
		return nil, fmt.Errorf("Invalid pin %d", pinNumber)
	}
	ref := &virtualPinRef{pin: b.getPin(pinNumber), activeLow: activeLow}
	if err := ref.Write(initialValue); err != nil {
		return nil, err
	}
	return ref, nil
}

// AddMCP9808 places a simulated MCP9808 on the bus at given address.
func (b *VirtualBridge) AddMCP9808(address uint8, celsius float64) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	d := &virtualI2CDevice{
		registers: map[uint8][]byte{
			0x06: {0x00, 0x54}, // Manufacturer ID
			0x07: {0x04, 0x00}, // Device ID
			0x08: {0x03},       // Resolution
		},
	}
	d.registers[0x05] = encodeMCP9808Temperature(celsius)
	b.devices[address] = d
}

// SetTemperature updates the temperature reported by the simulated MCP9808 at given address.
func (b *VirtualBridge) SetTemperature(address uint8, celsius float64) {
	b.mutex.Lock()
	d, found := b.devices[address]
	b.mutex.Unlock()
	if !found {
		b.AddMCP9808(address, celsius)
		return
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.registers[0x05] = encodeMCP9808Temperature(celsius)
}

// Register returns a copy of the register content of the device at given address.
func (b *VirtualBridge) Register(address, reg uint8) []byte {
	b.mutex.Lock()
	d, found := b.devices[address]
	b.mutex.Unlock()
	if !found {
		return nil
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return append([]byte(nil), d.registers[reg]...)
}

// Open the I2C bus
func (b *VirtualBridge) I2CBus() (I2CBus, error) {
	return b, nil
}

// Execute an option on the bus.
func (b *VirtualBridge) Execute(ctx context.Context, address uint8, op func(ctx context.Context, dev I2CDevice) error) error {
	b.mutex.Lock()
	d, found := b.devices[address]
	b.mutex.Unlock()
	if !found {
		return fmt.Errorf("device %0x not found", address)
	}
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return op(ctx, d)
}

// Close the bridge
func (b *VirtualBridge) Close() error {
	return nil
}

type virtualPin struct {
	mutex sync.Mutex
	level bool
}

type virtualPinRef struct {
	pin       *virtualPin
	activeLow bool
}

func (r *virtualPinRef) Read() (bool, error) {
	r.pin.mutex.Lock()
	defer r.pin.mutex.Unlock()
	return r.pin.level != r.activeLow, nil
}

func (r *virtualPinRef) Write(value bool) error {
	r.pin.mutex.Lock()
	defer r.pin.mutex.Unlock()
	r.pin.level = value != r.activeLow
	return nil
}

// virtualI2CDevice is a register map. The caller of Execute holds its mutex.
type virtualI2CDevice struct {
	mutex     sync.Mutex
	registers map[uint8][]byte
}

func (d *virtualI2CDevice) WriteByteReg(reg uint8, val uint8) error {
	d.registers[reg] = []byte{val}
	return nil
}

func (d *virtualI2CDevice) ReadI2CBlock(reg uint8, data []byte) error {
	clear(data)
	copy(data, d.registers[reg])
	return nil
}

// encodeMCP9808Temperature encodes the given temperature as the content
// of the MCP9808 ambient temperature register (13-bit two's complement, 1/16 C).
func encodeMCP9808Temperature(celsius float64) []byte {
	raw := int(math.Round(celsius*16)) & 0x1FFF
	return []byte{byte(raw >> 8), byte(raw)}
}
