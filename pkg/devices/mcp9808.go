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

	"github.com/group12/iotserver/pkg/bridge"
)

const (
	// MCP9808DefaultAddress is the bus address with A0..A2 tied low.
	MCP9808DefaultAddress = 0x18

	mcp9808RegTemperature  = 0x05
	mcp9808RegManufacturer = 0x06
	mcp9808RegResolution   = 0x08

	mcp9808ManufacturerID = 0x0054
)

// MCP9808Resolution is the value of the resolution register.
type MCP9808Resolution uint8

const (
	// MCP9808ResolutionHalf measures in steps of 0.5C
	MCP9808ResolutionHalf MCP9808Resolution = 0x00
	// MCP9808ResolutionQuarter measures in steps of 0.25C
	MCP9808ResolutionQuarter MCP9808Resolution = 0x01
	// MCP9808ResolutionEighth measures in steps of 0.125C
	MCP9808ResolutionEighth MCP9808Resolution = 0x02
	// MCP9808ResolutionSixteenth measures in steps of 0.0625C
	MCP9808ResolutionSixteenth MCP9808Resolution = 0x03
)

// MCP9808 is a digital temperature sensor on the I2C bus.
type MCP9808 struct {
	bus        bridge.I2CBus
	address    uint8
	resolution MCP9808Resolution
}

var _ Device = &MCP9808{}

// NewMCP9808 creates a driver for an MCP9808 at given address.
func NewMCP9808(bus bridge.I2CBus, address uint8, resolution MCP9808Resolution) *MCP9808 {
	return &MCP9808{
		bus:        bus,
		address:    address,
		resolution: resolution,
	}
}

// Configure checks the manufacturer ID and writes the resolution register.
func (d *MCP9808) Configure(ctx context.Context) error {
	if err := d.bus.Execute(ctx, d.address, func(ctx context.Context, dev bridge.I2CDevice) error {
		var id [2]byte
		if err := dev.ReadI2CBlock(mcp9808RegManufacturer, id[:]); err != nil {
			return err
		}
		if got := uint16(id[0])<<8 | uint16(id[1]); got != mcp9808ManufacturerID {
			return errors.Wrapf(UnexpectedDeviceError, "manufacturer ID 0x%04x at address 0x%02x", got, d.address)
		}
		return dev.WriteByteReg(mcp9808RegResolution, uint8(d.resolution))
	}); err != nil {
		return errors.Wrap(err, "Configure[MCP9808] failed")
	}
	return nil
}

// ReadTemperature performs a fresh measurement and returns degrees Celsius.
func (d *MCP9808) ReadTemperature(ctx context.Context) (float64, error) {
	var raw [2]byte
	if err := d.bus.Execute(ctx, d.address, func(ctx context.Context, dev bridge.I2CDevice) error {
		return dev.ReadI2CBlock(mcp9808RegTemperature, raw[:])
	}); err != nil {
		return 0, errors.Wrap(err, "ReadTemperature[MCP9808] failed")
	}
	return convertMCP9808Temperature(raw[0], raw[1]), nil
}

// convertMCP9808Temperature converts the content of the ambient temperature
// register into degrees Celsius. The upper 3 bits hold alert flags.
func convertMCP9808Temperature(upper, lower byte) float64 {
	val := uint16(upper)<<8 | uint16(lower)
	temp := float64(val&0x0FFF) / 16
	if val&0x1000 != 0 {
		temp -= 256
	}
	return temp
}
