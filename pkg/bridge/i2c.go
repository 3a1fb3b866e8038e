//go:build linux

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
	"runtime"
	"strconv"

	aerr "github.com/ewoutp/go-aggregate-error"
)

type i2cBus struct {
	location string
	devices  map[uint8]*i2cDevice
	queue    chan func()
	cancel   context.CancelFunc
}

// NewI2CBus returns accessors the the I2C bus at the given location.
func NewI2CBus(location string) (I2CBus, error) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &i2cBus{
		location: location,
		devices:  make(map[uint8]*i2cDevice),
		queue:    make(chan func()),
		cancel:   cancel,
	}
	go b.queueProcessor(ctx)
	return b, nil
}

// Execute an option on the bus.
func (b *i2cBus) Execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	result := make(chan error, 1)
	req := func() {
		result <- b.execute(ctx, address, op)
	}

	// Put request in queue
	select {
	case b.queue <- req:
		// Request is on the queue
	case <-ctx.Done():
		// Context canceled
		return ctx.Err()
	}

	// The operation is running; always wait for it to finish.
	return <-result
}

// Process bus requests from the queue until the given context is canceled.
func (b *i2cBus) queueProcessor(ctx context.Context) {
	// Ensure we're always using the same OS thread
	runtime.LockOSThread()

	for {
		select {
		case req := <-b.queue:
			req()
		case <-ctx.Done():
			return
		}
	}
}

// Execute an option on the bus.
func (b *i2cBus) execute(ctx context.Context, address uint8, op func(context.Context, I2CDevice) error) error {
	addrLabel := strconv.Itoa(int(address))
	i2cExecuteCounters.WithLabelValues(addrLabel).Inc()

	var err error
	for attempt := 0; attempt < 2; attempt++ {
		var dev *i2cDevice
		dev, err = b.openDevice(address)
		if err != nil {
			i2cExecuteErrorCounters.WithLabelValues(addrLabel).Inc()
			return fmt.Errorf("openDevice(%d) failed: %w", address, err)
		}

		err = op(ctx, dev)
		if err == nil {
			return nil
		}

		// Device call failed, close all devices and try again with fresh handles
		for _, d := range b.devices {
			d.closeFile()
		}
		clear(b.devices)
	}
	i2cExecuteErrorCounters.WithLabelValues(addrLabel).Inc()
	return fmt.Errorf("execute operation in i2c bus failed: %w", err)
}

// Open a connection to a device at the given address.
func (b *i2cBus) openDevice(address uint8) (*i2cDevice, error) {
	if d, found := b.devices[address]; found {
		return d, nil
	}
	d, err := newI2CDevice(b.location, address)
	if err != nil {
		return nil, err
	}
	b.devices[address] = d
	return d, nil
}

// Close the bus and all devices on it
func (b *i2cBus) Close() error {
	done := make(chan error, 1)
	b.queue <- func() {
		var ae aerr.AggregateError
		for addr, d := range b.devices {
			if err := d.closeFile(); err != nil {
				ae.Add(err)
			}
			delete(b.devices, addr)
		}
		done <- ae.AsError()
	}
	err := <-done
	b.cancel()
	return err
}
