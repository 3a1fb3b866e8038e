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
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// From  /usr/include/linux/i2c-dev.h:
	// ioctl signals
	I2C_SLAVE = 0x0703
	I2C_FUNCS = 0x0705
	I2C_SMBUS = 0x0720
	// Read/write markers
	I2C_SMBUS_READ  = 1
	I2C_SMBUS_WRITE = 0

	// From  /usr/include/linux/i2c.h:
	// Adapter functionality
	I2C_FUNC_SMBUS_WRITE_BYTE_DATA = 0x00100000
	I2C_FUNC_SMBUS_READ_I2C_BLOCK  = 0x04000000 /* I2C-like block xfer  */

	// Transaction types
	I2C_SMBUS_BYTE_DATA      = 2
	I2C_SMBUS_I2C_BLOCK_DATA = 8 /* SMBus 2.0 */

	// Maximum payload of an SMBus block transfer
	I2C_SMBUS_BLOCK_MAX = 32
)

type i2cSmbusIoctlData struct {
	readWrite byte
	command   byte
	size      uint32
	data      uintptr
}

type i2cDevice struct {
	address uint8
	mutex   sync.Mutex
	file    *os.File
	funcs   uint64 // adapter functionality mask
}

// newI2CDevice returns accessors the the I2C address at the given location & address.
func newI2CDevice(location string, address uint8) (*i2cDevice, error) {
	d := &i2cDevice{
		address: address,
	}

	var err error
	if d.file, err = os.OpenFile(location, os.O_RDWR, os.ModeDevice); err != nil {
		return nil, err
	}
	if err := d.ioctl(I2C_FUNCS, uintptr(unsafe.Pointer(&d.funcs))); err != nil {
		d.file.Close()
		return nil, errors.Wrap(err, "Querying functionality failed")
	}
	if err := d.ioctl(I2C_SLAVE, uintptr(address)); err != nil {
		d.file.Close()
		return nil, errors.Wrapf(err, "Setting address (0x%0x) failed", address)
	}
	return d, nil
}

func (d *i2cDevice) ioctl(req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), req, arg); errno != 0 {
		return errno
	}
	return nil
}

func (d *i2cDevice) closeFile() error {
	return d.file.Close()
}

func (d *i2cDevice) WriteByteReg(reg uint8, val uint8) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.funcs&I2C_FUNC_SMBUS_WRITE_BYTE_DATA == 0 {
		return fmt.Errorf("SMBus write byte data not supported")
	}
	data := val
	if err := d.smbusAccess(I2C_SMBUS_WRITE, reg, I2C_SMBUS_BYTE_DATA, uintptr(unsafe.Pointer(&data))); err != nil {
		return errors.Wrapf(err, "writeByteData[0x%0x](0x%0x, 0x%0x) failed", d.address, reg, val)
	}
	return nil
}

// Read len(data) bytes starting at given register
func (d *i2cDevice) ReadI2CBlock(reg uint8, data []byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.funcs&I2C_FUNC_SMBUS_READ_I2C_BLOCK == 0 {
		return fmt.Errorf("SMBus read i2c block not supported")
	}
	if len(data) > I2C_SMBUS_BLOCK_MAX {
		return fmt.Errorf("block of %d bytes exceeds maximum of %d", len(data), I2C_SMBUS_BLOCK_MAX)
	}
	// union i2c_smbus_data: block[0] holds the length
	var block [I2C_SMBUS_BLOCK_MAX + 2]byte
	block[0] = byte(len(data))
	if err := d.smbusAccess(I2C_SMBUS_READ, reg, I2C_SMBUS_I2C_BLOCK_DATA, uintptr(unsafe.Pointer(&block[0]))); err != nil {
		return errors.Wrapf(err, "readI2CBlock[0x%0x](0x%0x) failed", d.address, reg)
	}
	copy(data, block[1:1+len(data)])
	return nil
}

func (d *i2cDevice) smbusAccess(readWrite byte, command byte, size uint32, data uintptr) error {
	smbus := &i2cSmbusIoctlData{
		readWrite: readWrite,
		command:   command,
		size:      size,
		data:      data,
	}
	if err := d.ioctl(I2C_SMBUS, uintptr(unsafe.Pointer(smbus))); err != nil {
		return fmt.Errorf("Failed with syscall.Errno %v", err)
	}
	return nil
}
