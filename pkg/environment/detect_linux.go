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

package environment

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const (
	deviceTreeModel = "/proc/device-tree/model"
	i2cBus1         = "/dev/i2c-1"
)

// AutoDetectBridgeType detects the default bridge type based on the environment.
func AutoDetectBridgeType(log zerolog.Logger) string {
	var name unix.Utsname
	if err := unix.Uname(&name); err != nil {
		log.Debug().Err(err).Msg("Uname failed, using virtual bridge")
		return BridgeVirtual
	}
	release := unix.ByteSliceToString(name.Release[:])
	machine := unix.ByteSliceToString(name.Machine[:])
	model, _ := os.ReadFile(deviceTreeModel)
	hasI2C := unix.Access(i2cBus1, unix.R_OK|unix.W_OK) == nil
	result := detectBridgeType(release, machine, strings.TrimRight(string(model), "\x00\n"), hasI2C)
	log.Debug().
		Str("release", release).
		Str("machine", machine).
		Bool("i2c", hasI2C).
		Str("bridge", result).
		Msg("Detected bridge type")
	return result
}

// detectBridgeType selects a bridge from the kernel and board identification.
func detectBridgeType(release, machine, model string, hasI2C bool) string {
	switch {
	case strings.Contains(model, "Raspberry Pi") && hasI2C:
		return BridgeRaspberryPi
	case strings.Contains(release, "sunxi"):
		return BridgePeriph
	case hasI2C && (strings.HasPrefix(machine, "arm") || machine == "aarch64"):
		return BridgePeriph
	default:
		return BridgeVirtual
	}
}
