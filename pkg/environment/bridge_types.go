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

const (
	// BridgeRaspberryPi drives the GPIO character device and /dev/i2c-1 directly.
	BridgeRaspberryPi = "rpi"
	// BridgePeriph uses periph.io host drivers (Allwinner, Beaglebone, ...).
	BridgePeriph = "periph"
	// BridgeVirtual simulates the board in memory.
	BridgeVirtual = "virtual"
)

// BridgeTypes lists all supported bridge types.
var BridgeTypes = []string{BridgeRaspberryPi, BridgePeriph, BridgeVirtual}

// IsValidBridgeType returns true if the given name is a supported bridge type.
func IsValidBridgeType(name string) bool {
	for _, x := range BridgeTypes {
		if x == name {
			return true
		}
	}
	return false
}
