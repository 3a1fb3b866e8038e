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

import "testing"

func TestDetectBridgeType(t *testing.T) {
	tests := []struct {
		Release  string
		Machine  string
		Model    string
		HasI2C   bool
		Expected string
	}{
		{"6.6.31+rpt-rpi-v8", "aarch64", "Raspberry Pi 4 Model B Rev 1.4", true, BridgeRaspberryPi},
		{"6.6.31+rpt-rpi-v8", "aarch64", "Raspberry Pi 4 Model B Rev 1.4", false, BridgeVirtual},
		{"5.4.65-sunxi", "armv7l", "Xunlong Orange Pi Zero", false, BridgePeriph},
		{"6.1.0-beagle", "armv7l", "TI AM335x BeagleBone Black", true, BridgePeriph},
		{"6.8.0-45-generic", "x86_64", "", true, BridgeVirtual},
		{"6.8.0-45-generic", "x86_64", "", false, BridgeVirtual},
	}
	for _, test := range tests {
		if got := detectBridgeType(test.Release, test.Machine, test.Model, test.HasI2C); got != test.Expected {
			t.Errorf("%s/%s/%q: got %s, want %s", test.Release, test.Machine, test.Model, got, test.Expected)
		}
	}
	for _, name := range BridgeTypes {
		if !IsValidBridgeType(name) {
			t.Errorf("%s must be valid", name)
		}
	}
	if IsValidBridgeType("opz") {
		t.Error("opz must not be valid")
	}
}
