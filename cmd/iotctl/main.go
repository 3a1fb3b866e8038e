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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/group12/iotserver/pkg/client"
	"github.com/group12/iotserver/pkg/ui"
)

const (
	defaultAddress = "http://192.168.4.1"
)

var (
	defaultColors = []string{"red", "green", "yellow"}
)

func main() {
	var address string
	var colors []string

	pflag.StringVarP(&address, "address", "a", defaultAddress, "Base URL of the iotserver")
	pflag.StringSliceVar(&colors, "colors", defaultColors, "Colors of the LEDs on the device")
	pflag.Parse()

	c := client.New(address)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if _, err := c.Pins(ctx); err != nil {
		cancel()
		Exitf("Cannot reach iotserver at %s: %v\n", address, err)
	}
	cancel()

	p := tea.NewProgram(ui.NewRoot(c, address, colors))
	if _, err := p.Run(); err != nil {
		Exitf("Console failed: %v\n", err)
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
