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
	"sync"

	"github.com/pkg/errors"
)

// Writer is the minimal interface of a hardware output line.
type Writer interface {
	Write(value bool) error
}

type shadowOutput struct {
	mutex sync.Mutex
	pin   Writer
	value bool
}

// NewShadowOutput wraps the given hardware output line into an OutputPin
// that remembers the last value written to it.
// The given initial value must be the value the line was configured with.
func NewShadowOutput(pin Writer, initial bool) OutputPin {
	return &shadowOutput{
		pin:   pin,
		value: initial,
	}
}

// Read returns the last value successfully written.
func (o *shadowOutput) Read() (bool, error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.value, nil
}

// Write the given value to the line.
// The remembered value only changes when the write succeeds.
func (o *shadowOutput) Write(value bool) error {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	if err := o.pin.Write(value); err != nil {
		return errors.Wrap(err, "Write failed")
	}
	o.value = value
	return nil
}
