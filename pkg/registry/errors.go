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

import "github.com/pkg/errors"

var (
	// UnknownPeripheralError is returned when a name is not part of the requested vocabulary.
	UnknownPeripheralError = errors.New("unknown peripheral")
	IsUnknownPeripheral    = isErrorFunc(UnknownPeripheralError)
	// DuplicateNameError is returned when a name is registered twice.
	DuplicateNameError = errors.New("duplicate peripheral name")
	IsDuplicateName    = isErrorFunc(DuplicateNameError)

	maskAny = errors.WithStack
)

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
