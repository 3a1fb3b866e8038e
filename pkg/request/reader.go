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

package request

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

var (
	// TransportInterruptedError is returned when the stream fails before the end of the header block.
	TransportInterruptedError = errors.New("transport interrupted")
	IsTransportInterrupted    = isErrorFunc(TransportInterruptedError)
)

var endOfHeaders = []byte("\r\n")

// Read consumes one HTTP request header block from the given reader, one line at a time.
// It returns every byte read up to and including the first empty line,
// or whatever was received when the stream closes first.
// When the stream closes before any data arrived, the result is empty.
//
// There is no bound on the length of lines or on the number of lines.
func Read(r *bufio.Reader) ([]byte, error) {
	var raw []byte
	for {
		line, err := r.ReadBytes('\n')
		raw = append(raw, line...)
		if err == io.EOF {
			// Stream closed
			return raw, nil
		} else if err != nil {
			return raw, errors.Wrapf(TransportInterruptedError, "read failed after %d bytes: %v", len(raw), err)
		}
		if len(line) == 0 || bytes.Equal(line, endOfHeaders) {
			return raw, nil
		}
	}
}

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
