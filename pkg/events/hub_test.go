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

package events

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestLEDChangedFanOut(t *testing.T) {
	h := NewHub(zerolog.Nop())
	received := make(chan LEDChanged, 4)
	cancel := h.RegisterLEDChangedReceiver(func(x LEDChanged) error {
		received <- x
		return nil
	})
	defer cancel()

	h.PublishLEDChanged("red", true)
	select {
	case x := <-received:
		if x.Color != "red" || !x.On {
			t.Errorf("unexpected event %+v", x)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}
