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
	"context"

	"github.com/mattn/go-pubsub"
	"github.com/rs/zerolog"
)

// LEDChanged is published every time the value of an LED output is written.
type LEDChanged struct {
	Color string
	On    bool
}

// Hub fans out LED change events to registered receivers.
// Receivers are invoked asynchronously; a slow receiver never blocks the publisher.
type Hub struct {
	log        zerolog.Logger
	ledChanges *pubsub.PubSub
}

// NewHub creates a new event hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:        log.With().Str("component", "events").Logger(),
		ledChanges: pubsub.New(),
	}
}

// PublishLEDChanged sends the given change to all receivers.
func (h *Hub) PublishLEDChanged(color string, on bool) {
	h.ledChanges.Pub(LEDChanged{Color: color, On: on})
}

// RegisterLEDChangedReceiver adds the given callback to the list of receivers.
// Call the returned function to remove the receiver again.
func (h *Hub) RegisterLEDChangedReceiver(cb func(LEDChanged) error) context.CancelFunc {
	wcb := func(x LEDChanged) {
		if err := cb(x); err != nil {
			h.log.Warn().Err(err).Str("color", x.Color).Msg("LED change processing error")
		}
	}
	h.ledChanges.Sub(wcb)
	return func() {
		h.ledChanges.Leave(wcb)
	}
}
