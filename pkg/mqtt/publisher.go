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

package mqtt

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	mqttapi "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/events"
	"github.com/group12/iotserver/pkg/metrics"
)

const (
	subSystem = "mqtt"

	defaultClientID = "iotserver"

	publishTimeout = time.Millisecond * 200
	payloadOn      = "ON"
	payloadOff     = "OFF"
)

var (
	publishedTotal = metrics.MustRegisterCounterVec(subSystem,
		"published_total",
		"Total number of published LED state messages",
		"result")
)

// Config of the MQTT state publisher.
type Config struct {
	// Address (host:port) of the broker. Empty disables publishing.
	BrokerAddress string
	// Prefix of all published topics
	TopicPrefix string
	// Client ID used to connect to the broker
	ClientID string
}

// EventSource delivers LED changes.
type EventSource interface {
	RegisterLEDChangedReceiver(cb func(events.LEDChanged) error) context.CancelFunc
}

// LogSink accepts additional log outputs.
type LogSink interface {
	Add(w io.Writer)
}

// Publisher mirrors LED state onto MQTT topics.
// Publishing is best effort: failures are logged only.
type Publisher struct {
	Config
	log     zerolog.Logger
	source  EventSource
	logSink LogSink
	logs    *LogWriter
}

// client is the part of the paho client used to publish.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqttapi.Token
}

// NewPublisher creates a publisher of LED changes from the given source.
func NewPublisher(cfg Config, log zerolog.Logger, source EventSource) *Publisher {
	return &Publisher{
		Config: cfg,
		log:    log.With().Str("component", "mqtt").Logger(),
		source: source,
	}
}

// ShipLogs adds a log writer to the given sink once connected to the broker,
// so log lines are published on the log topic.
func (p *Publisher) ShipLogs(sink LogSink) {
	p.logSink = sink
	p.logs = NewLogWriter()
}

// Run connects to the broker and publishes LED changes until the given context is canceled.
func (p *Publisher) Run(ctx context.Context) error {
	if p.BrokerAddress == "" {
		p.log.Debug().Msg("MQTT publishing disabled")
		return nil
	}
	opts := mqttapi.NewClientOptions().
		AddBroker("tcp://" + p.BrokerAddress).
		SetClientID(p.ClientID)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(5 * time.Second)
	opts.SetOrderMatters(false)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetOnConnectHandler(func(c mqttapi.Client) {
		p.log.Info().Str("broker", p.BrokerAddress).Msg("Connected to MQTT")
	})
	opts.SetConnectionLostHandler(func(c mqttapi.Client, err error) {
		p.log.Warn().Err(err).Msg("Lost connection to MQTT")
	})

	c := mqttapi.NewClient(opts)
	// With connect retry enabled, the token only completes once connected.
	token := c.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return errors.Wrap(err, "failed to connect to mqtt")
		}
	case <-ctx.Done():
		c.Disconnect(0)
		return nil
	}
	defer c.Disconnect(250)

	if p.logSink != nil {
		p.logSink.Add(p.logs)
		go p.logs.run(ctx, c, LogTopic(p.TopicPrefix))
		p.log.Debug().Str("topic", LogTopic(p.TopicPrefix)).Msg("Shipping logs to MQTT")
	}

	cancel := p.source.RegisterLEDChangedReceiver(func(x events.LEDChanged) error {
		return p.publish(c, x)
	})
	defer cancel()

	<-ctx.Done()
	return nil
}

// publish a single LED change.
func (p *Publisher) publish(c client, x events.LEDChanged) error {
	topic := StateTopic(p.TopicPrefix, x.Color)
	payload := FormatState(x.On)
	token := c.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		publishedTotal.WithLabelValues("timeout").Inc()
		return fmt.Errorf("failed to deliver '%s' to '%s' in time", payload, topic)
	}
	if err := token.Error(); err != nil {
		publishedTotal.WithLabelValues("error").Inc()
		return errors.Wrapf(err, "failed to publish to '%s'", topic)
	}
	publishedTotal.WithLabelValues("ok").Inc()
	return nil
}

// ClientID returns the client ID for the host with given name.
// Without a hostname, a fixed ID is used.
func ClientID(hostname string) string {
	if hostname = strings.TrimSpace(hostname); hostname == "" {
		return defaultClientID
	}
	return defaultClientID + "-" + hostname
}

// StateTopic returns the topic on which the state of the LED with given color is published.
func StateTopic(prefix, color string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("led/%s/state", color)
	}
	return fmt.Sprintf("%s/led/%s/state", prefix, color)
}

// FormatState returns the payload for the given LED state.
func FormatState(on bool) string {
	if on {
		return payloadOn
	}
	return payloadOff
}
