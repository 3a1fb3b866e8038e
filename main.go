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
	"strings"

	"github.com/pkg/errors"
	terminate "github.com/pulcy/go-terminate"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/group12/iotserver/pkg/bridge"
	"github.com/group12/iotserver/pkg/devices"
	"github.com/group12/iotserver/pkg/environment"
	"github.com/group12/iotserver/pkg/events"
	"github.com/group12/iotserver/pkg/logging"
	"github.com/group12/iotserver/pkg/monitor"
	"github.com/group12/iotserver/pkg/mqtt"
	"github.com/group12/iotserver/pkg/response"
	"github.com/group12/iotserver/pkg/router"
	"github.com/group12/iotserver/pkg/server"
)

const (
	projectName        = "IoT Server"
	defaultServerPort  = 80
	defaultMonitorPort = 9100
	defaultI2CBus      = "1"
	defaultTopicPrefix = "iotserver"
)

var (
	projectVersion = "dev"
	projectBuild   = "dev"
	maskAny        = errors.WithStack
)

func main() {
	var levelFlag string
	var serverHost string
	var serverPort int
	var monitorPort int
	var bridgeType string
	var i2cBus string
	var templatePath string
	var logFile string
	var mqttBroker string
	var mqttTopicPrefix string

	pflag.StringVarP(&levelFlag, "level", "l", "info", "Set log level")
	pflag.StringVarP(&bridgeType, "bridge", "b", "", "Type of bridge to use ("+strings.Join(environment.BridgeTypes, "|")+"), detected when empty")
	pflag.StringVar(&i2cBus, "i2c-bus", defaultI2CBus, "Name of the I2C bus used by the periph bridge")
	pflag.StringVar(&serverHost, "host", "0.0.0.0", "Host address the HTTP server will listen on")
	pflag.IntVar(&serverPort, "port", defaultServerPort, "Port the HTTP server will listen on")
	pflag.IntVar(&monitorPort, "monitor-port", defaultMonitorPort, "Port of the metrics & health server (0 to disable)")
	pflag.StringVar(&templatePath, "template", "", "Path of the HTML site template (embedded template when empty)")
	pflag.StringVar(&logFile, "log-file", "", "Path of a file to append logs to")
	pflag.StringVar(&mqttBroker, "mqtt-broker", "", "Address (host:port) of an MQTT broker to publish LED state to")
	pflag.StringVar(&mqttTopicPrefix, "mqtt-topic-prefix", defaultTopicPrefix, "Prefix of published MQTT topics")
	pflag.Parse()

	logOutput := logging.NewMultiWriter(os.Stderr)
	if logFile != "" {
		f, err := logging.OpenLogFile(logFile)
		if err != nil {
			Exitf("%v\n", err)
		}
		defer f.Close()
		logOutput.Add(f)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: logOutput}).With().Timestamp().Logger()
	level, err := logging.ParseLevel(levelFlag)
	if err != nil {
		logger.Warn().Err(err).Msg("Using default log level")
	}
	logger = logger.Level(level)

	if bridgeType == "" {
		bridgeType = environment.AutoDetectBridgeType(logger)
	}
	br, err := newBridge(bridgeType, i2cBus)
	if err != nil {
		Exitf("Failed to initialize %s bridge: %v\n", bridgeType, err)
	}
	defer br.Close()

	// Prepare to shutdown in a controlled manor
	ctx, cancel := context.WithCancel(context.Background())
	t := terminate.NewTerminator(func(template string, args ...interface{}) {
		logger.Info().Msgf(template, args...)
	}, cancel)
	go t.ListenSignals()

	reg, err := devices.DefaultBoard.BuildRegistry(ctx, br, logger)
	if err != nil {
		Exitf("Failed to configure board: %v\n", err)
	}
	hub := events.NewHub(logger)
	reg.SetPublisher(hub)

	builder := response.NewBuilder(logger, templatePath)
	httpServer := server.New(server.Config{
		Host: serverHost,
		Port: serverPort,
	}, logger, router.New(logger, reg, builder))
	monitorServer := monitor.New(monitor.Config{
		Host: serverHost,
		Port: monitorPort,
	}, logger)
	hostname, err := os.Hostname()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to get hostname")
	}
	publisher := mqtt.NewPublisher(mqtt.Config{
		BrokerAddress: mqttBroker,
		TopicPrefix:   mqttTopicPrefix,
		ClientID:      mqtt.ClientID(hostname),
	}, logger, hub)
	if mqttBroker != "" {
		publisher.ShipLogs(logOutput)
	}

	logger.Info().
		Str("bridge", bridgeType).
		Strs("inputs", reg.InputNames()).
		Strs("sensors", reg.SensorNames()).
		Strs("leds", reg.ColorNames()).
		Msgf("Starting %s (version %s build %s)", projectName, projectVersion, projectBuild)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(ctx) })
	g.Go(func() error { return monitorServer.Run(ctx) })
	g.Go(func() error { return publisher.Run(ctx) })
	if err := g.Wait(); err != nil {
		Exitf("Server run failed: %+v\n", err)
	}
}

// newBridge creates the hardware bridge of given type.
func newBridge(bridgeType, i2cBus string) (bridge.API, error) {
	switch bridgeType {
	case environment.BridgeRaspberryPi:
		br, err := bridge.NewRaspberryPiBridge()
		return br, maskAny(err)
	case environment.BridgePeriph:
		br, err := bridge.NewPeriphBridge(i2cBus)
		return br, maskAny(err)
	case environment.BridgeVirtual:
		return bridge.NewVirtualBridge(), nil
	default:
		return nil, errors.Errorf("unknown bridge type '%s' (%s)", bridgeType, strings.Join(environment.BridgeTypes, "|"))
	}
}

// Print the given error message and exit with code 1
func Exitf(message string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, message, args...)
	os.Exit(1)
}
