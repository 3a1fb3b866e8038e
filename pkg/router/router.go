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

package router

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/ledcmd"
	"github.com/group12/iotserver/pkg/metrics"
	"github.com/group12/iotserver/pkg/registry"
	"github.com/group12/iotserver/pkg/response"
)

const (
	subSystem = "router"

	pathSite    = "/"
	pathPins    = "/pins"
	pathSensors = "/sensors"

	prefixSensor = "/sensor/"
	prefixPin    = "/pin/"
	prefixLED    = "/led"

	ledOKBody = "OK"
)

var (
	// MalformedRequestError is returned when the request line cannot be decoded.
	MalformedRequestError = errors.New("malformed request")
	IsMalformedRequest    = isErrorFunc(MalformedRequestError)
	// UnroutableRequestError is returned when no route matches the path.
	UnroutableRequestError = errors.New("unroutable request")
	IsUnroutableRequest    = isErrorFunc(UnroutableRequestError)

	requestsTotal = metrics.MustRegisterCounterVec(subSystem,
		"requests_total",
		"Total number of handled requests",
		"route", "status")
)

// Router maps a raw request onto an operation of the peripheral registry
// and builds the response for it.
type Router struct {
	log     zerolog.Logger
	reg     *registry.Registry
	builder *response.Builder
}

// New creates a router for the given registry.
func New(log zerolog.Logger, reg *registry.Registry, builder *response.Builder) *Router {
	return &Router{
		log:     log.With().Str("component", "router").Logger(),
		reg:     reg,
		builder: builder,
	}
}

// Handle the given raw request and return a complete response.
// An empty request is served as the site view.
func (r *Router) Handle(ctx context.Context, raw []byte) response.Response {
	path, err := RequestPath(raw)
	if err != nil {
		r.log.Debug().Err(err).Msg("Malformed request")
		return r.done("malformed", path, response.BadRequest())
	}
	route, resp, err := r.route(ctx, path)
	switch {
	case err == nil:
		// Done
	case IsUnroutableRequest(err):
		r.log.Debug().Str("path", path).Msg("No route for path")
		resp = response.NotFound()
	case registry.IsUnknownPeripheral(err), ledcmd.IsMalformedCommand(err):
		r.log.Debug().Err(err).Str("path", path).Msg("Rejected request")
		resp = response.BadRequest()
	default:
		r.log.Error().Err(err).Str("path", path).Msg("Failed to handle request")
		resp = response.InternalServerError()
	}
	return r.done(route, path, resp)
}

func (r *Router) done(route, path string, resp response.Response) response.Response {
	status := strconv.Itoa(int(resp.Status))
	requestsTotal.WithLabelValues(route, status).Inc()
	r.log.Info().
		Str("route", route).
		Str("path", path).
		Int("status", int(resp.Status)).
		Msg("Handled request")
	return resp
}

// route dispatches the path. It returns the name of the matched route (used as metric label).
func (r *Router) route(ctx context.Context, path string) (string, response.Response, error) {
	switch {
	case path == pathSite:
		resp, err := r.builder.Site(ctx, r.reg)
		return "site", resp, err
	case path == pathPins:
		resp, err := r.builder.JSON(map[string]interface{}{"pins": r.reg.InputNames()})
		return "pins", resp, err
	case path == pathSensors:
		resp, err := r.builder.JSON(map[string]interface{}{"sensors": r.reg.SensorNames()})
		return "sensors", resp, err
	case strings.HasPrefix(path, prefixSensor):
		resp, err := r.sensor(ctx, strings.TrimPrefix(path, prefixSensor))
		return "sensor", resp, err
	case strings.HasPrefix(path, prefixPin):
		resp, err := r.pin(strings.TrimPrefix(path, prefixPin))
		return "pin", resp, err
	case strings.HasPrefix(path, prefixLED):
		resp, err := r.led(strings.TrimPrefix(path, prefixLED))
		return "led", resp, err
	default:
		return "unknown", response.Response{}, errors.Wrapf(UnroutableRequestError, "path '%s'", path)
	}
}

// sensor performs a fresh read of the sensor with given name.
func (r *Router) sensor(ctx context.Context, name string) (response.Response, error) {
	value, err := r.reg.ReadSensor(ctx, name)
	if err != nil {
		return response.Response{}, err
	}
	return r.builder.JSON(map[string]interface{}{"sensor": name, "data": value})
}

// pin reads the input pin with given name.
// The value is reported as 0 or 1 under the "sensor" key.
func (r *Router) pin(name string) (response.Response, error) {
	value, err := r.reg.ReadInput(name)
	if err != nil {
		return response.Response{}, err
	}
	data := 0
	if value {
		data = 1
	}
	return r.builder.JSON(map[string]interface{}{"sensor": name, "data": data})
}

// led parses and applies an LED command.
// Nothing is changed unless the whole query is valid.
func (r *Router) led(query string) (response.Response, error) {
	cmd, err := ledcmd.Parse(query, r.reg)
	if err != nil {
		return response.Response{}, err
	}
	if err := cmd.Apply(r.reg); err != nil {
		return response.Response{}, err
	}
	r.log.Debug().Str("command", cmd.String()).Msg("Applied LED command")
	return response.OK(response.ContentTypeHTML, []byte(ledOKBody)), nil
}

// RequestPath extracts the path from the request line of the given raw request.
// An empty request yields "/".
func RequestPath(raw []byte) (string, error) {
	if len(raw) == 0 {
		return pathSite, nil
	}
	line := raw
	if idx := bytes.IndexByte(raw, '\n'); idx >= 0 {
		line = raw[:idx]
	}
	line = bytes.TrimRight(line, "\r")
	tokens := strings.Split(string(line), " ")
	if len(tokens) < 2 {
		return "", errors.Wrapf(MalformedRequestError, "request line '%s' has no path", string(line))
	}
	return tokens[1], nil
}

func isErrorFunc(typeOfError error) func(err error) bool {
	return func(err error) bool {
		return err == typeOfError || errors.Cause(err) == typeOfError
	}
}
