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

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultTimeout = 5 * time.Second
)

// StatusError is returned when the server replies with a status other than 200.
type StatusError struct {
	Code int
}

// Error implements error.
func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// IsStatusError returns true when the cause of the given error is a
// StatusError with given code.
func IsStatusError(err error, code int) bool {
	var se StatusError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// Reading is a single value returned by /sensor/<name> or /pin/<name>.
type Reading struct {
	Name  string  `json:"sensor"`
	Value float64 `json:"data"`
}

// Client talks to an iotserver over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at the given base URL (e.g. http://192.168.4.1).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Temperature returns the current value of the temperature sensor.
func (c *Client) Temperature(ctx context.Context) (float64, error) {
	r, err := c.Sensor(ctx, "temperature")
	if err != nil {
		return 0, err
	}
	return r.Value, nil
}

// Sensor performs a fresh read of the sensor with given name.
func (c *Client) Sensor(ctx context.Context, name string) (Reading, error) {
	var r Reading
	if err := c.getJSON(ctx, "/sensor/"+url.PathEscape(name), &r); err != nil {
		return Reading{}, err
	}
	return r, nil
}

// Pin returns the value of the input pin with given name.
func (c *Client) Pin(ctx context.Context, name string) (bool, error) {
	var r Reading
	if err := c.getJSON(ctx, "/pin/"+url.PathEscape(name), &r); err != nil {
		return false, err
	}
	return r.Value != 0, nil
}

// Pins returns the names of all input pins.
func (c *Client) Pins(ctx context.Context) ([]string, error) {
	var result struct {
		Pins []string `json:"pins"`
	}
	if err := c.getJSON(ctx, "/pins", &result); err != nil {
		return nil, err
	}
	return result.Pins, nil
}

// Sensors returns the names of all sensors.
func (c *Client) Sensors(ctx context.Context) ([]string, error) {
	var result struct {
		Sensors []string `json:"sensors"`
	}
	if err := c.getJSON(ctx, "/sensors", &result); err != nil {
		return nil, err
	}
	return result.Sensors, nil
}

// LED sends an LED command.
// An empty color addresses all LEDs, an empty state toggles.
func (c *Client) LED(ctx context.Context, color, state string) error {
	var params []string
	if color != "" {
		params = append(params, "color="+url.QueryEscape(color))
	}
	if state != "" {
		params = append(params, "state="+url.QueryEscape(state))
	}
	_, err := c.get(ctx, "/led?"+strings.Join(params, "&"))
	return err
}

// Site returns the HTML status page.
func (c *Client) Site(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return errors.Wrapf(err, "failed to decode response of %s", path)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s failed", path)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response of %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.WithStack(StatusError{Code: resp.StatusCode})
	}
	return body, nil
}
