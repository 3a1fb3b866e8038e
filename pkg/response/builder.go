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

package response

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/registry"
)

const (
	// Placeholder in the site template that is replaced by the table rows.
	rowsPlaceholder = "%s"

	pinOnColor    = "green"
	pinOffColor   = "red"
	sensorBgColor = "yellow"
)

//go:embed index.html
var defaultTemplate string

// Builder renders HTML and JSON responses.
type Builder struct {
	log          zerolog.Logger
	templatePath string

	templateOnce sync.Once
	template     string
	templateErr  error
}

// NewBuilder creates a new response builder.
// If templatePath is empty, the embedded site template is used.
// The template is loaded on first use and then kept for the lifetime of the builder.
func NewBuilder(log zerolog.Logger, templatePath string) *Builder {
	return &Builder{
		log:          log.With().Str("component", "response").Logger(),
		templatePath: templatePath,
	}
}

// loadTemplate returns the cached site template, loading it on first call.
func (b *Builder) loadTemplate() (string, error) {
	b.templateOnce.Do(func() {
		if b.templatePath == "" {
			b.template = defaultTemplate
			return
		}
		content, err := os.ReadFile(b.templatePath)
		if err != nil {
			b.log.Error().Err(err).Str("path", b.templatePath).Msg("Failed to load site template")
			b.templateErr = errors.Wrapf(err, "failed to read template '%s'", b.templatePath)
			return
		}
		b.log.Debug().Str("path", b.templatePath).Int("size", len(content)).Msg("Loaded site template")
		b.template = string(content)
	})
	return b.template, b.templateErr
}

// Site renders the HTML status page of all pins and sensors in the given registry.
func (b *Builder) Site(ctx context.Context, reg *registry.Registry) (Response, error) {
	tpl, err := b.loadTemplate()
	if err != nil {
		return Response{}, err
	}
	rows, err := Rows(ctx, reg)
	if err != nil {
		return Response{}, err
	}
	body := strings.Replace(tpl, rowsPlaceholder, strings.Join(rows, "\n"), 1)
	return OK(ContentTypeHTML, []byte(body)), nil
}

// Rows builds one table row per pin (inputs and LEDs) followed by one
// row per sensor, each group in registry order.
func Rows(ctx context.Context, reg *registry.Registry) ([]string, error) {
	var pins, sensors []string
	for _, e := range reg.Entries() {
		switch e.Kind {
		case registry.KindInput, registry.KindOutput:
			value, err := e.ReadPin()
			if err != nil {
				return nil, errors.Wrapf(err, "failed to read pin '%s'", e.Name)
			}
			bg, digit := pinOffColor, 0
			if value {
				bg, digit = pinOnColor, 1
			}
			pins = append(pins, fmt.Sprintf(`<tr><td>%s</td><td bgcolor="%s">%d</td></tr>`, e.Name, bg, digit))
		case registry.KindSensor:
			value, err := reg.ReadSensor(ctx, e.Name)
			if err != nil {
				return nil, err
			}
			sensors = append(sensors, fmt.Sprintf(`<tr><td>%s</td><td bgcolor="%s">%s</td></tr>`, e.Name, sensorBgColor, FormatFloat(value)))
		}
	}
	return append(pins, sensors...), nil
}

// JSON renders the given mapping as JSON body.
func (b *Builder) JSON(values map[string]interface{}) (Response, error) {
	encoded, err := json.Marshal(values)
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to encode JSON")
	}
	return OK(ContentTypeJSON, encoded), nil
}

// FormatFloat formats a sensor value with the shortest representation
// that round-trips.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
