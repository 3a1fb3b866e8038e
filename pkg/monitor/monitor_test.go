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

package monitor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestRoutes(t *testing.T) {
	h := New(Config{}, zerolog.Nop()).Handler()
	tests := []struct {
		Path     string
		Status   int
		Contains string
	}{
		{"/health", http.StatusOK, "OK"},
		{"/metrics", http.StatusOK, "go_goroutines"},
		{"/debug/pprof/", http.StatusOK, "goroutine"},
		{"/unknown", http.StatusNotFound, ""},
	}
	for _, test := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, test.Path, nil))
		if rec.Code != test.Status {
			t.Errorf("%s: got status %d, want %d", test.Path, rec.Code, test.Status)
		}
		if !strings.Contains(rec.Body.String(), test.Contains) {
			t.Errorf("%s: body does not contain %q", test.Path, test.Contains)
		}
	}
}
