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
	"bytes"
	"fmt"
)

// Status of a response.
type Status int

const (
	StatusOK                  Status = 200
	StatusBadRequest          Status = 400
	StatusNotFound            Status = 404
	StatusInternalServerError Status = 500
)

const (
	ContentTypeHTML = "text/html"
	ContentTypeJSON = "application/json"

	crlf = "\r\n"
)

// Text returns the reason phrase of the status, as written on the status line.
func (s Status) Text() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusBadRequest:
		return "BAD REQUEST"
	case StatusNotFound:
		return "NOT FOUND"
	case StatusInternalServerError:
		return "INTERNAL SERVER ERROR"
	default:
		return "UNKNOWN"
	}
}

// Response is a fully built reply, ready to be written to the client.
type Response struct {
	Status      Status
	ContentType string
	Body        []byte
}

// OK creates a 200 response with given content type and body.
func OK(contentType string, body []byte) Response {
	return Response{Status: StatusOK, ContentType: contentType, Body: body}
}

// BadRequest creates a 400 response without body.
func BadRequest() Response {
	return Response{Status: StatusBadRequest}
}

// NotFound creates a 404 response without body.
func NotFound() Response {
	return Response{Status: StatusNotFound}
}

// InternalServerError creates a 500 response without body.
func InternalServerError() Response {
	return Response{Status: StatusInternalServerError}
}

// Bytes encodes the response in wire format:
// status line, content type (success only), blank line, body, CRLF.
func (r Response) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "HTTP/1.1 %d %s%s", int(r.Status), r.Status.Text(), crlf)
	if r.Status == StatusOK && r.ContentType != "" {
		fmt.Fprintf(&buf, "Content-Type: %s%s", r.ContentType, crlf)
	}
	buf.WriteString(crlf)
	buf.Write(r.Body)
	buf.WriteString(crlf)
	return buf.Bytes()
}
