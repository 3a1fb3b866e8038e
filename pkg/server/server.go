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

package server

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/group12/iotserver/pkg/metrics"
	"github.com/group12/iotserver/pkg/request"
	"github.com/group12/iotserver/pkg/response"
)

const (
	subSystem = "server"
)

var (
	connectionsTotal = metrics.MustRegisterCounter(subSystem,
		"connections_total",
		"Total number of accepted connections")
	transportErrorsTotal = metrics.MustRegisterCounterVec(subSystem,
		"transport_errors_total",
		"Total number of connections abandoned because of transport errors",
		"stage")
	requestDuration = metrics.MustRegisterHistogramVec(subSystem,
		"request_duration_seconds",
		"Time from accepting a connection until it is closed",
		"status")
)

// Config for the HTTP server.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on for HTTP requests
	Port int
}

// Handler turns a raw request into a response.
type Handler interface {
	Handle(ctx context.Context, raw []byte) response.Response
}

// Server serves one connection at a time: accept, read, handle, write, close.
type Server struct {
	Config
	log     zerolog.Logger
	handler Handler
}

// New configures a new Server.
func New(cfg Config, log zerolog.Logger, handler Handler) *Server {
	return &Server{
		Config:  cfg,
		log:     log.With().Str("component", "server").Logger(),
		handler: handler,
	}
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on address %s", addr)
	}
	return s.Serve(ctx, lis)
}

// Serve connections from the given listener until the given context is canceled.
// The listener is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	log := s.log.With().Str("address", lis.Addr().String()).Logger()
	stop := context.AfterFunc(ctx, func() {
		lis.Close()
	})
	defer stop()
	defer lis.Close()

	log.Info().Msg("Serving HTTP")
	for {
		conn, err := lis.Accept()
		if ctx.Err() != nil {
			if conn != nil {
				conn.Close()
			}
			log.Info().Msg("Done serving HTTP")
			return nil
		}
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				log.Warn().Err(err).Msg("Temporary accept failure")
				transportErrorsTotal.WithLabelValues("accept").Inc()
				continue
			}
			return errors.Wrap(err, "accept failed")
		}
		connectionsTotal.Inc()
		s.serveConn(ctx, conn)
	}
}

// serveConn handles a single connection and closes it.
// Transport errors abandon the connection but never stop the server.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	start := time.Now()
	log := s.log.With().Str("remote", conn.RemoteAddr().String()).Logger()
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()
	defer conn.Close()

	log.Debug().Msg("Client connected")
	raw, err := request.Read(bufio.NewReader(conn))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read request")
		transportErrorsTotal.WithLabelValues("read").Inc()
		return
	}
	if ctx.Err() != nil {
		return
	}
	log.Debug().Int("size", len(raw)).Msg("Request read")

	resp := s.handler.Handle(ctx, raw)
	if _, err := conn.Write(resp.Bytes()); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
		transportErrorsTotal.WithLabelValues("write").Inc()
		return
	}
	requestDuration.WithLabelValues(strconv.Itoa(int(resp.Status))).Observe(time.Since(start).Seconds())
}
