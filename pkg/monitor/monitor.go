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
	"context"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config for the monitoring server.
type Config struct {
	// Host interface to listen on
	Host string
	// Port to listen on. 0 disables the monitoring server.
	Port int
}

// Server exposes metrics, profiling and a health check on a separate port,
// next to the single-connection device server.
type Server struct {
	Config
	log zerolog.Logger
}

// New configures a new monitoring Server.
func New(cfg Config, log zerolog.Logger) *Server {
	return &Server{
		Config: cfg,
		log:    log.With().Str("component", "monitor").Logger(),
	}
}

// Handler builds the HTTP routes of the monitoring server.
func (s *Server) Handler() http.Handler {
	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	router.GET("/health", healthHandler)
	router.GET("/debug/pprof/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	router.GET("/debug/pprof/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	router.GET("/debug/pprof/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	router.GET("/debug/pprof/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	router.GET("/debug/pprof/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	router.GET("/debug/pprof/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	return router
}

// Run the server until the given context is canceled.
func (s *Server) Run(ctx context.Context) error {
	if s.Port == 0 {
		s.log.Debug().Msg("Monitoring disabled")
		return nil
	}
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on address %s", addr)
	}
	httpSrv := http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Debug().Str("address", addr).Msg("Serving monitoring")
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpSrv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("Closing monitoring server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdownCtx)
		return nil
	case err := <-serveErr:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(err, "failed to serve monitoring server")
	}
}

func healthHandler(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
