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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/group12/iotserver/pkg/metrics"
)

const (
	logQueueSize     = 512
	logWriteAttempts = 10
)

var (
	logQueueLength = metrics.MustRegisterGauge(subSystem,
		"log_queue_length",
		"Number of log lines waiting to be published")
	logDroppedTotal = metrics.MustRegisterCounter(subSystem,
		"log_dropped_total",
		"Total number of log lines that were not published")
)

// LogWriter queues log output for publication on the log topic.
// Writes never block. When the queue is full, the oldest lines are dropped.
type LogWriter struct {
	queue chan []byte
}

type logMsg struct {
	Message string `json:"message"`
}

// NewLogWriter creates an empty log queue.
func NewLogWriter() *LogWriter {
	return newLogWriter(logQueueSize)
}

func newLogWriter(size int) *LogWriter {
	return &LogWriter{
		queue: make(chan []byte, size),
	}
}

// Write queues a copy of the given log line.
func (l *LogWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	line := append([]byte(nil), p...)
	for attempt := 0; attempt < logWriteAttempts; attempt++ {
		select {
		case l.queue <- line:
			logQueueLength.Set(float64(len(l.queue)))
			return len(p), nil
		default:
			// Queue full; take the oldest out and try again
			select {
			case <-l.queue:
				logDroppedTotal.Inc()
			default:
			}
		}
	}
	logDroppedTotal.Inc()
	return len(p), nil
}

// run publishes queued log lines to the given topic until the context is canceled.
// Failures are counted, not logged, since logging would feed the queue again.
func (l *LogWriter) run(ctx context.Context, c client, topic string) {
	for {
		select {
		case line := <-l.queue:
			logQueueLength.Set(float64(len(l.queue)))
			if err := publishLog(c, topic, line); err != nil {
				logDroppedTotal.Inc()
			}
		case <-ctx.Done():
			return
		}
	}
}

// publishLog sends a single log line.
func publishLog(c client, topic string, line []byte) error {
	payload, err := json.Marshal(logMsg{Message: strings.TrimRight(string(line), "\r\n")})
	if err != nil {
		return err
	}
	token := c.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("failed to deliver log line to '%s' in time", topic)
	}
	return token.Error()
}

// LogTopic returns the topic on which log lines are published.
func LogTopic(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return "log"
	}
	return prefix + "/log"
}
