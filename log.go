/*
Copyright 2024 The go-telemetry Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package telemetry

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
)

// Log is the root logger used by all subpackages. It discards everything
// until SetLogger is called with a real sink.
var (
	logMu sync.RWMutex
	log   = logr.New(nullLogSink{})
)

// SetLogger installs the logger backing Log. Library consumers wire their
// logging framework of choice through a logr adapter here; the codecs never
// construct sinks themselves.
func SetLogger(l logr.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	log = l
}

// Logger returns the current root logger.
func Logger() logr.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return log
}

// FromContext returns the logger embedded in ctx, or the root logger when
// none is present, with keysAndValues appended.
func FromContext(ctx context.Context, keysAndValues ...interface{}) logr.Logger {
	l := Logger()
	if ctx != nil {
		if ctxLog, err := logr.FromContext(ctx); err == nil {
			l = ctxLog
		}
	}
	return l.WithValues(keysAndValues...)
}

// IntoContext embeds l into ctx for retrieval with FromContext.
func IntoContext(ctx context.Context, l logr.Logger) context.Context {
	return logr.NewContext(ctx, l)
}

type nullLogSink struct{}

var _ logr.LogSink = nullLogSink{}

func (nullLogSink) Init(logr.RuntimeInfo) {}

func (nullLogSink) Info(_ int, _ string, _ ...interface{}) {}

func (nullLogSink) Error(_ error, _ string, _ ...interface{}) {}

func (nullLogSink) Enabled(_ int) bool { return false }

func (s nullLogSink) WithName(_ string) logr.LogSink { return s }

func (s nullLogSink) WithValues(_ ...interface{}) logr.LogSink { return s }
