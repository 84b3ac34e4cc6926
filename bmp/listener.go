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

package bmp

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	telemetry "github.com/flowbeam/go-telemetry"
)

var (
	TCPActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bmp_listener_active_connections_total",
		Help: "Total number of active connections currently maintained by the BMP listener",
	})
	TCPReceivedBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bmp_listener_received_bytes",
		Help: "Total number of bytes read in the BMP listener",
	})
)

var (
	// TCPChannelBufferSize is the capacity of the decoded message channel.
	TCPChannelBufferSize int = 10

	// readBufferSize is the size of the per-connection socket read buffer.
	readBufferSize = 64 * 1024
)

// TCPListener accepts connections from monitored routers and decodes each
// connection's byte stream with its own Codec. A router's session state
// (peer capability context, partial frames) never leaks across connections.
type TCPListener struct {
	bindAddr  string
	messageCh chan Message

	addr     *net.TCPAddr
	listener *net.TCPListener
}

func NewListener(bindAddr string) *TCPListener {
	return &TCPListener{
		bindAddr:  bindAddr,
		messageCh: make(chan Message, TCPChannelBufferSize),
	}
}

// Messages is the stream of decoded BMP messages across all connections.
func (l *TCPListener) Messages() <-chan Message {
	return l.messageCh
}

func (l *TCPListener) Listen(ctx context.Context) (err error) {
	logger := telemetry.FromContext(ctx)

	l.addr, err = net.ResolveTCPAddr("tcp", l.bindAddr)
	if err != nil {
		return err
	}
	l.listener, err = net.ListenTCP("tcp", l.addr)
	if err != nil {
		return err
	}
	defer l.listener.Close()

	go func() {
		for {
			conn, err := l.listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				ErrorsTotal.Inc()
				logger.Error(err, "failed to accept TCP connection", "addr", l.addr)
				continue
			}
			go l.handle(ctx, conn)
		}
	}()

	logger.Info("Started BMP listener", "addr", l.bindAddr)

	<-ctx.Done()
	logger.Info("Shutting down BMP listener", "addr", l.addr)
	return nil
}

// handle reads one connection until EOF or context cancellation. Decode
// errors are logged and counted but do not tear down the connection: the
// codec has already resynchronized the stream.
func (l *TCPListener) handle(ctx context.Context, conn net.Conn) {
	logger := telemetry.FromContext(ctx, "remote_addr", conn.RemoteAddr().String())

	TCPActiveConnections.Inc()
	defer TCPActiveConnections.Dec()
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	codec := NewCodec()
	buf := &bytes.Buffer{}
	chunk := make([]byte, readBufferSize)

	logger.V(3).Info("starting new session from TCP connection")

	for {
		n, err := conn.Read(chunk)
		if n > 0 {
			TCPReceivedBytes.Add(float64(n))
			buf.Write(chunk[:n])
			l.drain(ctx, logger, codec, buf)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.V(1).Info("connection closed by remote")
			} else if ctx.Err() == nil {
				ErrorsTotal.Inc()
				logger.Error(err, "failed to read from BMP connection")
			}
			return
		}
	}
}

// drain decodes every complete frame currently buffered.
func (l *TCPListener) drain(ctx context.Context, logger logr.Logger, codec *Codec, buf *bytes.Buffer) {
	for {
		start := time.Now()
		msg, err := codec.Decode(buf)
		if err != nil {
			ErrorsTotal.Inc()
			logger.Error(err, "failed to decode BMP message")
			continue
		}
		if msg == nil {
			return
		}
		MessagesTotal.WithLabelValues(msg.Type().String()).Inc()
		DurationMicroseconds.Observe(float64(time.Since(start).Microseconds()))
		TrackedPeers.Set(float64(len(codec.ctx)))

		select {
		case l.messageCh <- msg:
		case <-ctx.Done():
			return
		}
	}
}
