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
	"fmt"
	"io"

	"github.com/flowbeam/go-telemetry/bgp"
)

// RouteMonitoringMessage carries BGP Update messages replayed from the
// monitored session. The updates are decoded against the capability context
// established by the peer's Peer Up message, which is what makes add-path
// and multi-label prefixes parse correctly.
type RouteMonitoringMessage struct {
	PeerHeader PeerHeader
	Updates    []*bgp.UpdateMessage
}

func (*RouteMonitoringMessage) Type() MessageType { return TypeRouteMonitoring }

func (m *RouteMonitoringMessage) Len() int {
	n := commonHeaderLength + peerHeaderLength
	for _, u := range m.Updates {
		n += u.Len()
	}
	return n
}

func (m *RouteMonitoringMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypeRouteMonitoring); err != nil {
		return cw.n, err
	}
	if err := m.PeerHeader.encode(cw); err != nil {
		return cw.n, err
	}
	for _, u := range m.Updates {
		if _, err := u.Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeRouteMonitoring(b *bytes.Buffer, ctx *bgp.Context) (*RouteMonitoringMessage, error) {
	h, err := decodePeerHeader(b)
	if err != nil {
		return nil, err
	}
	m := &RouteMonitoringMessage{PeerHeader: h}
	for b.Len() > 0 {
		msg, err := bgp.Decode(b, ctx)
		if err != nil {
			return nil, fmt.Errorf("route monitoring update: %w", err)
		}
		update, ok := msg.(*bgp.UpdateMessage)
		if !ok {
			return nil, fmt.Errorf("%w: %s in route monitoring", ErrUnexpectedMessage, msg.Type())
		}
		m.Updates = append(m.Updates, update)
	}
	return m, nil
}

// StatisticsCounter is one statistics TLV. Values stay opaque: counter
// semantics differ per type and new types appear without a format change.
type StatisticsCounter struct {
	CounterType uint16
	Value       []byte
}

// StatisticsReportMessage carries per-peer counters (RFC 7854, Section 4.8).
type StatisticsReportMessage struct {
	PeerHeader PeerHeader
	Counters   []StatisticsCounter
}

func (*StatisticsReportMessage) Type() MessageType { return TypeStatisticsReport }

func (m *StatisticsReportMessage) Len() int {
	// 4-octet stats count precedes the TLVs
	n := commonHeaderLength + peerHeaderLength + 4
	for i := range m.Counters {
		n += 4 + len(m.Counters[i].Value)
	}
	return n
}

func (m *StatisticsReportMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypeStatisticsReport); err != nil {
		return cw.n, err
	}
	if err := m.PeerHeader.encode(cw); err != nil {
		return cw.n, err
	}
	if err := writeUint32(cw, uint32(len(m.Counters))); err != nil {
		return cw.n, err
	}
	for i := range m.Counters {
		c := &m.Counters[i]
		if err := writeUint16(cw, c.CounterType); err != nil {
			return cw.n, err
		}
		if err := writeUint16(cw, uint16(len(c.Value))); err != nil {
			return cw.n, err
		}
		if _, err := cw.Write(c.Value); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeStatisticsReport(b *bytes.Buffer) (*StatisticsReportMessage, error) {
	h, err := decodePeerHeader(b)
	if err != nil {
		return nil, err
	}
	m := &StatisticsReportMessage{PeerHeader: h}
	count, err := readUint32(b)
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		var c StatisticsCounter
		if c.CounterType, err = readUint16(b); err != nil {
			return nil, err
		}
		length, err := readUint16(b)
		if err != nil {
			return nil, err
		}
		value, err := take(b, int(length))
		if err != nil {
			return nil, err
		}
		c.Value = append([]byte(nil), value...)
		m.Counters = append(m.Counters, c)
	}
	return m, nil
}

// RouteMirroringValue is one mirroring TLV; the payload stays opaque since
// mirrored BGP messages are verbatim wire bytes that may be malformed on
// purpose (that is what mirroring is for).
type RouteMirroringValue struct {
	ValueType uint16
	Value     []byte
}

// RouteMirroringMessage carries verbatim duplicates of messages received
// from the monitored peer (RFC 7854, Section 4.7).
type RouteMirroringMessage struct {
	PeerHeader PeerHeader
	Values     []RouteMirroringValue
}

func (*RouteMirroringMessage) Type() MessageType { return TypeRouteMirroring }

func (m *RouteMirroringMessage) Len() int {
	n := commonHeaderLength + peerHeaderLength
	for i := range m.Values {
		n += 4 + len(m.Values[i].Value)
	}
	return n
}

func (m *RouteMirroringMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypeRouteMirroring); err != nil {
		return cw.n, err
	}
	if err := m.PeerHeader.encode(cw); err != nil {
		return cw.n, err
	}
	for i := range m.Values {
		v := &m.Values[i]
		if err := writeUint16(cw, v.ValueType); err != nil {
			return cw.n, err
		}
		if err := writeUint16(cw, uint16(len(v.Value))); err != nil {
			return cw.n, err
		}
		if _, err := cw.Write(v.Value); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeRouteMirroring(b *bytes.Buffer) (*RouteMirroringMessage, error) {
	h, err := decodePeerHeader(b)
	if err != nil {
		return nil, err
	}
	m := &RouteMirroringMessage{PeerHeader: h}
	for b.Len() > 0 {
		var v RouteMirroringValue
		if v.ValueType, err = readUint16(b); err != nil {
			return nil, err
		}
		length, err := readUint16(b)
		if err != nil {
			return nil, err
		}
		value, err := take(b, int(length))
		if err != nil {
			return nil, err
		}
		v.Value = append([]byte(nil), value...)
		m.Values = append(m.Values, v)
	}
	return m, nil
}
