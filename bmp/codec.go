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
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/flowbeam/go-telemetry/bgp"
)

// Codec is a stateful frame decoder for one BMP byte stream. It splits the
// stream into length-prefixed frames and maintains the per-peer BGP
// capability context that Route Monitoring bodies are decoded against.
//
// A Codec belongs to a single TCP session and is not safe for concurrent
// use; sessions never share peer context.
type Codec struct {
	// inMessage is set while the header of the next frame has been seen but
	// its body has not fully arrived yet.
	inMessage bool

	ctx map[PeerKey]*bgp.Context
}

func NewCodec() *Codec {
	return &Codec{ctx: make(map[PeerKey]*bgp.Context)}
}

// Context returns the capability context tracked for key, nil when no Peer
// Up has been seen for that session.
func (c *Codec) Context(key PeerKey) *bgp.Context {
	return c.ctx[key]
}

// InMessage reports whether the codec has seen the header of a frame whose
// body has not fully arrived yet.
func (c *Codec) InMessage() bool {
	return c.inMessage
}

// Decode consumes at most one frame from b. It returns (nil, nil) when the
// buffered bytes do not yet form a complete frame; the caller appends more
// bytes and calls again. A non-nil error never stalls the stream: the codec
// has already discarded the bytes it blames, so decoding continues at the
// next call.
func (c *Codec) Decode(b *bytes.Buffer) (Message, error) {
	if b.Len() < MinMessageLength {
		return nil, nil
	}
	raw := b.Bytes()
	if raw[0] != Version {
		// no resynchronization pattern exists, skip a single octet
		c.inMessage = false
		b.Next(1)
		return nil, undefinedVersion(raw[0])
	}
	length := int(binary.BigEndian.Uint32(raw[1:5]))
	if length < commonHeaderLength {
		c.inMessage = false
		b.Next(MinMessageLength)
		return nil, invalidMessageLength(uint32(length))
	}
	if b.Len() < length {
		c.inMessage = true
		return nil, nil
	}
	c.inMessage = false
	msg, err := c.decodeBody(MessageType(raw[5]), raw[commonHeaderLength:length])
	if err != nil {
		b.Next(length)
		return nil, err
	}
	b.Next(length)
	c.apply(msg)
	return msg, nil
}

func (c *Codec) decodeBody(t MessageType, body []byte) (Message, error) {
	bb := bytes.NewBuffer(body)
	var (
		msg Message
		err error
	)
	switch t {
	case TypeRouteMonitoring:
		msg, err = c.decodeRouteMonitoringWithContext(bb)
	case TypeStatisticsReport:
		msg, err = decodeStatisticsReport(bb)
	case TypePeerDown:
		msg, err = decodePeerDown(bb)
	case TypePeerUp:
		msg, err = decodePeerUp(bb)
	case TypeInitiation:
		msg, err = decodeInitiation(bb)
	case TypeTermination:
		msg, err = decodeTermination(bb)
	case TypeRouteMirroring:
		msg, err = decodeRouteMirroring(bb)
	case TypeExperimental251, TypeExperimental252, TypeExperimental253, TypeExperimental254:
		msg, err = decodeExperimental(t, bb)
	default:
		return nil, undefinedMessageType(uint8(t))
	}
	if err != nil {
		var incomplete *bgp.IncompleteError
		if errors.As(err, &incomplete) {
			// the embedded BGP decoder ran off the end of the frame
			return nil, fmt.Errorf("%s: %w", t, &IncompleteError{Needed: incomplete.Needed})
		}
		return nil, fmt.Errorf("%s: %w", t, err)
	}
	if bb.Len() > 0 {
		return nil, fmt.Errorf("%s: %w: %d trailing bytes", t, ErrInvalidMessageLength, bb.Len())
	}
	return msg, nil
}

func (c *Codec) decodeRouteMonitoringWithContext(bb *bytes.Buffer) (Message, error) {
	// peek the peer header to look up the session context without consuming
	h, err := decodePeerHeader(bytes.NewBuffer(bb.Bytes()))
	if err != nil {
		return nil, err
	}
	return decodeRouteMonitoring(bb, c.ctx[PeerKeyFromHeader(&h)])
}

// apply folds a successfully decoded message into the peer context map.
// Decode errors never mutate the map, so one bad frame cannot poison the
// capability state of an established session.
func (c *Codec) apply(msg Message) {
	switch m := msg.(type) {
	case *PeerUpMessage:
		// each side keeps only the capabilities its own Open announced
		local := PeerKeyFromHeader(&m.PeerHeader)
		c.ctx[local] = bgp.ContextFromCapabilities(m.SentOpen.Capabilities())
		// the remote side announces routes under its own BGP identifier
		remote := local
		remote.BGPId = m.ReceivedOpen.BGPId
		c.ctx[remote] = bgp.ContextFromCapabilities(m.ReceivedOpen.Capabilities())
	case *PeerDownMessage:
		delete(c.ctx, PeerKeyFromHeader(&m.PeerHeader))
	case *TerminationMessage:
		delete(c.ctx, PeerKeyFromHeader(&m.PeerHeader))
	}
}

// Encode writes msg as one frame. The reported count always equals
// msg.Len(); a mismatch means a message kind computes its length wrong and
// would desynchronize the stream, so it is returned as an error instead of
// sent downstream.
func Encode(w io.Writer, msg Message) (int, error) {
	n, err := msg.Encode(w)
	if err != nil {
		return n, err
	}
	if n != msg.Len() {
		return n, fmt.Errorf("%w: encoded %d bytes, length field says %d", ErrInvalidMessageLength, n, msg.Len())
	}
	return n, nil
}
