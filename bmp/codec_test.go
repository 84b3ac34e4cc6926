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
	"errors"
	"net/netip"
	"reflect"
	"testing"

	"github.com/flowbeam/go-telemetry/bgp"
	"github.com/flowbeam/go-telemetry/iana/addressfamily"
)

func testPeerHeader() PeerHeader {
	return PeerHeader{
		Type:             PeerTypeGlobalInstance,
		Address:          netip.MustParseAddr("10.0.0.1"),
		PeerAS:           64512,
		BGPId:            [4]byte{10, 0, 0, 1},
		TimestampSeconds: 1700000000,
	}
}

func testOpen(id [4]byte) *bgp.OpenMessage {
	return &bgp.OpenMessage{
		Version:  4,
		MyAS:     64512,
		HoldTime: 180,
		BGPId:    id,
		Parameters: []bgp.OptionalParameter{
			{
				Type: 2,
				Capabilities: []bgp.Capability{
					{
						Code: bgp.CapabilityMultiProtocol,
						MultiProtocol: &bgp.MultiProtocolCapability{
							AddressType: addressfamily.IPv4Unicast,
						},
					},
					{
						Code:        bgp.CapabilityFourOctetAs,
						FourOctetAs: &bgp.FourOctetAsCapability{AS: 64512},
					},
					{
						Code: bgp.CapabilityAddPath,
						AddPath: &bgp.AddPathCapability{
							Families: []bgp.AddPathAddressFamily{
								{AddressType: addressfamily.IPv4Unicast, Send: true, Receive: true},
							},
						},
					},
				},
			},
		},
	}
}

// decodeOne encodes msg into a fresh buffer and decodes it back through the
// codec, checking the length bookkeeping along the way.
func decodeOne(t *testing.T, c *Codec, msg Message) Message {
	t.Helper()

	buf := &bytes.Buffer{}
	n, err := Encode(buf, msg)
	if err != nil {
		t.Fatalf("failed to encode message: %v", err)
	}
	if n != msg.Len() {
		t.Fatalf("encoded %d bytes, Len() says %d", n, msg.Len())
	}
	decoded, err := c.Decode(buf)
	if err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}
	if decoded == nil {
		t.Fatal("expected a complete message, got none")
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty buffer after decode, got %d bytes", buf.Len())
	}
	return decoded
}

func TestCodecDecodeInitiation(t *testing.T) {
	msg := &InitiationMessage{
		Information: []Information{
			{Type: InfoSystemDescription, Value: "test11"},
			{Type: InfoSystemName, Value: "PE2"},
		},
	}

	c := NewCodec()
	decoded := decodeOne(t, c, msg)
	if !reflect.DeepEqual(decoded, msg) {
		t.Errorf("expected %+v, got %+v", msg, decoded)
	}

	// nothing buffered, nothing decoded
	again, err := c.Decode(&bytes.Buffer{})
	if err != nil || again != nil {
		t.Errorf("expected (nil, nil) on empty buffer, got (%v, %v)", again, err)
	}
}

func TestCodecPartialDelivery(t *testing.T) {
	msg := &InitiationMessage{
		Information: []Information{
			{Type: InfoSystemName, Value: "PE2"},
		},
	}

	wire := &bytes.Buffer{}
	if _, err := Encode(wire, msg); err != nil {
		t.Fatalf("failed to encode message: %v", err)
	}
	raw := wire.Bytes()

	c := NewCodec()
	buf := &bytes.Buffer{}
	for i := 0; i < len(raw); i += 3 {
		end := i + 3
		if end > len(raw) {
			end = len(raw)
		}
		buf.Write(raw[i:end])

		decoded, err := c.Decode(buf)
		if err != nil {
			t.Fatalf("unexpected error at offset %d: %v", end, err)
		}
		if end < len(raw) {
			if decoded != nil {
				t.Fatalf("got a message after only %d of %d bytes", end, len(raw))
			}
			if end >= MinMessageLength && !c.InMessage() {
				t.Errorf("expected codec to report a pending frame at offset %d", end)
			}
			continue
		}
		if c.InMessage() {
			t.Error("expected no pending frame after complete decode")
		}
		if !reflect.DeepEqual(decoded, msg) {
			t.Errorf("expected %+v, got %+v", msg, decoded)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("expected empty buffer, got %d bytes", buf.Len())
	}
}

func TestCodecUndefinedVersion(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x01, 0x00, 0x00, 0x00, 0x06, 0x04})

	c := NewCodec()
	msg, err := c.Decode(buf)
	if msg != nil {
		t.Fatalf("expected no message, got %+v", msg)
	}
	if !errors.Is(err, ErrUndefinedVersion) {
		t.Fatalf("expected ErrUndefinedVersion, got %v", err)
	}
	// exactly one octet is discarded so the stream can resynchronize
	if buf.Len() != 5 {
		t.Errorf("expected 5 remaining bytes, got %d", buf.Len())
	}
}

func TestCodecInvalidLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x03, 0x00, 0x00, 0x00, 0x03, 0x04, 0xff})

	c := NewCodec()
	_, err := c.Decode(buf)
	if !errors.Is(err, ErrInvalidMessageLength) {
		t.Fatalf("expected ErrInvalidMessageLength, got %v", err)
	}
	if buf.Len() != 2 {
		t.Errorf("expected 2 remaining bytes, got %d", buf.Len())
	}
}

func TestCodecUndefinedMessageType(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x03, 0x00, 0x00, 0x00, 0x06, 0x09})

	c := NewCodec()
	_, err := c.Decode(buf)
	if !errors.Is(err, ErrUndefinedMessageType) {
		t.Fatalf("expected ErrUndefinedMessageType, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected whole frame consumed, got %d bytes", buf.Len())
	}
}

func TestCodecBodyErrorConsumesFrame(t *testing.T) {
	// a peer up frame whose body is far too short for even the peer header
	buf := bytes.NewBuffer([]byte{0x03, 0x00, 0x00, 0x00, 0x08, 0x03, 0xaa, 0xbb})

	c := NewCodec()
	_, err := c.Decode(buf)
	if err == nil {
		t.Fatal("expected an error for truncated peer up body")
	}
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteError, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected broken frame consumed, got %d bytes", buf.Len())
	}

	// the stream keeps working after the bad frame
	msg := &InitiationMessage{Information: []Information{{Type: InfoString, Value: "ok"}}}
	decoded := decodeOne(t, c, msg)
	if !reflect.DeepEqual(decoded, msg) {
		t.Errorf("expected %+v, got %+v", msg, decoded)
	}
}

func TestCodecPeerContextLifecycle(t *testing.T) {
	ph := testPeerHeader()
	remoteId := [4]byte{192, 0, 2, 1}
	peerUp := &PeerUpMessage{
		PeerHeader:   ph,
		LocalAddress: netip.MustParseAddr("10.0.0.254"),
		LocalPort:    179,
		RemotePort:   33001,
		SentOpen:     testOpen([4]byte{10, 0, 0, 254}),
		ReceivedOpen: testOpen(remoteId),
	}

	c := NewCodec()
	decoded := decodeOne(t, c, peerUp)
	if !reflect.DeepEqual(decoded, peerUp) {
		t.Fatalf("expected %+v, got %+v", peerUp, decoded)
	}

	key := PeerKeyFromHeader(&ph)
	ctx := c.Context(key)
	if ctx == nil {
		t.Fatal("expected capability context after peer up")
	}
	if !ctx.AddPath(addressfamily.IPv4Unicast) {
		t.Error("expected add-path negotiated for IPv4 unicast")
	}
	if !ctx.FourOctetAs() {
		t.Error("expected 4-octet AS numbers negotiated")
	}

	// routes from the remote side arrive under its own BGP identifier
	remoteKey := key
	remoteKey.BGPId = remoteId
	if c.Context(remoteKey) == nil {
		t.Error("expected capability context under the remote BGP id")
	}

	// add-path NLRI only decode correctly against the established context
	rm := &RouteMonitoringMessage{
		PeerHeader: ph,
		Updates: []*bgp.UpdateMessage{
			{
				NLRI: []bgp.Prefix{
					{AddPath: true, PathId: 7, BitLen: 24, Bytes: []byte{192, 0, 2}},
				},
			},
		},
	}
	decodedRm := decodeOne(t, c, rm)
	if !reflect.DeepEqual(decodedRm, rm) {
		t.Fatalf("expected %+v, got %+v", rm, decodedRm)
	}

	decodeOne(t, c, &PeerDownMessage{PeerHeader: ph, Reason: ReasonRemoteNoData})
	if c.Context(key) != nil {
		t.Error("expected capability context removed after peer down")
	}

	// the session may be re-established with fresh capabilities
	decodeOne(t, c, peerUp)
	if c.Context(key) == nil {
		t.Error("expected capability context after renewed peer up")
	}

	decodeOne(t, c, &TerminationMessage{
		PeerHeader: ph,
		Information: []TerminationInformation{
			{Type: TerminationInfoReason, Reason: 1},
		},
	})
	if c.Context(key) != nil {
		t.Error("expected capability context removed after termination")
	}
}

func TestCodecPeerContextPerSide(t *testing.T) {
	ph := testPeerHeader()
	remoteId := [4]byte{192, 0, 2, 9}
	// the remote Open announces neither add-path nor 4-octet AS numbers
	received := &bgp.OpenMessage{
		Version:  4,
		MyAS:     65001,
		HoldTime: 180,
		BGPId:    remoteId,
		Parameters: []bgp.OptionalParameter{
			{
				Type: 2,
				Capabilities: []bgp.Capability{
					{
						Code: bgp.CapabilityMultiProtocol,
						MultiProtocol: &bgp.MultiProtocolCapability{
							AddressType: addressfamily.IPv4Unicast,
						},
					},
				},
			},
		},
	}
	peerUp := &PeerUpMessage{
		PeerHeader:   ph,
		LocalAddress: netip.MustParseAddr("10.0.0.254"),
		LocalPort:    179,
		RemotePort:   33002,
		SentOpen:     testOpen([4]byte{10, 0, 0, 254}),
		ReceivedOpen: received,
	}

	c := NewCodec()
	decodeOne(t, c, peerUp)

	local := PeerKeyFromHeader(&ph)
	ctx := c.Context(local)
	if ctx == nil {
		t.Fatal("expected a capability context under the local key")
	}
	if !ctx.AddPath(addressfamily.IPv4Unicast) {
		t.Error("expected the sent Open's add-path capability under the local key")
	}

	remote := local
	remote.BGPId = remoteId
	ctx = c.Context(remote)
	if ctx == nil {
		t.Fatal("expected a capability context under the remote BGP id")
	}
	if ctx.AddPath(addressfamily.IPv4Unicast) {
		t.Error("remote context must not pick up the sent Open's add-path capability")
	}
	if ctx.FourOctetAs() {
		t.Error("remote context must not pick up the sent Open's 4-octet AS capability")
	}
}

func TestCodecRouteMonitoringWithoutContext(t *testing.T) {
	rm := &RouteMonitoringMessage{
		PeerHeader: testPeerHeader(),
		Updates: []*bgp.UpdateMessage{
			{
				NLRI: []bgp.Prefix{
					{BitLen: 24, Bytes: []byte{198, 51, 100}},
				},
			},
		},
	}

	c := NewCodec()
	decoded := decodeOne(t, c, rm)
	if !reflect.DeepEqual(decoded, rm) {
		t.Errorf("expected %+v, got %+v", rm, decoded)
	}
}

func TestCodecMessageRoundTrips(t *testing.T) {
	ph := testPeerHeader()

	for _, tt := range []struct {
		name string
		msg  Message
	}{
		{
			name: "peer down with notification",
			msg: &PeerDownMessage{
				PeerHeader:   ph,
				Reason:       ReasonLocalNotification,
				Notification: &bgp.NotificationMessage{Code: 6, Subcode: 2, Data: []byte{0x01}},
			},
		},
		{
			name: "peer down with fsm event",
			msg: &PeerDownMessage{
				PeerHeader: ph,
				Reason:     ReasonLocalFsmEvent,
				FsmEvent:   18,
			},
		},
		{
			name: "peer down without data",
			msg: &PeerDownMessage{
				PeerHeader: ph,
				Reason:     ReasonPeerDeConfigured,
			},
		},
		{
			name: "peer down with tlv data",
			msg: &PeerDownMessage{
				PeerHeader:  ph,
				Reason:      ReasonLocalTlvData,
				Information: []Information{{Type: InfoVrfTableName, Value: "vrf-1"}},
			},
		},
		{
			name: "peer down experimental",
			msg: &PeerDownMessage{
				PeerHeader: ph,
				Reason:     ReasonExperimental251,
				Data:       []byte{0xde, 0xad},
			},
		},
		{
			name: "statistics report",
			msg: &StatisticsReportMessage{
				PeerHeader: ph,
				Counters: []StatisticsCounter{
					{CounterType: 0, Value: []byte{0x00, 0x00, 0x00, 0x0a}},
					{CounterType: 7, Value: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00}},
				},
			},
		},
		{
			name: "route mirroring",
			msg: &RouteMirroringMessage{
				PeerHeader: ph,
				Values: []RouteMirroringValue{
					{ValueType: 1, Value: []byte{0x00, 0x01}},
				},
			},
		},
		{
			name: "termination with string and reason",
			msg: &TerminationMessage{
				PeerHeader: ph,
				Information: []TerminationInformation{
					{Type: TerminationInfoString, Value: "session closed"},
					{Type: TerminationInfoReason, Reason: 2},
				},
			},
		},
		{
			name: "experimental message",
			msg: &ExperimentalMessage{
				MessageType: TypeExperimental252,
				Body:        []byte{0x01, 0x02, 0x03},
			},
		},
		{
			name: "initiation with experimental tlv",
			msg: &InitiationMessage{
				Information: []Information{
					{Type: InfoExperimental65531, Raw: []byte{0xca, 0xfe}},
				},
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			decoded := decodeOne(t, NewCodec(), tt.msg)
			if !reflect.DeepEqual(decoded, tt.msg) {
				t.Errorf("expected %+v, got %+v", tt.msg, decoded)
			}
		})
	}
}

func TestCodecUndefinedPeerDownReason(t *testing.T) {
	ph := testPeerHeader()
	body := &bytes.Buffer{}
	cw := &countingWriter{w: body}
	if err := ph.encode(cw); err != nil {
		t.Fatal(err)
	}
	body.WriteByte(0x63) // reason 99 is neither assigned nor experimental

	frame := &bytes.Buffer{}
	fw := &countingWriter{w: frame}
	if err := encodeCommonHeader(fw, commonHeaderLength+body.Len(), TypePeerDown); err != nil {
		t.Fatal(err)
	}
	frame.Write(body.Bytes())

	_, err := NewCodec().Decode(frame)
	if !errors.Is(err, ErrUndefinedPeerDownReason) {
		t.Fatalf("expected ErrUndefinedPeerDownReason, got %v", err)
	}
	if frame.Len() != 0 {
		t.Errorf("expected whole frame consumed, got %d bytes", frame.Len())
	}
}
