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
	"net/netip"

	"github.com/flowbeam/go-telemetry/bgp"
)

// PeerUpMessage reports an established peering session together with both
// Open messages exchanged on it. The capabilities in those Opens are what
// later Route Monitoring messages for the same peer are decoded against.
type PeerUpMessage struct {
	PeerHeader   PeerHeader
	LocalAddress netip.Addr
	LocalPort    uint16
	RemotePort   uint16
	SentOpen     *bgp.OpenMessage
	ReceivedOpen *bgp.OpenMessage
	Information  []Information
}

func (*PeerUpMessage) Type() MessageType { return TypePeerUp }

func (m *PeerUpMessage) Len() int {
	// 16 local address + 2 local port + 2 remote port
	n := commonHeaderLength + peerHeaderLength + 20 + informationLen(m.Information)
	if m.SentOpen != nil {
		n += m.SentOpen.Len()
	}
	if m.ReceivedOpen != nil {
		n += m.ReceivedOpen.Len()
	}
	return n
}

func (m *PeerUpMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypePeerUp); err != nil {
		return cw.n, err
	}
	if err := m.PeerHeader.encode(cw); err != nil {
		return cw.n, err
	}
	var addr [16]byte
	if m.LocalAddress.IsValid() {
		if m.LocalAddress.Is4() {
			a4 := m.LocalAddress.As4()
			copy(addr[12:], a4[:])
		} else {
			addr = m.LocalAddress.As16()
		}
	}
	if _, err := cw.Write(addr[:]); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, m.LocalPort); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, m.RemotePort); err != nil {
		return cw.n, err
	}
	if m.SentOpen != nil {
		if _, err := m.SentOpen.Encode(cw); err != nil {
			return cw.n, err
		}
	}
	if m.ReceivedOpen != nil {
		if _, err := m.ReceivedOpen.Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, encodeInformationList(cw, m.Information)
}

func decodePeerUp(b *bytes.Buffer) (*PeerUpMessage, error) {
	h, err := decodePeerHeader(b)
	if err != nil {
		return nil, err
	}
	m := &PeerUpMessage{PeerHeader: h}
	addr, err := take(b, 16)
	if err != nil {
		return nil, err
	}
	if h.Flags.IPv6() {
		m.LocalAddress = netip.AddrFrom16([16]byte(addr))
	} else {
		var a4 [4]byte
		copy(a4[:], addr[12:])
		if a4 != ([4]byte{}) {
			m.LocalAddress = netip.AddrFrom4(a4)
		}
	}
	if m.LocalPort, err = readUint16(b); err != nil {
		return nil, err
	}
	if m.RemotePort, err = readUint16(b); err != nil {
		return nil, err
	}
	// the Open messages themselves never depend on negotiated extensions
	sent, err := bgp.Decode(b, nil)
	if err != nil {
		return nil, fmt.Errorf("sent open: %w", err)
	}
	sentOpen, ok := sent.(*bgp.OpenMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %s in peer up sent position", ErrUnexpectedMessage, sent.Type())
	}
	m.SentOpen = sentOpen
	received, err := bgp.Decode(b, nil)
	if err != nil {
		return nil, fmt.Errorf("received open: %w", err)
	}
	receivedOpen, ok := received.(*bgp.OpenMessage)
	if !ok {
		return nil, fmt.Errorf("%w: %s in peer up received position", ErrUnexpectedMessage, received.Type())
	}
	m.ReceivedOpen = receivedOpen
	if m.Information, err = decodeInformationList(b); err != nil {
		return nil, err
	}
	return m, nil
}

// PeerDownMessage reports a torn-down peering session. The payload after
// the reason octet depends on the reason code.
type PeerDownMessage struct {
	PeerHeader PeerHeader
	Reason     PeerDownReason

	// Notification is set for reasons 1 and 3.
	Notification *bgp.NotificationMessage
	// FsmEvent is set for reason 2.
	FsmEvent uint16
	// Information is set for reason 6 (RFC 9069).
	Information []Information
	// Data holds the opaque payload of experimental reasons.
	Data []byte
}

func (*PeerDownMessage) Type() MessageType { return TypePeerDown }

func (m *PeerDownMessage) Len() int {
	n := commonHeaderLength + peerHeaderLength + 1
	switch m.Reason {
	case ReasonLocalNotification, ReasonRemoteNotification:
		if m.Notification != nil {
			n += m.Notification.Len()
		}
	case ReasonLocalFsmEvent:
		n += 2
	case ReasonLocalTlvData:
		n += informationLen(m.Information)
	default:
		if m.Reason.experimental() {
			n += len(m.Data)
		}
	}
	return n
}

func (m *PeerDownMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeCommonHeader(cw, m.Len(), TypePeerDown); err != nil {
		return cw.n, err
	}
	if err := m.PeerHeader.encode(cw); err != nil {
		return cw.n, err
	}
	if err := writeUint8(cw, uint8(m.Reason)); err != nil {
		return cw.n, err
	}
	switch m.Reason {
	case ReasonLocalNotification, ReasonRemoteNotification:
		if m.Notification != nil {
			if _, err := m.Notification.Encode(cw); err != nil {
				return cw.n, err
			}
		}
	case ReasonLocalFsmEvent:
		if err := writeUint16(cw, m.FsmEvent); err != nil {
			return cw.n, err
		}
	case ReasonLocalTlvData:
		if err := encodeInformationList(cw, m.Information); err != nil {
			return cw.n, err
		}
	default:
		if m.Reason.experimental() {
			if _, err := cw.Write(m.Data); err != nil {
				return cw.n, err
			}
		}
	}
	return cw.n, nil
}

func decodePeerDown(b *bytes.Buffer) (*PeerDownMessage, error) {
	h, err := decodePeerHeader(b)
	if err != nil {
		return nil, err
	}
	m := &PeerDownMessage{PeerHeader: h}
	r, err := readUint8(b)
	if err != nil {
		return nil, err
	}
	m.Reason = PeerDownReason(r)
	switch m.Reason {
	case ReasonLocalNotification, ReasonRemoteNotification:
		msg, err := bgp.Decode(b, nil)
		if err != nil {
			return nil, fmt.Errorf("peer down notification: %w", err)
		}
		notification, ok := msg.(*bgp.NotificationMessage)
		if !ok {
			return nil, fmt.Errorf("%w: %s in peer down reason %d", ErrUnexpectedMessage, msg.Type(), r)
		}
		m.Notification = notification
	case ReasonLocalFsmEvent:
		if m.FsmEvent, err = readUint16(b); err != nil {
			return nil, err
		}
	case ReasonRemoteNoData, ReasonPeerDeConfigured:
		// no payload
	case ReasonLocalTlvData:
		if m.Information, err = decodeInformationList(b); err != nil {
			return nil, err
		}
	default:
		if !m.Reason.experimental() {
			return nil, undefinedPeerDownReason(r)
		}
		if b.Len() > 0 {
			m.Data = append([]byte(nil), b.Next(b.Len())...)
		}
	}
	return m, nil
}
