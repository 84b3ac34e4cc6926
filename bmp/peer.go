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
	"net/netip"
)

// PeerHeader is the fixed 42-octet per-peer header present in all
// peer-scoped BMP messages (RFC 7854, Section 4.2).
type PeerHeader struct {
	Type          PeerType
	Flags         PeerFlags
	Distinguisher uint64
	// Address is the peer's transport address. The zero value encodes as 16
	// zero octets (used by Loc-RIB instance peers).
	Address netip.Addr
	PeerAS  uint32
	BGPId   [4]byte
	// Timestamp of route reception, seconds and microseconds since the
	// epoch, both zero when unavailable.
	TimestampSeconds      uint32
	TimestampMicroseconds uint32
}

func (h *PeerHeader) Len() int { return peerHeaderLength }

func (h *PeerHeader) encode(cw *countingWriter) error {
	if err := writeUint8(cw, uint8(h.Type)); err != nil {
		return err
	}
	if err := writeUint8(cw, uint8(h.Flags)); err != nil {
		return err
	}
	if err := writeUint64(cw, h.Distinguisher); err != nil {
		return err
	}
	var addr [16]byte
	if h.Address.IsValid() {
		if h.Address.Is4() {
			a4 := h.Address.As4()
			copy(addr[12:], a4[:])
		} else {
			addr = h.Address.As16()
		}
	}
	if _, err := cw.Write(addr[:]); err != nil {
		return err
	}
	if err := writeUint32(cw, h.PeerAS); err != nil {
		return err
	}
	if _, err := cw.Write(h.BGPId[:]); err != nil {
		return err
	}
	if err := writeUint32(cw, h.TimestampSeconds); err != nil {
		return err
	}
	return writeUint32(cw, h.TimestampMicroseconds)
}

func decodePeerHeader(b *bytes.Buffer) (PeerHeader, error) {
	var h PeerHeader
	s, err := take(b, peerHeaderLength)
	if err != nil {
		return h, err
	}
	hb := bytes.NewBuffer(s)
	t, _ := readUint8(hb)
	h.Type = PeerType(t)
	f, _ := readUint8(hb)
	h.Flags = PeerFlags(f)
	h.Distinguisher, _ = readUint64(hb)
	addr, _ := take(hb, 16)
	if h.Flags.IPv6() {
		h.Address = netip.AddrFrom16([16]byte(addr))
	} else {
		var a4 [4]byte
		copy(a4[:], addr[12:])
		if a4 != ([4]byte{}) {
			h.Address = netip.AddrFrom4(a4)
		}
	}
	h.PeerAS, _ = readUint32(hb)
	id, _ := take(hb, 4)
	copy(h.BGPId[:], id)
	h.TimestampSeconds, _ = readUint32(hb)
	h.TimestampMicroseconds, _ = readUint32(hb)
	return h, nil
}

// PeerKey identifies one monitored peering session. All peer-scoped context
// is keyed by it; two headers describing the same session compare equal
// regardless of which message carried them.
type PeerKey struct {
	Address       netip.Addr
	Type          PeerType
	Flags         PeerFlags
	Distinguisher uint64
	PeerAS        uint32
	BGPId         [4]byte
}

// PeerKeyFromHeader derives the session key from a per-peer header.
func PeerKeyFromHeader(h *PeerHeader) PeerKey {
	return PeerKey{
		Address:       h.Address,
		Type:          h.Type,
		Flags:         h.Flags,
		Distinguisher: h.Distinguisher,
		PeerAS:        h.PeerAS,
		BGPId:         h.BGPId,
	}
}
