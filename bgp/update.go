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

package bgp

import (
	"bytes"
	"fmt"
	"io"

	"github.com/flowbeam/go-telemetry/iana/addressfamily"
)

// UpdateMessage is a BGP Update (RFC 4271, Section 4.3). Its wire layout is
// context-dependent: whether NLRI carry AddPath identifiers and how many
// label octets prefix labeled routes is decided by the session's negotiated
// capabilities, passed in as a read-only *Context during decode.
type UpdateMessage struct {
	WithdrawnRoutes []Prefix
	PathAttributes  []PathAttribute
	NLRI            []Prefix
}

// Prefix is one NLRI entry. Bytes holds exactly the octets following the
// length field; for labeled address families they include the label stack
// (RFC 8277 counts label bits into the prefix length).
type Prefix struct {
	// AddPath records whether the 4-octet PathId is present on the wire.
	AddPath bool
	PathId  uint32
	BitLen  uint8
	Bytes   []byte
}

func (p *Prefix) wireLen() int {
	n := 1 + len(p.Bytes)
	if p.AddPath {
		n += 4
	}
	return n
}

// Labels extracts the first count 3-octet label entries from a labeled
// prefix. It is derived from Bytes so that re-encoding stays byte-exact.
func (p *Prefix) Labels(count int) [][]byte {
	labels := make([][]byte, 0, count)
	for i := 0; i+3 <= len(p.Bytes) && i < 3*count; i += 3 {
		labels = append(labels, p.Bytes[i:i+3])
	}
	return labels
}

func (p *Prefix) encode(cw *countingWriter) error {
	if p.AddPath {
		if err := writeUint32(cw, p.PathId); err != nil {
			return err
		}
	}
	if err := writeUint8(cw, p.BitLen); err != nil {
		return err
	}
	_, err := cw.Write(p.Bytes)
	return err
}

func decodePrefix(b *bytes.Buffer, addPath bool, maxBits int) (Prefix, error) {
	p := Prefix{AddPath: addPath}
	var err error
	if addPath {
		if p.PathId, err = readUint32(b); err != nil {
			return p, err
		}
	}
	if p.BitLen, err = readUint8(b); err != nil {
		return p, err
	}
	if maxBits > 0 && int(p.BitLen) > maxBits {
		return p, fmt.Errorf("%w: %d bits", ErrInvalidPrefixLength, p.BitLen)
	}
	octets := (int(p.BitLen) + 7) / 8
	s, err := take(b, octets)
	if err != nil {
		return p, fmt.Errorf("%w (prefix of %d bits)", err, p.BitLen)
	}
	p.Bytes = append([]byte(nil), s...)
	return p, nil
}

// Type returns TypeUpdate.
func (u *UpdateMessage) Type() MessageType { return TypeUpdate }

// Len returns the total wire length including the 19-octet common header.
func (u *UpdateMessage) Len() int {
	n := headerLength + 4 // withdrawn routes length + total path attribute length
	for i := range u.WithdrawnRoutes {
		n += u.WithdrawnRoutes[i].wireLen()
	}
	for i := range u.PathAttributes {
		n += u.PathAttributes[i].wireLen()
	}
	for i := range u.NLRI {
		n += u.NLRI[i].wireLen()
	}
	return n
}

func (u *UpdateMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeHeader(cw, u.Len(), TypeUpdate); err != nil {
		return cw.n, err
	}
	withdrawnLen := 0
	for i := range u.WithdrawnRoutes {
		withdrawnLen += u.WithdrawnRoutes[i].wireLen()
	}
	if err := writeUint16(cw, uint16(withdrawnLen)); err != nil {
		return cw.n, err
	}
	for i := range u.WithdrawnRoutes {
		if err := u.WithdrawnRoutes[i].encode(cw); err != nil {
			return cw.n, err
		}
	}
	attrLen := 0
	for i := range u.PathAttributes {
		attrLen += u.PathAttributes[i].wireLen()
	}
	if err := writeUint16(cw, uint16(attrLen)); err != nil {
		return cw.n, err
	}
	for i := range u.PathAttributes {
		if err := u.PathAttributes[i].encode(cw); err != nil {
			return cw.n, err
		}
	}
	for i := range u.NLRI {
		if err := u.NLRI[i].encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeUpdate(b *bytes.Buffer, ctx *Context) (*UpdateMessage, error) {
	u := &UpdateMessage{}
	v4AddPath := ctx.AddPath(addressfamily.IPv4Unicast)

	withdrawnLen, err := readUint16(b)
	if err != nil {
		return nil, err
	}
	withdrawn, err := take(b, int(withdrawnLen))
	if err != nil {
		return nil, err
	}
	wb := bytes.NewBuffer(withdrawn)
	for wb.Len() > 0 {
		p, err := decodePrefix(wb, v4AddPath, 32)
		if err != nil {
			return nil, fmt.Errorf("withdrawn routes: %w", err)
		}
		u.WithdrawnRoutes = append(u.WithdrawnRoutes, p)
	}

	attrLen, err := readUint16(b)
	if err != nil {
		return nil, err
	}
	attrs, err := take(b, int(attrLen))
	if err != nil {
		return nil, err
	}
	ab := bytes.NewBuffer(attrs)
	for ab.Len() > 0 {
		attr, err := decodePathAttribute(ab, ctx)
		if err != nil {
			return nil, fmt.Errorf("path attributes: %w", err)
		}
		u.PathAttributes = append(u.PathAttributes, attr)
	}

	for b.Len() > 0 {
		p, err := decodePrefix(b, v4AddPath, 32)
		if err != nil {
			return nil, fmt.Errorf("nlri: %w", err)
		}
		u.NLRI = append(u.NLRI, p)
	}
	return u, nil
}
