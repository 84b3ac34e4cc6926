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
)

// OpenMessage is a BGP Open (RFC 4271, Section 4.2).
type OpenMessage struct {
	Version    uint8
	MyAS       uint16
	HoldTime   uint16
	BGPId      [4]byte
	Parameters []OptionalParameter
}

// OptionalParameter is one optional parameter TLV. Parameters of the
// capability type carry decoded capabilities; any other type keeps its
// octets opaque in Value.
type OptionalParameter struct {
	Type         uint8
	Capabilities []Capability
	Value        []byte
}

func (p *OptionalParameter) valueLen() int {
	if p.Type == capabilityParameterType {
		n := 0
		for i := range p.Capabilities {
			n += 2 + p.Capabilities[i].Len()
		}
		return n
	}
	return len(p.Value)
}

// Type returns TypeOpen.
func (o *OpenMessage) Type() MessageType { return TypeOpen }

// Len returns the total wire length including the 19-octet common header.
func (o *OpenMessage) Len() int {
	// 1 version + 2 AS + 2 hold time + 4 BGP id + 1 parameter length
	n := headerLength + 10
	for i := range o.Parameters {
		n += 2 + o.Parameters[i].valueLen()
	}
	return n
}

// Capabilities flattens the capabilities announced across all optional
// parameters of the capability type.
func (o *OpenMessage) Capabilities() []Capability {
	var caps []Capability
	for i := range o.Parameters {
		if o.Parameters[i].Type == capabilityParameterType {
			caps = append(caps, o.Parameters[i].Capabilities...)
		}
	}
	return caps
}

func (o *OpenMessage) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := encodeHeader(cw, o.Len(), TypeOpen); err != nil {
		return cw.n, err
	}
	if err := writeUint8(cw, o.Version); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, o.MyAS); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, o.HoldTime); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(o.BGPId[:]); err != nil {
		return cw.n, err
	}
	paramLen := 0
	for i := range o.Parameters {
		paramLen += 2 + o.Parameters[i].valueLen()
	}
	if err := writeUint8(cw, uint8(paramLen)); err != nil {
		return cw.n, err
	}
	for i := range o.Parameters {
		p := &o.Parameters[i]
		if err := writeUint8(cw, p.Type); err != nil {
			return cw.n, err
		}
		if err := writeUint8(cw, uint8(p.valueLen())); err != nil {
			return cw.n, err
		}
		if p.Type == capabilityParameterType {
			for j := range p.Capabilities {
				if _, err := p.Capabilities[j].Encode(cw); err != nil {
					return cw.n, err
				}
			}
		} else {
			if _, err := cw.Write(p.Value); err != nil {
				return cw.n, err
			}
		}
	}
	return cw.n, nil
}

func decodeOpen(b *bytes.Buffer) (*OpenMessage, error) {
	o := &OpenMessage{}
	var err error
	if o.Version, err = readUint8(b); err != nil {
		return nil, err
	}
	if o.Version != BGPVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, o.Version)
	}
	if o.MyAS, err = readUint16(b); err != nil {
		return nil, err
	}
	if o.HoldTime, err = readUint16(b); err != nil {
		return nil, err
	}
	id, err := take(b, 4)
	if err != nil {
		return nil, err
	}
	copy(o.BGPId[:], id)
	paramLen, err := readUint8(b)
	if err != nil {
		return nil, err
	}
	params, err := take(b, int(paramLen))
	if err != nil {
		return nil, err
	}
	pb := bytes.NewBuffer(params)
	for pb.Len() > 0 {
		var p OptionalParameter
		if p.Type, err = readUint8(pb); err != nil {
			return nil, err
		}
		vlen, err := readUint8(pb)
		if err != nil {
			return nil, err
		}
		value, err := take(pb, int(vlen))
		if err != nil {
			return nil, err
		}
		if p.Type == capabilityParameterType {
			vb := bytes.NewBuffer(value)
			for vb.Len() > 0 {
				c, err := decodeCapability(vb)
				if err != nil {
					return nil, fmt.Errorf("optional parameter: %w", err)
				}
				p.Capabilities = append(p.Capabilities, c)
			}
		} else {
			p.Value = append([]byte(nil), value...)
		}
		o.Parameters = append(o.Parameters, p)
	}
	return o, nil
}
