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
	"io"

	"github.com/flowbeam/go-telemetry/iana/addressfamily"
)

// Capability is one capability TLV from an Open message's optional
// parameters (RFC 5492). Exactly one of the typed fields is populated,
// selected by Code; codes without a typed representation keep their value
// octets in Raw and re-encode unchanged.
type Capability struct {
	Code CapabilityCode

	MultiProtocol   *MultiProtocolCapability
	FourOctetAs     *FourOctetAsCapability
	AddPath         *AddPathCapability
	MultipleLabels  []MultipleLabel
	ExtendedNextHop *ExtendedNextHopCapability

	Raw []byte
}

// MultiProtocolCapability announces one (AFI, SAFI) tuple (RFC 4760).
type MultiProtocolCapability struct {
	AddressType addressfamily.AddressType
}

// FourOctetAsCapability announces support for 4-octet AS numbers (RFC 6793).
type FourOctetAsCapability struct {
	AS uint32
}

// AddPathCapability lists per-family path-identifier dispositions (RFC 7911).
type AddPathCapability struct {
	Families []AddPathAddressFamily
}

type AddPathAddressFamily struct {
	AddressType addressfamily.AddressType
	Send        bool
	Receive     bool
}

// MultipleLabel announces the label stack depth for one labeled address
// family (RFC 8277).
type MultipleLabel struct {
	AddressType addressfamily.AddressType
	Count       uint8
}

// ExtendedNextHopCapability lists next-hop encodings per NLRI family
// (RFC 8950).
type ExtendedNextHopCapability struct {
	Encodings []ExtendedNextHopEncoding
}

type ExtendedNextHopEncoding struct {
	NLRI       addressfamily.AddressType
	NextHopAFI addressfamily.AFI
}

// Len returns the length of the capability value, excluding the 2-octet
// code and length header.
func (c *Capability) Len() int {
	switch c.Code {
	case CapabilityMultiProtocol:
		if c.MultiProtocol != nil {
			return 4
		}
	case CapabilityFourOctetAs:
		if c.FourOctetAs != nil {
			return 4
		}
	case CapabilityAddPath:
		if c.AddPath != nil {
			return 4 * len(c.AddPath.Families)
		}
	case CapabilityMultipleLabels:
		return 4 * len(c.MultipleLabels)
	case CapabilityExtendedNextHop:
		if c.ExtendedNextHop != nil {
			return 6 * len(c.ExtendedNextHop.Encodings)
		}
	}
	return len(c.Raw)
}

func (c *Capability) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint8(cw, uint8(c.Code)); err != nil {
		return cw.n, err
	}
	if err := writeUint8(cw, uint8(c.Len())); err != nil {
		return cw.n, err
	}
	switch c.Code {
	case CapabilityMultiProtocol:
		if c.MultiProtocol != nil {
			if err := writeUint16(cw, uint16(c.MultiProtocol.AddressType.AFI)); err != nil {
				return cw.n, err
			}
			if err := writeUint8(cw, 0); err != nil {
				return cw.n, err
			}
			if err := writeUint8(cw, uint8(c.MultiProtocol.AddressType.SAFI)); err != nil {
				return cw.n, err
			}
			return cw.n, nil
		}
	case CapabilityFourOctetAs:
		if c.FourOctetAs != nil {
			if err := writeUint32(cw, c.FourOctetAs.AS); err != nil {
				return cw.n, err
			}
			return cw.n, nil
		}
	case CapabilityAddPath:
		if c.AddPath != nil {
			for _, fam := range c.AddPath.Families {
				if err := writeUint16(cw, uint16(fam.AddressType.AFI)); err != nil {
					return cw.n, err
				}
				if err := writeUint8(cw, uint8(fam.AddressType.SAFI)); err != nil {
					return cw.n, err
				}
				if err := writeUint8(cw, addPathDisposition(fam)); err != nil {
					return cw.n, err
				}
			}
			return cw.n, nil
		}
	case CapabilityMultipleLabels:
		if c.MultipleLabels != nil {
			for _, ml := range c.MultipleLabels {
				if err := writeUint16(cw, uint16(ml.AddressType.AFI)); err != nil {
					return cw.n, err
				}
				if err := writeUint8(cw, uint8(ml.AddressType.SAFI)); err != nil {
					return cw.n, err
				}
				if err := writeUint8(cw, ml.Count); err != nil {
					return cw.n, err
				}
			}
			return cw.n, nil
		}
	case CapabilityExtendedNextHop:
		if c.ExtendedNextHop != nil {
			for _, enc := range c.ExtendedNextHop.Encodings {
				if err := writeUint16(cw, uint16(enc.NLRI.AFI)); err != nil {
					return cw.n, err
				}
				if err := writeUint16(cw, uint16(enc.NLRI.SAFI)); err != nil {
					return cw.n, err
				}
				if err := writeUint16(cw, uint16(enc.NextHopAFI)); err != nil {
					return cw.n, err
				}
			}
			return cw.n, nil
		}
	}
	if _, err := cw.Write(c.Raw); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

func addPathDisposition(fam AddPathAddressFamily) uint8 {
	var d uint8
	if fam.Receive {
		d |= AddPathReceive
	}
	if fam.Send {
		d |= AddPathSend
	}
	return d
}

// decodeCapability reads one capability TLV from b. Unknown codes decode to
// an opaque Raw payload of the declared length.
func decodeCapability(b *bytes.Buffer) (Capability, error) {
	var c Capability
	code, err := readUint8(b)
	if err != nil {
		return c, err
	}
	c.Code = CapabilityCode(code)
	length, err := readUint8(b)
	if err != nil {
		return c, err
	}
	value, err := take(b, int(length))
	if err != nil {
		return c, err
	}
	vb := bytes.NewBuffer(value)

	switch c.Code {
	case CapabilityMultiProtocol:
		if length != 4 {
			return c, invalidCapabilityLength(c.Code, int(length))
		}
		afi, _ := readUint16(vb)
		_, _ = readUint8(vb) // reserved
		safi, _ := readUint8(vb)
		c.MultiProtocol = &MultiProtocolCapability{
			AddressType: addressfamily.New(addressfamily.AFI(afi), addressfamily.SAFI(safi)),
		}
	case CapabilityFourOctetAs:
		if length != 4 {
			return c, invalidCapabilityLength(c.Code, int(length))
		}
		as, _ := readUint32(vb)
		c.FourOctetAs = &FourOctetAsCapability{AS: as}
	case CapabilityAddPath:
		if length%4 != 0 {
			return c, invalidCapabilityLength(c.Code, int(length))
		}
		ap := &AddPathCapability{}
		for vb.Len() > 0 {
			afi, _ := readUint16(vb)
			safi, _ := readUint8(vb)
			disp, _ := readUint8(vb)
			ap.Families = append(ap.Families, AddPathAddressFamily{
				AddressType: addressfamily.New(addressfamily.AFI(afi), addressfamily.SAFI(safi)),
				Send:        disp&AddPathSend != 0,
				Receive:     disp&AddPathReceive != 0,
			})
		}
		c.AddPath = ap
	case CapabilityMultipleLabels:
		if length%4 != 0 {
			return c, invalidCapabilityLength(c.Code, int(length))
		}
		for vb.Len() > 0 {
			afi, _ := readUint16(vb)
			safi, _ := readUint8(vb)
			count, _ := readUint8(vb)
			c.MultipleLabels = append(c.MultipleLabels, MultipleLabel{
				AddressType: addressfamily.New(addressfamily.AFI(afi), addressfamily.SAFI(safi)),
				Count:       count,
			})
		}
	case CapabilityExtendedNextHop:
		if length%6 != 0 {
			return c, invalidCapabilityLength(c.Code, int(length))
		}
		enh := &ExtendedNextHopCapability{}
		for vb.Len() > 0 {
			afi, _ := readUint16(vb)
			safi, _ := readUint16(vb)
			nhAfi, _ := readUint16(vb)
			enh.Encodings = append(enh.Encodings, ExtendedNextHopEncoding{
				NLRI:       addressfamily.New(addressfamily.AFI(afi), addressfamily.SAFI(safi)),
				NextHopAFI: addressfamily.AFI(nhAfi),
			})
		}
		c.ExtendedNextHop = enh
	default:
		c.Raw = append([]byte(nil), value...)
	}
	return c, nil
}
