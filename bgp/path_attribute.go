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

	"github.com/flowbeam/go-telemetry/iana/addressfamily"
)

// PathAttribute is one attribute of an Update message. Exactly one typed
// field is populated, selected by Type; unrecognized types keep their value
// octets in Raw and round-trip unchanged, flags included.
type PathAttribute struct {
	Flags uint8
	Type  AttributeType

	Origin        *Origin
	ASPath        *ASPath
	NextHop       *[4]byte
	MultiExitDisc *uint32
	LocalPref     *uint32
	MPReach       *MPReachNLRI
	MPUnreach     *MPUnreachNLRI

	Raw []byte
}

// ASPath carries AS_PATH segments. FourOctet records the wire encoding
// negotiated for the session (RFC 6793); it is fixed at decode time so that
// Len stays a pure function of the value.
type ASPath struct {
	FourOctet bool
	Segments  []ASPathSegment
}

type ASPathSegment struct {
	SegmentType uint8
	ASNs        []uint32
}

// MPReachNLRI is the multiprotocol announce attribute (RFC 4760).
type MPReachNLRI struct {
	AddressType addressfamily.AddressType
	NextHop     []byte
	NLRI        []Prefix
}

// MPUnreachNLRI is the multiprotocol withdraw attribute (RFC 4760).
type MPUnreachNLRI struct {
	AddressType addressfamily.AddressType
	Withdrawn   []Prefix
}

func (a *PathAttribute) valueLen() int {
	switch a.Type {
	case AttributeOrigin:
		if a.Origin != nil {
			return 1
		}
	case AttributeASPath:
		if a.ASPath != nil {
			n := 0
			asnSize := 2
			if a.ASPath.FourOctet {
				asnSize = 4
			}
			for i := range a.ASPath.Segments {
				n += 2 + asnSize*len(a.ASPath.Segments[i].ASNs)
			}
			return n
		}
	case AttributeNextHop:
		if a.NextHop != nil {
			return 4
		}
	case AttributeMultiExitDisc:
		if a.MultiExitDisc != nil {
			return 4
		}
	case AttributeLocalPref:
		if a.LocalPref != nil {
			return 4
		}
	case AttributeMPReachNLRI:
		if a.MPReach != nil {
			n := 5 + len(a.MPReach.NextHop) // afi + safi + next hop length + reserved
			for i := range a.MPReach.NLRI {
				n += a.MPReach.NLRI[i].wireLen()
			}
			return n
		}
	case AttributeMPUnreachNLRI:
		if a.MPUnreach != nil {
			n := 3
			for i := range a.MPUnreach.Withdrawn {
				n += a.MPUnreach.Withdrawn[i].wireLen()
			}
			return n
		}
	}
	return len(a.Raw)
}

func (a *PathAttribute) extendedLength() bool {
	return a.Flags&FlagExtendedLength != 0 || a.valueLen() > 255
}

func (a *PathAttribute) wireLen() int {
	n := 3 + a.valueLen()
	if a.extendedLength() {
		n++
	}
	return n
}

func (a *PathAttribute) encode(cw *countingWriter) error {
	flags := a.Flags
	if a.valueLen() > 255 {
		flags |= FlagExtendedLength
	}
	if err := writeUint8(cw, flags); err != nil {
		return err
	}
	if err := writeUint8(cw, uint8(a.Type)); err != nil {
		return err
	}
	if a.extendedLength() {
		if err := writeUint16(cw, uint16(a.valueLen())); err != nil {
			return err
		}
	} else {
		if err := writeUint8(cw, uint8(a.valueLen())); err != nil {
			return err
		}
	}
	switch {
	case a.Origin != nil && a.Type == AttributeOrigin:
		return writeUint8(cw, uint8(*a.Origin))
	case a.ASPath != nil && a.Type == AttributeASPath:
		for i := range a.ASPath.Segments {
			seg := &a.ASPath.Segments[i]
			if err := writeUint8(cw, seg.SegmentType); err != nil {
				return err
			}
			if err := writeUint8(cw, uint8(len(seg.ASNs))); err != nil {
				return err
			}
			for _, asn := range seg.ASNs {
				if a.ASPath.FourOctet {
					if err := writeUint32(cw, asn); err != nil {
						return err
					}
				} else {
					if err := writeUint16(cw, uint16(asn)); err != nil {
						return err
					}
				}
			}
		}
		return nil
	case a.NextHop != nil && a.Type == AttributeNextHop:
		_, err := cw.Write(a.NextHop[:])
		return err
	case a.MultiExitDisc != nil && a.Type == AttributeMultiExitDisc:
		return writeUint32(cw, *a.MultiExitDisc)
	case a.LocalPref != nil && a.Type == AttributeLocalPref:
		return writeUint32(cw, *a.LocalPref)
	case a.MPReach != nil && a.Type == AttributeMPReachNLRI:
		mp := a.MPReach
		if err := writeUint16(cw, uint16(mp.AddressType.AFI)); err != nil {
			return err
		}
		if err := writeUint8(cw, uint8(mp.AddressType.SAFI)); err != nil {
			return err
		}
		if err := writeUint8(cw, uint8(len(mp.NextHop))); err != nil {
			return err
		}
		if _, err := cw.Write(mp.NextHop); err != nil {
			return err
		}
		if err := writeUint8(cw, 0); err != nil { // reserved
			return err
		}
		for i := range mp.NLRI {
			if err := mp.NLRI[i].encode(cw); err != nil {
				return err
			}
		}
		return nil
	case a.MPUnreach != nil && a.Type == AttributeMPUnreachNLRI:
		mp := a.MPUnreach
		if err := writeUint16(cw, uint16(mp.AddressType.AFI)); err != nil {
			return err
		}
		if err := writeUint8(cw, uint8(mp.AddressType.SAFI)); err != nil {
			return err
		}
		for i := range mp.Withdrawn {
			if err := mp.Withdrawn[i].encode(cw); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := cw.Write(a.Raw)
	return err
}

func decodePathAttribute(b *bytes.Buffer, ctx *Context) (PathAttribute, error) {
	var a PathAttribute
	var err error
	if a.Flags, err = readUint8(b); err != nil {
		return a, err
	}
	t, err := readUint8(b)
	if err != nil {
		return a, err
	}
	a.Type = AttributeType(t)
	var length int
	if a.Flags&FlagExtendedLength != 0 {
		l, err := readUint16(b)
		if err != nil {
			return a, err
		}
		length = int(l)
	} else {
		l, err := readUint8(b)
		if err != nil {
			return a, err
		}
		length = int(l)
	}
	value, err := take(b, length)
	if err != nil {
		return a, err
	}
	vb := bytes.NewBuffer(value)

	switch a.Type {
	case AttributeOrigin:
		if length != 1 {
			return a, invalidAttributeLength(a.Type, length)
		}
		v, _ := readUint8(vb)
		o := Origin(v)
		if o != OriginIGP && o != OriginEGP && o != OriginIncomplete {
			return a, undefinedOrigin(v)
		}
		a.Origin = &o
	case AttributeASPath:
		asPath := &ASPath{FourOctet: ctx.FourOctetAs()}
		asnSize := 2
		if asPath.FourOctet {
			asnSize = 4
		}
		for vb.Len() > 0 {
			var seg ASPathSegment
			if seg.SegmentType, err = readUint8(vb); err != nil {
				return a, err
			}
			count, err := readUint8(vb)
			if err != nil {
				return a, err
			}
			if vb.Len() < int(count)*asnSize {
				return a, invalidAttributeLength(a.Type, length)
			}
			for i := 0; i < int(count); i++ {
				if asnSize == 4 {
					asn, _ := readUint32(vb)
					seg.ASNs = append(seg.ASNs, asn)
				} else {
					asn, _ := readUint16(vb)
					seg.ASNs = append(seg.ASNs, uint32(asn))
				}
			}
			asPath.Segments = append(asPath.Segments, seg)
		}
		a.ASPath = asPath
	case AttributeNextHop:
		if length != 4 {
			return a, invalidAttributeLength(a.Type, length)
		}
		var nh [4]byte
		copy(nh[:], vb.Next(4))
		a.NextHop = &nh
	case AttributeMultiExitDisc:
		if length != 4 {
			return a, invalidAttributeLength(a.Type, length)
		}
		v, _ := readUint32(vb)
		a.MultiExitDisc = &v
	case AttributeLocalPref:
		if length != 4 {
			return a, invalidAttributeLength(a.Type, length)
		}
		v, _ := readUint32(vb)
		a.LocalPref = &v
	case AttributeMPReachNLRI:
		mp, err := decodeMPReach(vb, ctx)
		if err != nil {
			return a, err
		}
		a.MPReach = mp
	case AttributeMPUnreachNLRI:
		mp, err := decodeMPUnreach(vb, ctx)
		if err != nil {
			return a, err
		}
		a.MPUnreach = mp
	default:
		a.Raw = append([]byte(nil), value...)
	}
	return a, nil
}

func decodeMPReach(vb *bytes.Buffer, ctx *Context) (*MPReachNLRI, error) {
	afi, err := readUint16(vb)
	if err != nil {
		return nil, err
	}
	safi, err := readUint8(vb)
	if err != nil {
		return nil, err
	}
	at := addressfamily.New(addressfamily.AFI(afi), addressfamily.SAFI(safi))
	nhLen, err := readUint8(vb)
	if err != nil {
		return nil, err
	}
	nh, err := take(vb, int(nhLen))
	if err != nil {
		return nil, err
	}
	if _, err := readUint8(vb); err != nil { // reserved
		return nil, err
	}
	mp := &MPReachNLRI{AddressType: at, NextHop: append([]byte(nil), nh...)}
	for vb.Len() > 0 {
		p, err := decodeNLRIPrefix(vb, at, ctx)
		if err != nil {
			return nil, err
		}
		mp.NLRI = append(mp.NLRI, p)
	}
	return mp, nil
}

func decodeMPUnreach(vb *bytes.Buffer, ctx *Context) (*MPUnreachNLRI, error) {
	afi, err := readUint16(vb)
	if err != nil {
		return nil, err
	}
	safi, err := readUint8(vb)
	if err != nil {
		return nil, err
	}
	at := addressfamily.New(addressfamily.AFI(afi), addressfamily.SAFI(safi))
	mp := &MPUnreachNLRI{AddressType: at}
	for vb.Len() > 0 {
		p, err := decodeNLRIPrefix(vb, at, ctx)
		if err != nil {
			return nil, err
		}
		mp.Withdrawn = append(mp.Withdrawn, p)
	}
	return mp, nil
}

// decodeNLRIPrefix decodes one prefix of the given address family,
// consulting the session context for AddPath presence and the expected
// label stack depth of labeled families.
func decodeNLRIPrefix(vb *bytes.Buffer, at addressfamily.AddressType, ctx *Context) (Prefix, error) {
	maxBits := 32
	if at.AFI == addressfamily.IPv6 {
		maxBits = 128
	}
	labeled := at.SAFI == addressfamily.LabeledUnicast || at.SAFI == addressfamily.MplsVpn
	if labeled {
		// length covers label stack and, for VPN families, the route
		// distinguisher; the bit length alone bounds it
		maxBits = 0
	}
	p, err := decodePrefix(vb, ctx.AddPath(at), maxBits)
	if err != nil {
		return p, err
	}
	if labeled {
		want := 3 * int(ctx.MultipleLabels(at))
		if len(p.Bytes) < want {
			return p, fmt.Errorf("%w: %d bits leave no room for %d label octets",
				ErrInvalidPrefixLength, p.BitLen, want)
		}
	}
	return p, nil
}
