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

// Package addressfamily contains the IANA-assigned address family (AFI) and
// subsequent address family (SAFI) code points shared by the BGP and BMP
// packages, and the AddressType tuple keyed by both.
package addressfamily

import (
	"fmt"
)

type AFI uint16

const (
	AFIUnknown AFI = 0
	IPv4       AFI = 1
	IPv6       AFI = 2
	L2VPN      AFI = 25
)

func (a AFI) String() string {
	switch a {
	case IPv4:
		return "ipv4"
	case IPv6:
		return "ipv6"
	case L2VPN:
		return "l2vpn"
	default:
		return "unknown"
	}
}

type SAFI uint8

const (
	SAFIUnknown    SAFI = 0
	Unicast        SAFI = 1
	Multicast      SAFI = 2
	LabeledUnicast SAFI = 4
	MplsVpn        SAFI = 128
)

func (s SAFI) String() string {
	switch s {
	case Unicast:
		return "unicast"
	case Multicast:
		return "multicast"
	case LabeledUnicast:
		return "labeled-unicast"
	case MplsVpn:
		return "mpls-vpn"
	default:
		return "unknown"
	}
}

// AddressType identifies one (AFI, SAFI) tuple. It is comparable and used as
// a map key wherever per-family decode state is tracked.
type AddressType struct {
	AFI  AFI
	SAFI SAFI
}

func New(afi AFI, safi SAFI) AddressType {
	return AddressType{AFI: afi, SAFI: safi}
}

var (
	IPv4Unicast        = AddressType{IPv4, Unicast}
	IPv4Multicast      = AddressType{IPv4, Multicast}
	IPv4LabeledUnicast = AddressType{IPv4, LabeledUnicast}
	IPv4MplsVpn        = AddressType{IPv4, MplsVpn}
	IPv6Unicast        = AddressType{IPv6, Unicast}
	IPv6Multicast      = AddressType{IPv6, Multicast}
	IPv6LabeledUnicast = AddressType{IPv6, LabeledUnicast}
	IPv6MplsVpn        = AddressType{IPv6, MplsVpn}
)

func (t AddressType) String() string {
	return fmt.Sprintf("%s-%s", t.AFI, t.SAFI)
}
