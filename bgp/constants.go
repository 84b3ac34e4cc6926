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

// MessageType is the 1-octet BGP message type from RFC 4271, Section 4.1.
type MessageType uint8

const (
	TypeOpen         MessageType = 1
	TypeUpdate       MessageType = 2
	TypeNotification MessageType = 3
	TypeKeepAlive    MessageType = 4
)

func (t MessageType) String() string {
	switch t {
	case TypeOpen:
		return "Open"
	case TypeUpdate:
		return "Update"
	case TypeNotification:
		return "Notification"
	case TypeKeepAlive:
		return "KeepAlive"
	default:
		return "Unknown"
	}
}

const (
	// headerLength is the fixed BGP header: 16-octet marker, 2-octet length,
	// 1-octet type.
	headerLength = 19

	// maxMessageLength per RFC 4271, Section 4.1
	maxMessageLength = 4096

	// BGPVersion is the only supported protocol version in Open messages.
	BGPVersion uint8 = 4
)

// CapabilityCode is the 1-octet capability code from the IANA BGP
// capability registry.
type CapabilityCode uint8

const (
	CapabilityMultiProtocol   CapabilityCode = 1
	CapabilityRouteRefresh    CapabilityCode = 2
	CapabilityExtendedNextHop CapabilityCode = 5
	CapabilityMultipleLabels  CapabilityCode = 8
	CapabilityFourOctetAs     CapabilityCode = 65
	CapabilityAddPath         CapabilityCode = 69
)

func (c CapabilityCode) String() string {
	switch c {
	case CapabilityMultiProtocol:
		return "MultiProtocolExtensions"
	case CapabilityRouteRefresh:
		return "RouteRefresh"
	case CapabilityExtendedNextHop:
		return "ExtendedNextHopEncoding"
	case CapabilityMultipleLabels:
		return "MultipleLabels"
	case CapabilityFourOctetAs:
		return "FourOctetAs"
	case CapabilityAddPath:
		return "AddPath"
	default:
		return "Unknown"
	}
}

// capabilityParameterType is the only optional parameter type defined for
// Open messages (RFC 5492).
const capabilityParameterType uint8 = 2

// AttributeType is the 1-octet path attribute type code.
type AttributeType uint8

const (
	AttributeOrigin        AttributeType = 1
	AttributeASPath        AttributeType = 2
	AttributeNextHop       AttributeType = 3
	AttributeMultiExitDisc AttributeType = 4
	AttributeLocalPref     AttributeType = 5
	AttributeMPReachNLRI   AttributeType = 14
	AttributeMPUnreachNLRI AttributeType = 15
)

// Path attribute flag bits, RFC 4271, Section 4.3.
const (
	FlagOptional       uint8 = 0x80
	FlagTransitive     uint8 = 0x40
	FlagPartial        uint8 = 0x20
	FlagExtendedLength uint8 = 0x10
)

// Origin is the value space of the ORIGIN path attribute.
type Origin uint8

const (
	OriginIGP        Origin = 0
	OriginEGP        Origin = 1
	OriginIncomplete Origin = 2
)

func (o Origin) String() string {
	switch o {
	case OriginIGP:
		return "IGP"
	case OriginEGP:
		return "EGP"
	case OriginIncomplete:
		return "Incomplete"
	default:
		return "Undefined"
	}
}

// AS path segment types, RFC 4271, Section 4.3.
const (
	SegmentTypeASSet      uint8 = 1
	SegmentTypeASSequence uint8 = 2
)

// AddPath send/receive dispositions, RFC 7911, Section 4.
const (
	AddPathReceive     uint8 = 1
	AddPathSend        uint8 = 2
	AddPathSendReceive uint8 = 3
)
