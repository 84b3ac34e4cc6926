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

// Version is the only BMP protocol version this package speaks (RFC 7854).
const Version uint8 = 3

const (
	// MinMessageLength is the least number of buffered bytes that allow frame
	// detection: 1-octet version plus 4-octet total message length.
	MinMessageLength = 5

	// commonHeaderLength additionally counts the 1-octet message type.
	commonHeaderLength = 6

	// peerHeaderLength is the fixed per-peer header: 1 type, 1 flags,
	// 8 distinguisher, 16 address, 4 AS, 4 BGP id, 4+4 timestamp.
	peerHeaderLength = 42
)

// MessageType is the 1-octet BMP message type.
type MessageType uint8

const (
	TypeRouteMonitoring   MessageType = 0
	TypeStatisticsReport  MessageType = 1
	TypePeerDown          MessageType = 2
	TypePeerUp            MessageType = 3
	TypeInitiation        MessageType = 4
	TypeTermination       MessageType = 5
	TypeRouteMirroring    MessageType = 6
	TypeExperimental251   MessageType = 251
	TypeExperimental252   MessageType = 252
	TypeExperimental253   MessageType = 253
	TypeExperimental254   MessageType = 254
)

func (t MessageType) String() string {
	switch t {
	case TypeRouteMonitoring:
		return "RouteMonitoring"
	case TypeStatisticsReport:
		return "StatisticsReport"
	case TypePeerDown:
		return "PeerDownNotification"
	case TypePeerUp:
		return "PeerUpNotification"
	case TypeInitiation:
		return "Initiation"
	case TypeTermination:
		return "Termination"
	case TypeRouteMirroring:
		return "RouteMirroring"
	case TypeExperimental251, TypeExperimental252, TypeExperimental253, TypeExperimental254:
		return "Experimental"
	default:
		return "Undefined"
	}
}

func (t MessageType) defined() bool {
	switch t {
	case TypeRouteMonitoring, TypeStatisticsReport, TypePeerDown, TypePeerUp,
		TypeInitiation, TypeTermination, TypeRouteMirroring,
		TypeExperimental251, TypeExperimental252, TypeExperimental253, TypeExperimental254:
		return true
	}
	return false
}

// PeerType is the 1-octet peer type of the per-peer header.
type PeerType uint8

const (
	PeerTypeGlobalInstance PeerType = 0
	PeerTypeRdInstance     PeerType = 1
	PeerTypeLocalInstance  PeerType = 2
	PeerTypeLocRibInstance PeerType = 3
)

func (t PeerType) String() string {
	switch t {
	case PeerTypeGlobalInstance:
		return "GlobalInstancePeer"
	case PeerTypeRdInstance:
		return "RdInstancePeer"
	case PeerTypeLocalInstance:
		return "LocalInstancePeer"
	case PeerTypeLocRibInstance:
		return "LocRibInstancePeer"
	default:
		return "Experimental"
	}
}

// Peer flag bits (RFC 7854, Section 4.2; RFC 9069 for F).
type PeerFlags uint8

const (
	PeerFlagIPv6       PeerFlags = 0x80
	PeerFlagPostPolicy PeerFlags = 0x40
	PeerFlagAsn2       PeerFlags = 0x20
	PeerFlagAdjRibOut  PeerFlags = 0x10
	PeerFlagFiltered   PeerFlags = 0x80
)

func (f PeerFlags) IPv6() bool       { return f&PeerFlagIPv6 != 0 }
func (f PeerFlags) PostPolicy() bool { return f&PeerFlagPostPolicy != 0 }
func (f PeerFlags) Asn2() bool       { return f&PeerFlagAsn2 != 0 }
func (f PeerFlags) AdjRibOut() bool  { return f&PeerFlagAdjRibOut != 0 }

// InformationType is the 2-octet TLV type of initiation information.
type InformationType uint16

const (
	InfoString            InformationType = 0
	InfoSystemDescription InformationType = 1
	InfoSystemName        InformationType = 2
	InfoVrfTableName      InformationType = 3
	InfoAdminLabel        InformationType = 4

	InfoExperimental65531 InformationType = 65531
	InfoExperimental65532 InformationType = 65532
	InfoExperimental65533 InformationType = 65533
	InfoExperimental65534 InformationType = 65534
)

func (t InformationType) experimental() bool {
	return t >= InfoExperimental65531 && t <= InfoExperimental65534
}

// TerminationInformationType is the 2-octet TLV type of termination
// information.
type TerminationInformationType uint16

const (
	TerminationInfoString TerminationInformationType = 0
	TerminationInfoReason TerminationInformationType = 1

	TerminationInfoExperimental65531 TerminationInformationType = 65531
	TerminationInfoExperimental65532 TerminationInformationType = 65532
	TerminationInfoExperimental65533 TerminationInformationType = 65533
	TerminationInfoExperimental65534 TerminationInformationType = 65534
)

func (t TerminationInformationType) experimental() bool {
	return t >= TerminationInfoExperimental65531 && t <= TerminationInfoExperimental65534
}

// PeerDownReason is the 1-octet reason code of a Peer Down notification.
type PeerDownReason uint8

const (
	ReasonLocalNotification   PeerDownReason = 1
	ReasonLocalFsmEvent       PeerDownReason = 2
	ReasonRemoteNotification  PeerDownReason = 3
	ReasonRemoteNoData        PeerDownReason = 4
	ReasonPeerDeConfigured    PeerDownReason = 5
	ReasonLocalTlvData        PeerDownReason = 6
	ReasonExperimental251     PeerDownReason = 251
	ReasonExperimental252     PeerDownReason = 252
	ReasonExperimental253     PeerDownReason = 253
	ReasonExperimental254     PeerDownReason = 254
)

func (r PeerDownReason) experimental() bool {
	return r >= ReasonExperimental251 && r <= ReasonExperimental254
}
