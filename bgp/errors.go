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
	"errors"
	"fmt"
)

var (
	// ErrConnectionNotSynchronized indicates a header whose 16-octet marker is
	// not all-ones (RFC 4271, Section 6.1).
	ErrConnectionNotSynchronized = errors.New("connection not synchronized")

	// ErrBadMessageLength indicates a header length field outside
	// [19, 4096] or inconsistent with the message type.
	ErrBadMessageLength = errors.New("bad message length")

	// ErrUndefinedMessageType indicates a type octet outside the closed set
	// of defined BGP message types.
	ErrUndefinedMessageType = errors.New("undefined message type")

	// ErrUnsupportedVersion indicates an Open message with a version other
	// than 4.
	ErrUnsupportedVersion = errors.New("unsupported BGP version")

	// ErrUndefinedOrigin indicates an ORIGIN attribute value outside the
	// closed set {IGP, EGP, Incomplete}.
	ErrUndefinedOrigin = errors.New("undefined origin")

	// ErrInvalidAttributeLength indicates a path attribute whose declared
	// length does not fit the attribute type's value space.
	ErrInvalidAttributeLength = errors.New("invalid path attribute length")

	// ErrInvalidPrefixLength indicates an NLRI bit length above the address
	// family maximum, or one whose octets exceed the remaining buffer.
	ErrInvalidPrefixLength = errors.New("invalid prefix length")

	// ErrInvalidCapabilityLength indicates a capability whose declared length
	// contradicts its code's fixed layout.
	ErrInvalidCapabilityLength = errors.New("invalid capability length")
)

// IncompleteError signals that a structure declared more bytes than its
// enclosing span holds. Inside a length-delimited frame this is a structural
// inconsistency, never a retry condition.
type IncompleteError struct {
	// Needed is the shortfall in bytes, 0 when unknown.
	Needed int
}

func (e *IncompleteError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("incomplete data, need %d more bytes", e.Needed)
	}
	return "incomplete data"
}

func badMessageLength(length uint16) error {
	return fmt.Errorf("%w: %d", ErrBadMessageLength, length)
}

func undefinedMessageType(t uint8) error {
	return fmt.Errorf("%w: %d", ErrUndefinedMessageType, t)
}

func undefinedOrigin(v uint8) error {
	return fmt.Errorf("%w: %d", ErrUndefinedOrigin, v)
}

func invalidAttributeLength(t AttributeType, length int) error {
	return fmt.Errorf("%w: type %d length %d", ErrInvalidAttributeLength, t, length)
}

func invalidCapabilityLength(c CapabilityCode, length int) error {
	return fmt.Errorf("%w: code %d length %d", ErrInvalidCapabilityLength, c, length)
}
