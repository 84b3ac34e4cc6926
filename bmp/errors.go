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
	"errors"
	"fmt"
)

var (
	// ErrUndefinedVersion indicates a frame starting with a version octet
	// other than 3. The codec consumes exactly one byte on this error; BMP
	// has no synchronization pattern, so discarding a single octet is the
	// only guaranteed-safe way to make forward progress.
	ErrUndefinedVersion = errors.New("undefined BMP version")

	// ErrUndefinedMessageType indicates a type octet outside the closed set
	// of defined BMP message types.
	ErrUndefinedMessageType = errors.New("undefined BMP message type")

	// ErrUndefinedInformationType indicates an information TLV type outside
	// both the assigned and the experimental ranges.
	ErrUndefinedInformationType = errors.New("undefined information type")

	// ErrUndefinedPeerDownReason indicates a reason octet outside both the
	// assigned and the experimental ranges.
	ErrUndefinedPeerDownReason = errors.New("undefined peer down reason")

	// ErrInvalidMessageLength indicates a common header whose 4-octet length
	// field is below the minimum header size.
	ErrInvalidMessageLength = errors.New("invalid BMP message length")

	// ErrUnexpectedMessage indicates an embedded BGP message of a kind the
	// enclosing BMP structure does not allow, e.g. a non-Open in Peer Up.
	ErrUnexpectedMessage = errors.New("unexpected embedded BGP message")
)

// IncompleteError reports that a nested structure required more bytes than
// its length-delimited frame supplied. Since frames are complete before body
// decoding starts, this is a structural inconsistency (the frame lied about
// its length), never a retry condition.
type IncompleteError struct {
	// Needed is the shortfall in bytes, 0 when unknown.
	Needed int
}

func (e *IncompleteError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("frame body incomplete, need %d more bytes", e.Needed)
	}
	return "frame body incomplete"
}

func undefinedVersion(v uint8) error {
	return fmt.Errorf("%w: %d", ErrUndefinedVersion, v)
}

func undefinedMessageType(t uint8) error {
	return fmt.Errorf("%w: %d", ErrUndefinedMessageType, t)
}

func undefinedInformationType(t uint16) error {
	return fmt.Errorf("%w: %d", ErrUndefinedInformationType, t)
}

func undefinedPeerDownReason(r uint8) error {
	return fmt.Errorf("%w: %d", ErrUndefinedPeerDownReason, r)
}

func invalidMessageLength(l uint32) error {
	return fmt.Errorf("%w: %d", ErrInvalidMessageLength, l)
}
