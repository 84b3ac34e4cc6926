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

package ipfix

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVersion indicates a message header whose version word is not 10.
	ErrUnknownVersion = errors.New("unknown IPFIX version")

	// ErrUnknownSetId indicates a set id in the reserved interval [4, 255].
	ErrUnknownSetId = errors.New("unknown set id")

	// ErrTemplateNotFound is the base error for data sets arriving before the
	// template that describes them. Use errors.Is for comparison; the decoder
	// wraps it with the offending key.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrFieldSpecifierNotDefined indicates a record whose field layout
	// cannot be resolved: an IANA-assigned specifier the registry does not
	// know, or a data set whose template has not been seen. Missing-template
	// errors additionally wrap ErrTemplateNotFound.
	ErrFieldSpecifierNotDefined = errors.New("field specifier is not defined")

	// ErrInvalidLength indicates a field specifier whose declared length is
	// outside the range the registry allows for the information element.
	ErrInvalidLength = errors.New("invalid field length")

	// ErrInvalidMessageLength indicates a header or set whose length field
	// disagrees with its payload.
	ErrInvalidMessageLength = errors.New("invalid message length")
)

// IncompleteError reports that a length-delimited span ran out of bytes while
// a nested structure still required more. The span is complete before body
// decoding starts, so this is a malformed message, never a retry condition.
type IncompleteError struct {
	Needed int
}

func (e *IncompleteError) Error() string {
	if e.Needed > 0 {
		return fmt.Sprintf("message body incomplete, need %d more bytes", e.Needed)
	}
	return "message body incomplete"
}

func templateNotFound(key TemplateKey) error {
	return fmt.Errorf("%w: %w for %d in observation domain %d",
		ErrFieldSpecifierNotDefined, ErrTemplateNotFound, key.TemplateId, key.ObservationDomainId)
}

func unknownVersion(v uint16) error {
	return fmt.Errorf("%w: %d", ErrUnknownVersion, v)
}

func unknownSetId(id uint16) error {
	return fmt.Errorf("%w: %d", ErrUnknownSetId, id)
}

func fieldSpecifierNotDefined(id uint16, pen uint32) error {
	if pen != 0 {
		return fmt.Errorf("%w: id %d, enterprise %d", ErrFieldSpecifierNotDefined, id, pen)
	}
	return fmt.Errorf("%w: id %d", ErrFieldSpecifierNotDefined, id)
}

func invalidFieldLength(id uint16, length uint16, allowed *LengthRange) error {
	return fmt.Errorf("%w: %d octets for id %d, allowed range [%d, %d]", ErrInvalidLength, length, id, allowed.Low, allowed.High)
}

func invalidMessageLength(l int) error {
	return fmt.Errorf("%w: %d", ErrInvalidMessageLength, l)
}
