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
	"bytes"
	"io"
)

// FieldSpecifier is one TLV of a template record (RFC 7011, Section 3.2):
// a 2-octet element id whose top bit marks an enterprise-specific element,
// a 2-octet field length (0xffff for variable-length), and a 4-octet private
// enterprise number present exactly when the enterprise bit is set.
type FieldSpecifier struct {
	Id     uint16 `json:"id" yaml:"id"`
	Length uint16 `json:"length" yaml:"length"`

	// EnterpriseNumber is 0 for IANA-assigned elements; a non-zero value is
	// carried on the wire and the enterprise bit is set on the id word.
	EnterpriseNumber uint32 `json:"pen,omitempty" yaml:"pen,omitempty"`

	// Enterprise mirrors the enterprise bit of the id word. A non-zero
	// EnterpriseNumber implies it; tracking it separately keeps specifiers
	// that set the bit with enterprise number 0 round-tripping unchanged.
	Enterprise bool `json:"enterprise,omitempty" yaml:"enterprise,omitempty"`
}

// Variable reports whether fields of this specifier prefix their value with
// an explicit length.
func (f *FieldSpecifier) Variable() bool { return f.Length == VariableLength }

func (f *FieldSpecifier) enterprise() bool {
	return f.Enterprise || f.EnterpriseNumber != 0
}

func (f *FieldSpecifier) Len() int {
	if f.enterprise() {
		return 8
	}
	return 4
}

func (f *FieldSpecifier) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	id := f.Id
	if f.enterprise() {
		id |= enterpriseBit
	}
	if err := writeUint16(cw, id); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, f.Length); err != nil {
		return cw.n, err
	}
	if f.enterprise() {
		if err := writeUint32(cw, f.EnterpriseNumber); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// decodeFieldSpecifier reads one specifier from b and, when reg is non-nil,
// validates the declared length against the registry.
func decodeFieldSpecifier(b *bytes.Buffer, reg *Registry) (FieldSpecifier, error) {
	var f FieldSpecifier
	id, err := readUint16(b)
	if err != nil {
		return f, err
	}
	f.Id = id &^ enterpriseBit
	if f.Length, err = readUint16(b); err != nil {
		return f, err
	}
	if id&enterpriseBit != 0 {
		f.Enterprise = true
		if f.EnterpriseNumber, err = readUint32(b); err != nil {
			return f, err
		}
	}
	if reg != nil {
		if err := reg.validate(&f); err != nil {
			return f, err
		}
	}
	return f, nil
}
