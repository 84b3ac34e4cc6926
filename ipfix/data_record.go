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

// FieldValue is one decoded field of a data record: the specifier it was
// laid out by and the raw value octets (without the length prefix for
// variable-length fields). Values stay opaque; interpreting them is the
// registry consumer's concern, and opaque octets round-trip byte-exactly.
type FieldValue struct {
	FieldSpecifier FieldSpecifier `json:"field,omitempty" yaml:"field,omitempty"`
	Value          []byte         `json:"value,omitempty" yaml:"value,omitempty"`
}

func (f *FieldValue) Len() int {
	if !f.FieldSpecifier.Variable() {
		return len(f.Value)
	}
	if len(f.Value) >= 255 {
		return 3 + len(f.Value)
	}
	return 1 + len(f.Value)
}

func (f *FieldValue) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if f.FieldSpecifier.Variable() {
		// RFC 7011, Section 7: values of 255 octets and more use the
		// three-octet length encoding
		if len(f.Value) >= 255 {
			if err := writeUint8(cw, 255); err != nil {
				return cw.n, err
			}
			if err := writeUint16(cw, uint16(len(f.Value))); err != nil {
				return cw.n, err
			}
		} else {
			if err := writeUint8(cw, uint8(len(f.Value))); err != nil {
				return cw.n, err
			}
		}
	}
	_, err := cw.Write(f.Value)
	return cw.n, err
}

func decodeFieldValue(b *bytes.Buffer, spec FieldSpecifier) (FieldValue, error) {
	f := FieldValue{FieldSpecifier: spec}
	length := int(spec.Length)
	if spec.Variable() {
		short, err := readUint8(b)
		if err != nil {
			return f, err
		}
		length = int(short)
		if short == 255 {
			long, err := readUint16(b)
			if err != nil {
				return f, err
			}
			length = int(long)
		}
	}
	value, err := take(b, length)
	if err != nil {
		return f, err
	}
	if length > 0 {
		f.Value = append([]byte(nil), value...)
	}
	return f, nil
}

// DataRecord is one record of a data set, decoded field by field in template
// order.
type DataRecord struct {
	Fields []FieldValue `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func (r *DataRecord) Len() int {
	n := 0
	for i := range r.Fields {
		n += r.Fields[i].Len()
	}
	return n
}

func (r *DataRecord) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	for i := range r.Fields {
		if _, err := r.Fields[i].Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeDataRecord(b *bytes.Buffer, template *Template) (DataRecord, error) {
	var r DataRecord
	for _, spec := range template.Fields {
		f, err := decodeFieldValue(b, spec)
		if err != nil {
			return r, err
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}
