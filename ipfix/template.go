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
	"time"
)

// TemplateRecord describes the layout of data records in a data set
// (RFC 7011, Section 3.4.1).
type TemplateRecord struct {
	TemplateId uint16           `json:"template_id" yaml:"templateId"`
	Fields     []FieldSpecifier `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func (r *TemplateRecord) Len() int {
	n := 4 // template id + field count
	for i := range r.Fields {
		n += r.Fields[i].Len()
	}
	return n
}

func (r *TemplateRecord) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint16(cw, r.TemplateId); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, uint16(len(r.Fields))); err != nil {
		return cw.n, err
	}
	for i := range r.Fields {
		if _, err := r.Fields[i].Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeTemplateRecord(b *bytes.Buffer, reg *Registry) (TemplateRecord, error) {
	var r TemplateRecord
	var err error
	if r.TemplateId, err = readUint16(b); err != nil {
		return r, err
	}
	count, err := readUint16(b)
	if err != nil {
		return r, err
	}
	for i := uint16(0); i < count; i++ {
		f, err := decodeFieldSpecifier(b, reg)
		if err != nil {
			return r, err
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}

// OptionsTemplateRecord additionally marks its first ScopeFieldCount fields
// as scope fields (RFC 7011, Section 3.4.2).
type OptionsTemplateRecord struct {
	TemplateId      uint16           `json:"template_id" yaml:"templateId"`
	ScopeFieldCount uint16           `json:"scope_field_count" yaml:"scopeFieldCount"`
	Fields          []FieldSpecifier `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func (r *OptionsTemplateRecord) Len() int {
	n := 6 // template id + field count + scope field count
	for i := range r.Fields {
		n += r.Fields[i].Len()
	}
	return n
}

func (r *OptionsTemplateRecord) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint16(cw, r.TemplateId); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, uint16(len(r.Fields))); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, r.ScopeFieldCount); err != nil {
		return cw.n, err
	}
	for i := range r.Fields {
		if _, err := r.Fields[i].Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func decodeOptionsTemplateRecord(b *bytes.Buffer, reg *Registry) (OptionsTemplateRecord, error) {
	var r OptionsTemplateRecord
	var err error
	if r.TemplateId, err = readUint16(b); err != nil {
		return r, err
	}
	count, err := readUint16(b)
	if err != nil {
		return r, err
	}
	if r.ScopeFieldCount, err = readUint16(b); err != nil {
		return r, err
	}
	for i := uint16(0); i < count; i++ {
		f, err := decodeFieldSpecifier(b, reg)
		if err != nil {
			return r, err
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}

// Template is what the cache stores per (observation domain, template id):
// the specifier list of either a template or an options template record, and
// when the decoder learned it.
type Template struct {
	ObservationDomainId uint32    `json:"observation_domain_id" yaml:"observationDomainId"`
	TemplateId          uint16    `json:"template_id" yaml:"templateId"`
	ScopeFieldCount     uint16    `json:"scope_field_count,omitempty" yaml:"scopeFieldCount,omitempty"`
	Fields              []FieldSpecifier
	CreationTimestamp   time.Time `json:"creation_timestamp" yaml:"creationTimestamp"`
}

// minRecordLength is the least number of octets one data record described by
// this template occupies: fixed lengths plus one length octet per
// variable-length field. Shorter trailing residue in a data set is padding.
func (t *Template) minRecordLength() int {
	n := 0
	for i := range t.Fields {
		if t.Fields[i].Variable() {
			n++
			continue
		}
		n += int(t.Fields[i].Length)
	}
	return n
}
