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

// Package ipfix implements the IPFIX protocol (RFC 7011): the message and
// set model, field specifier TLVs validated against an information element
// registry, and a template-driven data record decoder backed by a pluggable
// template cache.
package ipfix

import (
	"io"
)

// Message is one IPFIX message: the 16-octet header and its sets. The
// 2-octet total length of the header is computed on encode, never stored.
type Message struct {
	ExportTime          uint32 `json:"export_time,omitempty" yaml:"exportTime,omitempty"`
	SequenceNumber      uint32 `json:"sequence_number,omitempty" yaml:"sequenceNumber,omitempty"`
	ObservationDomainId uint32 `json:"observation_domain_id,omitempty" yaml:"observationDomainId,omitempty"`
	Sets                []Set  `json:"sets,omitempty" yaml:"sets,omitempty"`
}

func (m *Message) Len() int {
	n := headerLength
	for i := range m.Sets {
		n += m.Sets[i].Len()
	}
	return n
}

func (m *Message) Encode(w io.Writer) (int, error) {
	cw := &countingWriter{w: w}
	if err := writeUint16(cw, Version); err != nil {
		return cw.n, err
	}
	if err := writeUint16(cw, uint16(m.Len())); err != nil {
		return cw.n, err
	}
	if err := writeUint32(cw, m.ExportTime); err != nil {
		return cw.n, err
	}
	if err := writeUint32(cw, m.SequenceNumber); err != nil {
		return cw.n, err
	}
	if err := writeUint32(cw, m.ObservationDomainId); err != nil {
		return cw.n, err
	}
	for i := range m.Sets {
		if _, err := m.Sets[i].Encode(cw); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}
